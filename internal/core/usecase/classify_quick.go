package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/trustlane/kyb-service/internal/core/domain"
	"github.com/trustlane/kyb-service/internal/core/ports"
	"github.com/trustlane/kyb-service/internal/kyb/classify"
	"github.com/trustlane/kyb-service/internal/kyb/extract"
)

// QuickClassifyUseCase runs the upload-time path for one document:
// extract text, detect language, classify with the quick scoring policy
// and pull the issue/expiry dates. The resulting metadata is persisted
// on the document row; no company-wide aggregation happens here.
type QuickClassifyUseCase struct {
	repo       ports.DocumentRepository
	extractor  ports.TextExtractor
	detector   ports.LanguageDetector
	classifier *classify.Classifier

	// Now is overridable for deterministic tests.
	Now func() time.Time
}

func NewQuickClassifyUseCase(
	repo ports.DocumentRepository,
	extractor ports.TextExtractor,
	detector ports.LanguageDetector,
	classifier *classify.Classifier,
) *QuickClassifyUseCase {
	if classifier == nil {
		classifier = classify.New(nil, classify.QuickScoring())
	}
	return &QuickClassifyUseCase{
		repo:       repo,
		extractor:  extractor,
		detector:   detector,
		classifier: classifier,
		Now:        time.Now,
	}
}

// Classify is the pure quick path over already-extracted text.
func (uc *QuickClassifyUseCase) Classify(text string) domain.QuickClassification {
	classification := uc.classifier.Classify(text)
	issue, expiry := extract.IssueAndExpiry(text)

	return domain.QuickClassification{
		ClassType:   classification.ClassType,
		Confidence:  classification.Confidence,
		IssueDate:   issue,
		ExpiryDate:  expiry,
		Language:    uc.detector.Detect(text),
		ProcessedAt: uc.Now().UTC(),
	}
}

// ProcessByID loads a stored document, runs the quick path and persists
// the result. Extraction failure marks the document failed; it is fatal
// for this document only.
func (uc *QuickClassifyUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		wrapped := domain.WrapError(domain.ErrExtraction, "extract text", err)
		if failErr := uc.repo.UpdateStatus(ctx, documentID, domain.StatusFailed, wrapped.Error()); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", wrapped, failErr)
		}
		return wrapped
	}

	qc := uc.Classify(text)
	if err := uc.repo.SaveQuickClassification(ctx, documentID, qc); err != nil {
		return fmt.Errorf("save quick classification: %w", err)
	}

	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusClassified, ""); err != nil {
		return fmt.Errorf("set status=classified: %w", err)
	}
	return nil
}
