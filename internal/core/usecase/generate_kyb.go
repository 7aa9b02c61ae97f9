package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trustlane/kyb-service/internal/core/domain"
	"github.com/trustlane/kyb-service/internal/core/ports"
	"github.com/trustlane/kyb-service/internal/kyb/aggregate"
	"github.com/trustlane/kyb-service/internal/kyb/compliance"
	"github.com/trustlane/kyb-service/internal/kyb/risk"
	"github.com/trustlane/kyb-service/internal/observability/logging"
)

// GenerateKYBUseCase runs a full company KYB: every stored document is
// re-processed and folded into one fresh unified profile, which is then
// validated and risk-scored once. Folding is strictly sequential because
// later documents overwrite fields set by earlier ones.
type GenerateKYBUseCase struct {
	docRepo     ports.DocumentRepository
	profileRepo ports.ProfileRepository
	extractor   ports.TextExtractor
	aggregator  *aggregate.Aggregator
	validator   *compliance.Validator
}

func NewGenerateKYBUseCase(
	docRepo ports.DocumentRepository,
	profileRepo ports.ProfileRepository,
	extractor ports.TextExtractor,
	aggregator *aggregate.Aggregator,
	validator *compliance.Validator,
) *GenerateKYBUseCase {
	if aggregator == nil {
		aggregator = aggregate.New(nil, aggregate.RequiredFieldsFull())
	}
	if validator == nil {
		validator = compliance.New()
	}
	return &GenerateKYBUseCase{
		docRepo:     docRepo,
		profileRepo: profileRepo,
		extractor:   extractor,
		aggregator:  aggregator,
		validator:   validator,
	}
}

func (uc *GenerateKYBUseCase) Generate(ctx context.Context, companyID string) (*domain.UnifiedCompanyProfile, error) {
	docs, err := uc.docRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("list company documents: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "generate kyb", fmt.Errorf("no documents for company %s", companyID))
	}

	profile := domain.NewUnifiedCompanyProfile()

	for _, doc := range docs {
		text, err := uc.extractDocument(ctx, doc)
		if err != nil {
			// Extraction failure is fatal for this document only; the
			// profile built so far stays intact and folding continues.
			slog.Warn("skipping document in kyb run",
				"company_id", companyID,
				"document_id", doc.ID,
				"file", doc.Filename,
				"error", err,
			)
			continue
		}
		uc.Fold(profile, text, doc.Filename)
	}

	if _, _, err := uc.AssessRisk(profile); err != nil {
		return nil, fmt.Errorf("assess risk: %w", err)
	}

	if err := uc.profileRepo.SaveProfile(ctx, companyID, profile); err != nil {
		return nil, fmt.Errorf("persist unified profile: %w", err)
	}

	registration := ""
	if f, ok := profile.LicenseDetails["registrationNumber"]; ok {
		registration, _ = f.Value.(string)
	}
	slog.Info("kyb profile generated",
		"company_id", companyID,
		"documents", len(profile.Documents),
		"registration_number", logging.Mask(registration),
		"risk_band", profile.RiskAssessment.RiskBand,
		"exceptions", len(profile.Compliance.Exceptions),
	)

	return profile, nil
}

// Fold merges one document's text into the profile.
func (uc *GenerateKYBUseCase) Fold(profile *domain.UnifiedCompanyProfile, text, docName string) {
	uc.aggregator.Fold(profile, text, docName)
}

// AssessRisk finalizes a fully folded profile: the compliance validator
// and the risk engine each run once, in that order, and both contribute
// to the profile's exception list. A fresh engine is built per run, so
// concurrent runs never share scoring state.
func (uc *GenerateKYBUseCase) AssessRisk(profile *domain.UnifiedCompanyProfile) (domain.RiskAssessment, []domain.ComplianceException, error) {
	exceptions := uc.validator.Validate(profile)

	engine := risk.NewEngine()
	engine.EvaluateFinancialRisk(profile)
	engine.ValidateDocuments(profile)
	assessment, riskExceptions, err := engine.Finalize()
	if err != nil {
		return domain.RiskAssessment{}, nil, err
	}

	exceptions = append(exceptions, riskExceptions...)
	profile.RiskAssessment = &assessment
	profile.Compliance = domain.ComplianceIndicators{Exceptions: exceptions}
	return assessment, exceptions, nil
}

func (uc *GenerateKYBUseCase) extractDocument(ctx context.Context, doc domain.Document) (string, error) {
	text, err := uc.extractor.Extract(ctx, &doc)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "extract text", err)
	}
	return text, nil
}
