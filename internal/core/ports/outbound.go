package ports

import (
	"context"
	"io"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByCompany(ctx context.Context, companyID string) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveQuickClassification(ctx context.Context, id string, qc domain.QuickClassification) error
}

// ProfileRepository persists unified company profile snapshots.
type ProfileRepository interface {
	SaveProfile(ctx context.Context, companyID string, profile *domain.UnifiedCompanyProfile) error
	GetLatestProfile(ctx context.Context, companyID string) (*domain.UnifiedCompanyProfile, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes document-upload events.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document. A document
// that cannot be parsed yields domain.ErrExtraction, never empty text.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// LanguageDetector identifies the natural language of extracted text.
// Detection failure yields "unknown"; it never fails the document.
type LanguageDetector interface {
	Detect(text string) string
}
