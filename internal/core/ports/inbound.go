package ports

import (
	"context"
	"io"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, companyID, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for the upload-time quick
// classification path.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// KYBGenerator is the inbound contract for a full company KYB run:
// every document folded into one unified profile, then compliance
// validation and risk scoring.
type KYBGenerator interface {
	Generate(ctx context.Context, companyID string) (*domain.UnifiedCompanyProfile, error)
}
