package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/trustlane/kyb-service/internal/core/domain"
	"github.com/trustlane/kyb-service/internal/core/ports"
)

// Registry routes extraction to a format-specific extractor based on
// the declared MIME type, falling back to the filename extension when
// the upload did not declare one.
type Registry struct {
	byMIME      map[string]ports.TextExtractor
	byExtension map[string]ports.TextExtractor
	fallback    ports.TextExtractor
}

func NewRegistry(fallback ports.TextExtractor) *Registry {
	return &Registry{
		byMIME:      make(map[string]ports.TextExtractor),
		byExtension: make(map[string]ports.TextExtractor),
		fallback:    fallback,
	}
}

// Register binds an extractor to a MIME type and a set of extensions.
// Extensions are matched case-insensitively and include the dot.
func (r *Registry) Register(mimeType string, extractor ports.TextExtractor, extensions ...string) {
	if mimeType != "" {
		r.byMIME[strings.ToLower(mimeType)] = extractor
	}
	for _, ext := range extensions {
		r.byExtension[strings.ToLower(ext)] = extractor
	}
}

func (r *Registry) Extract(ctx context.Context, doc *domain.Document) (string, error) {
	if e := r.resolve(doc); e != nil {
		return e.Extract(ctx, doc)
	}
	return "", fmt.Errorf("no extractor for %s (mime %q)", doc.Filename, doc.MimeType)
}

func (r *Registry) resolve(doc *domain.Document) ports.TextExtractor {
	mimeType := strings.ToLower(doc.MimeType)
	// Strip parameters such as "; charset=utf-8".
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if e, ok := r.byMIME[mimeType]; ok {
		return e
	}
	if e, ok := r.byExtension[strings.ToLower(filepath.Ext(doc.Filename))]; ok {
		return e
	}
	return r.fallback
}
