package extractor

import (
	"context"
	"testing"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

type namedExtractor struct {
	name string
}

func (e *namedExtractor) Extract(context.Context, *domain.Document) (string, error) {
	return e.name, nil
}

func TestRegistryResolvesByMIME(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("application/pdf", &namedExtractor{name: "pdf"}, ".pdf")
	r.Register("text/plain", &namedExtractor{name: "plain"}, ".txt")

	text, err := r.Extract(context.Background(), &domain.Document{
		Filename: "license.bin",
		MimeType: "application/pdf; charset=binary",
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "pdf" {
		t.Fatalf("resolved %q, want pdf extractor", text)
	}
}

func TestRegistryFallsBackToExtension(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("application/pdf", &namedExtractor{name: "pdf"}, ".pdf")

	text, err := r.Extract(context.Background(), &domain.Document{
		Filename: "license.PDF",
		MimeType: "application/octet-stream",
	})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "pdf" {
		t.Fatalf("resolved %q, want pdf extractor", text)
	}
}

func TestRegistryUsesFallbackExtractor(t *testing.T) {
	r := NewRegistry(&namedExtractor{name: "fallback"})

	text, err := r.Extract(context.Background(), &domain.Document{Filename: "notes.md"})
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if text != "fallback" {
		t.Fatalf("resolved %q, want fallback extractor", text)
	}
}

func TestRegistryErrorsWithoutMatch(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.Extract(context.Background(), &domain.Document{Filename: "scan.tiff", MimeType: "image/tiff"})
	if err == nil {
		t.Fatalf("expected error for unroutable document")
	}
}
