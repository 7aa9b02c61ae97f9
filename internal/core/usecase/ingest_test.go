package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

type storageFake struct {
	saveErr error
	keys    []string
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	_, _ = io.Copy(io.Discard, data)
	f.keys = append(f.keys, key)
	return nil
}

func (f *storageFake) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

type queueFake struct {
	publishErr error
	published  []string
}

func (f *queueFake) PublishDocumentUploaded(_ context.Context, documentID string) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, documentID)
	return nil
}

func (f *queueFake) SubscribeDocumentUploaded(context.Context, func(context.Context, string) error) error {
	return nil
}

func TestUploadSuccess(t *testing.T) {
	repo := &docRepoFake{}
	storage := &storageFake{}
	queue := &queueFake{}
	uc := NewIngestDocumentUseCase(repo, storage, queue)

	doc, err := uc.Upload(context.Background(), "c1", "trade license.pdf", "application/pdf", bytes.NewBufferString("%PDF"))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.CompanyID != "c1" || doc.Status != domain.StatusUploaded {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if len(storage.keys) != 1 || !strings.HasPrefix(storage.keys[0], "c1/") {
		t.Fatalf("storage keys = %v, want company-scoped key", storage.keys)
	}
	if strings.Contains(storage.keys[0], " ") {
		t.Fatalf("storage key not sanitized: %q", storage.keys[0])
	}
	if len(queue.published) != 1 || queue.published[0] != doc.ID {
		t.Fatalf("published = %v, want the new document id", queue.published)
	}
}

func TestUploadRequiresCompanyID(t *testing.T) {
	uc := NewIngestDocumentUseCase(&docRepoFake{}, &storageFake{}, &queueFake{})

	_, err := uc.Upload(context.Background(), "  ", "doc.pdf", "application/pdf", bytes.NewBufferString("x"))
	if err == nil {
		t.Fatalf("expected error for blank company id")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("error kind = %v, want ErrInvalidInput", err)
	}
}

func TestUploadStorageFailure(t *testing.T) {
	uc := NewIngestDocumentUseCase(&docRepoFake{}, &storageFake{saveErr: errors.New("disk full")}, &queueFake{})

	_, err := uc.Upload(context.Background(), "c1", "doc.pdf", "application/pdf", bytes.NewBufferString("x"))
	if err == nil {
		t.Fatalf("expected storage error")
	}
}
