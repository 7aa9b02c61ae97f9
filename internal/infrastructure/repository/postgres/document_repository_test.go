package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

func documentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "company_id", "filename", "mime_type", "storage_path", "class_type", "confidence",
		"issue_date", "expiry_date", "language", "status", "error_message", "processed_at",
		"created_at", "updated_at",
	})
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, company_id, filename").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDScansNullableColumns(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, company_id, filename").
		WithArgs("d1").
		WillReturnRows(documentRows().AddRow(
			"d1", "c1", "license.pdf", "application/pdf", "c1/d1_license.pdf", nil, 0.0,
			nil, nil, nil, "uploaded", nil, nil, now, now,
		))

	doc, err := repo.GetByID(context.Background(), "d1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.CompanyID != "c1" || doc.Status != domain.StatusUploaded {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.ClassType != "" || doc.IssueDate != nil || doc.ProcessedAt != nil {
		t.Fatalf("nullable columns not zeroed: %+v", doc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListByCompanyOrdersByCreation(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("FROM documents").
		WithArgs("c1").
		WillReturnRows(documentRows().
			AddRow("d1", "c1", "license.pdf", "application/pdf", "p1", "Trade License", 0.9,
				"2023-06-01", "2026-06-01", "en", "classified", nil, now, now, now).
			AddRow("d2", "c1", "balance.pdf", "application/pdf", "p2", nil, 0.0,
				nil, nil, nil, "uploaded", nil, nil, now, now))

	docs, err := repo.ListByCompany(context.Background(), "c1")
	if err != nil {
		t.Fatalf("ListByCompany() error = %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "d1" || docs[1].ID != "d2" {
		t.Fatalf("unexpected documents: %+v", docs)
	}
	if docs[0].ClassType != "Trade License" || *docs[0].ExpiryDate != "2026-06-01" {
		t.Fatalf("classification columns not mapped: %+v", docs[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.StatusProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSaveQuickClassificationReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	issue := "2023-06-01"
	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", "Trade License", 0.9, &issue, nil, "en", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SaveQuickClassification(context.Background(), "missing", domain.QuickClassification{
		ClassType:  "Trade License",
		Confidence: 0.9,
		IssueDate:  &issue,
		Language:   "en",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
