package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

type ingestorFake struct {
	err error
	doc *domain.Document
	// failFor rejects specific filenames while the rest succeed.
	failFor map[string]error

	companyID string
	filenames []string
}

func (f *ingestorFake) Upload(_ context.Context, companyID, filename, _ string, body io.Reader) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err, ok := f.failFor[filename]; ok {
		return nil, err
	}
	_, _ = io.Copy(io.Discard, body)
	f.companyID = companyID
	f.filenames = append(f.filenames, filename)
	return f.doc, nil
}

type readerFake struct {
	err error
	doc *domain.Document
}

func (f *readerFake) GetByID(context.Context, string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.doc, nil
}

type generatorFake struct {
	err     error
	profile *domain.UnifiedCompanyProfile
}

func (f *generatorFake) Generate(context.Context, string) (*domain.UnifiedCompanyProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type exporterFake struct {
	err  error
	data []byte
}

func (f *exporterFake) ExportProfileXLSX(context.Context, string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for filename, content := range files {
		part, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUploadDocumentEndpoint(t *testing.T) {
	ingestor := &ingestorFake{doc: &domain.Document{ID: "d1", CompanyID: "c1", Status: domain.StatusUploaded}}
	rt := NewRouter(ingestor, &readerFake{}, &generatorFake{}, &exporterFake{}, RouterOptions{})

	body, contentType := multipartBody(t, "file", map[string]string{"trade-license.pdf": "%PDF"})
	req := httptest.NewRequest(http.MethodPost, "/v1/companies/c1/documents", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", res.Code, res.Body.String())
	}
	if ingestor.companyID != "c1" || len(ingestor.filenames) != 1 || ingestor.filenames[0] != "trade-license.pdf" {
		t.Fatalf("ingestor got company=%q files=%v", ingestor.companyID, ingestor.filenames)
	}
	if res.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}

	var results []uploadResult
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(results) != 1 || results[0].Document == nil || results[0].Document.ID != "d1" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestUploadBatchIsolatesFailures(t *testing.T) {
	ingestor := &ingestorFake{
		doc:     &domain.Document{ID: "d1", CompanyID: "c1", Status: domain.StatusUploaded},
		failFor: map[string]error{"broken.pdf": errors.New("disk full")},
	}
	rt := NewRouter(ingestor, &readerFake{}, &generatorFake{}, &exporterFake{}, RouterOptions{})

	body, contentType := multipartBody(t, "file", map[string]string{
		"license.pdf": "%PDF",
		"broken.pdf":  "%PDF",
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/companies/c1/documents", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 when at least one file succeeds", res.Code)
	}

	var results []uploadResult
	if err := json.NewDecoder(res.Body).Decode(&results); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	succeeded, failed := 0, 0
	for _, result := range results {
		switch {
		case result.Document != nil && result.Error == "":
			succeeded++
		case result.Document == nil && result.Error != "":
			failed++
		}
	}
	if succeeded != 1 || failed != 1 {
		t.Fatalf("succeeded=%d failed=%d, want one of each: %+v", succeeded, failed, results)
	}
}

func TestUploadDocumentRequiresFile(t *testing.T) {
	rt := NewRouter(&ingestorFake{}, &readerFake{}, &generatorFake{}, &exporterFake{}, RouterOptions{})

	req := httptest.NewRequest(http.MethodPost, "/v1/companies/c1/documents", bytes.NewBufferString("raw"))
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.Code)
	}
}

func TestGetDocumentMapsNotFound(t *testing.T) {
	reader := &readerFake{err: domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New("id ghost"))}
	rt := NewRouter(&ingestorFake{}, reader, &generatorFake{}, &exporterFake{}, RouterOptions{})

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/ghost", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.Code)
	}
}

func TestGenerateKYBEndpoint(t *testing.T) {
	profile := domain.NewUnifiedCompanyProfile()
	profile.RiskAssessment = &domain.RiskAssessment{FinancialRiskScore: 40, RiskBand: domain.BandMedium, ConfidenceLevel: "Medium"}
	rt := NewRouter(&ingestorFake{}, &readerFake{}, &generatorFake{profile: profile}, &exporterFake{}, RouterOptions{})

	req := httptest.NewRequest(http.MethodPost, "/v1/companies/c1/kyb", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", res.Code, res.Body.String())
	}

	var got domain.UnifiedCompanyProfile
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.RiskAssessment == nil || got.RiskAssessment.RiskBand != domain.BandMedium {
		t.Fatalf("riskAssessment = %+v", got.RiskAssessment)
	}
}

func TestGenerateKYBMapsInvalidInput(t *testing.T) {
	gen := &generatorFake{err: domain.WrapError(domain.ErrInvalidInput, "generate kyb", errors.New("blank company id"))}
	rt := NewRouter(&ingestorFake{}, &readerFake{}, gen, &exporterFake{}, RouterOptions{})

	req := httptest.NewRequest(http.MethodPost, "/v1/companies/c1/kyb", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", res.Code)
	}
}

func TestExportEndpointStreamsWorkbook(t *testing.T) {
	rt := NewRouter(&ingestorFake{}, &readerFake{}, &generatorFake{}, &exporterFake{data: []byte("PK\x03\x04")}, RouterOptions{})

	req := httptest.NewRequest(http.MethodGet, "/v1/companies/c1/kyb/export", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
	if got := res.Header().Get("Content-Type"); got != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content type = %q", got)
	}
	if res.Header().Get("Content-Disposition") == "" {
		t.Fatalf("expected attachment disposition")
	}
	if !bytes.Equal(res.Body.Bytes(), []byte("PK\x03\x04")) {
		t.Fatalf("workbook bytes not streamed verbatim")
	}
}

func TestExportMapsProfileNotFound(t *testing.T) {
	exporter := &exporterFake{err: domain.WrapError(domain.ErrProfileNotFound, "get latest profile", errors.New("company ghost"))}
	rt := NewRouter(&ingestorFake{}, &readerFake{}, &generatorFake{}, exporter, RouterOptions{})

	req := httptest.NewRequest(http.MethodGet, "/v1/companies/ghost/kyb/export", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.Code)
	}
}

func TestHealthz(t *testing.T) {
	rt := NewRouter(&ingestorFake{}, &readerFake{}, &generatorFake{}, &exporterFake{}, RouterOptions{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	rt.Handler().ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Code)
	}
}
