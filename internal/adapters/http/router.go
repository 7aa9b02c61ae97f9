package httpadapter

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/trustlane/kyb-service/internal/core/domain"
	"github.com/trustlane/kyb-service/internal/core/ports"
	"github.com/trustlane/kyb-service/internal/observability/metrics"
)

// ProfileExporter renders the latest profile of a company as an XLSX
// workbook.
type ProfileExporter interface {
	ExportProfileXLSX(ctx context.Context, companyID string) ([]byte, error)
}

type Router struct {
	ingestor ports.DocumentIngestor
	docs     ports.DocumentReader
	kyb      ports.KYBGenerator
	exporter ProfileExporter
	metrics  *metrics.HTTPServerMetrics

	serviceName    string
	maxUploadBytes int64
	rateLimitRPS   int
	rateLimitBurst int
	maxConcurrent  int
	queueWait      time.Duration
}

type RouterOptions struct {
	ServiceName    string
	MaxUploadBytes int64
	RateLimitRPS   int
	RateLimitBurst int
	MaxConcurrent  int
	QueueWait      time.Duration
	Metrics        *metrics.HTTPServerMetrics
}

func NewRouter(
	ingestor ports.DocumentIngestor,
	docs ports.DocumentReader,
	kyb ports.KYBGenerator,
	exporter ProfileExporter,
	options RouterOptions,
) *Router {
	if options.ServiceName == "" {
		options.ServiceName = "api"
	}
	if options.MaxUploadBytes <= 0 {
		options.MaxUploadBytes = 20 << 20
	}
	if options.QueueWait <= 0 {
		options.QueueWait = 200 * time.Millisecond
	}
	return &Router{
		ingestor:       ingestor,
		docs:           docs,
		kyb:            kyb,
		exporter:       exporter,
		metrics:        options.Metrics,
		serviceName:    options.ServiceName,
		maxUploadBytes: options.MaxUploadBytes,
		rateLimitRPS:   options.RateLimitRPS,
		rateLimitBurst: options.RateLimitBurst,
		maxConcurrent:  options.MaxConcurrent,
		queueWait:      options.QueueWait,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	mux.HandleFunc("POST /v1/companies/{companyID}/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/documents/{documentID}", rt.getDocumentByID)
	mux.HandleFunc("POST /v1/companies/{companyID}/kyb", rt.generateKYB)
	mux.HandleFunc("GET /v1/companies/{companyID}/kyb/export", rt.exportProfile)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.maxConcurrent, rt.queueWait)
	handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.serviceName, handler)
	}
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// uploadResult reports one file of an upload batch. A failed file does
// not abort the batch; it carries its own error instead.
type uploadResult struct {
	Filename string           `json:"filename"`
	Document *domain.Document `json:"document,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	companyID := r.PathValue("companyID")

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	if err := r.ParseMultipartForm(rt.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart form with field 'file' is required"})
		return
	}
	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}

	results := make([]uploadResult, 0, len(files))
	accepted := 0
	for _, fileHeader := range files {
		doc, err := rt.uploadOne(r, companyID, fileHeader)
		if rt.metrics != nil {
			rt.metrics.RecordUpload(rt.serviceName, err)
		}
		result := uploadResult{Filename: fileHeader.Filename}
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Document = doc
			accepted++
		}
		results = append(results, result)
	}

	status := http.StatusAccepted
	if accepted == 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, results)
}

func (rt *Router) uploadOne(r *http.Request, companyID string, fileHeader *multipart.FileHeader) (*domain.Document, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return rt.ingestor.Upload(
		r.Context(),
		companyID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	doc, err := rt.docs.GetByID(r.Context(), r.PathValue("documentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) generateKYB(w http.ResponseWriter, r *http.Request) {
	companyID := r.PathValue("companyID")
	start := time.Now()

	profile, err := rt.kyb.Generate(r.Context(), companyID)
	if rt.metrics != nil {
		score := 0
		documents := 0
		if err == nil {
			documents = len(profile.Documents)
			if profile.RiskAssessment != nil {
				score = profile.RiskAssessment.FinancialRiskScore
			}
			for _, exc := range profile.Compliance.Exceptions {
				rt.metrics.RecordException(rt.serviceName, string(exc.Severity))
			}
		}
		rt.metrics.RecordKYBRun(rt.serviceName, documents, score, time.Since(start), err)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (rt *Router) exportProfile(w http.ResponseWriter, r *http.Request) {
	companyID := r.PathValue("companyID")

	workbook, err := rt.exporter.ExportProfileXLSX(r.Context(), companyID)
	if rt.metrics != nil {
		rt.metrics.RecordExport(rt.serviceName, err)
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="kyb-profile-`+companyID+`.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
