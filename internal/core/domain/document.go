package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusClassified DocumentStatus = "classified"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID          string         `json:"id"`
	CompanyID   string         `json:"company_id"`
	Filename    string         `json:"filename"`
	MimeType    string         `json:"mime_type"`
	StoragePath string         `json:"storage_path"`
	ClassType   string         `json:"class_type,omitempty"`
	Confidence  float64        `json:"confidence,omitempty"`
	IssueDate   *string        `json:"issue_date,omitempty"`
	ExpiryDate  *string        `json:"expiry_date,omitempty"`
	Language    string         `json:"language,omitempty"`
	Status      DocumentStatus `json:"status"`
	Error       string         `json:"error,omitempty"`
	ProcessedAt *time.Time     `json:"processed_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// QuickClassification is the upload-time metadata produced for a single
// document before any company-wide aggregation happens.
type QuickClassification struct {
	ClassType   string    `json:"classType"`
	Confidence  float64   `json:"confidence"`
	IssueDate   *string   `json:"issueDate"`
	ExpiryDate  *string   `json:"expiryDate"`
	Language    string    `json:"language"`
	ProcessedAt time.Time `json:"processedAt"`
}
