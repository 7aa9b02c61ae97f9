package export

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/trustlane/kyb-service/internal/core/domain"
	"github.com/trustlane/kyb-service/internal/core/ports"
)

// Service renders the latest unified profile of a company as an XLSX
// workbook for compliance reviewers.
type Service struct {
	profiles ports.ProfileRepository
	logger   *slog.Logger
}

func NewService(profiles ports.ProfileRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{profiles: profiles, logger: logger}
}

// ExportProfileXLSX returns an XLSX workbook (as bytes) summarizing the
// latest KYB run of the company: extracted facts with provenance, the
// document inventory, and every open compliance exception.
func (s *Service) ExportProfileXLSX(ctx context.Context, companyID string) ([]byte, error) {
	start := time.Now()

	profile, err := s.profiles.GetLatestProfile(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("load latest profile: %w", err)
	}

	f := excelize.NewFile()
	const profileSheet = "Profile"
	if err := f.SetSheetName("Sheet1", profileSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	row := writeFieldSection(f, profileSheet, 1, "Company Profile", profile.CompanyProfile)
	row = writeFieldSection(f, profileSheet, row+1, "License Details", profile.LicenseDetails)
	row = writeFieldSection(f, profileSheet, row+1, "Financial Indicators", profile.FinancialIndicators)
	writeRiskSection(f, profileSheet, row+1, profile)

	if err := writeDocumentsSheet(f, profile.Documents); err != nil {
		return nil, err
	}
	if err := writeExceptionsSheet(f, profile.Compliance.Exceptions); err != nil {
		return nil, err
	}

	_ = f.SetColWidth(profileSheet, "A", "A", 26)
	_ = f.SetColWidth(profileSheet, "B", "B", 36)
	_ = f.SetColWidth(profileSheet, "C", "C", 28)
	_ = f.SetColWidth(profileSheet, "D", "D", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"company_id", companyID,
		"documents", len(profile.Documents),
		"exceptions", len(profile.Compliance.Exceptions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(sheet, cell, v)
}

// writeFieldSection emits a titled block of field/value/source/confidence
// rows and returns the next free row. Map iteration order is not stable,
// so keys are sorted for reproducible exports.
func writeFieldSection(f *excelize.File, sheet string, row int, title string, fields map[string]domain.ExtractedField) int {
	setCell(f, sheet, 1, row, title)
	row++

	setCell(f, sheet, 1, row, "Field")
	setCell(f, sheet, 2, row, "Value")
	setCell(f, sheet, 3, row, "Source Document")
	setCell(f, sheet, 4, row, "Confidence")
	row++

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		field := fields[k]
		setCell(f, sheet, 1, row, k)
		setCell(f, sheet, 2, row, fmt.Sprintf("%v", field.Value))
		setCell(f, sheet, 3, row, field.SourceDocument)
		setCell(f, sheet, 4, row, field.Confidence)
		row++
	}
	return row
}

func writeRiskSection(f *excelize.File, sheet string, row int, profile *domain.UnifiedCompanyProfile) {
	if profile.RiskAssessment == nil {
		return
	}
	setCell(f, sheet, 1, row, "Risk Assessment")
	row++
	setCell(f, sheet, 1, row, "Score")
	setCell(f, sheet, 2, row, profile.RiskAssessment.FinancialRiskScore)
	row++
	setCell(f, sheet, 1, row, "Band")
	setCell(f, sheet, 2, row, string(profile.RiskAssessment.RiskBand))
	row++
	setCell(f, sheet, 1, row, "Confidence Level")
	setCell(f, sheet, 2, row, profile.RiskAssessment.ConfidenceLevel)
	row++
	for _, driver := range profile.RiskAssessment.RiskDrivers {
		setCell(f, sheet, 1, row, "Driver")
		setCell(f, sheet, 2, row, driver)
		row++
	}
}

func writeDocumentsSheet(f *excelize.File, docs []domain.DocumentRecord) error {
	const sheet = "Documents"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create documents sheet: %w", err)
	}

	headers := []string{"File", "Type", "Confidence", "Issue Date", "Expiry Date", "Processed At"}
	for i, h := range headers {
		setCell(f, sheet, i+1, 1, h)
	}

	for i, doc := range docs {
		row := i + 2
		setCell(f, sheet, 1, row, doc.FileName)
		setCell(f, sheet, 2, row, doc.ClassType)
		setCell(f, sheet, 3, row, doc.Confidence)
		setCell(f, sheet, 4, row, stringOrEmpty(doc.IssueDate))
		setCell(f, sheet, 5, row, stringOrEmpty(doc.ExpiryDate))
		setCell(f, sheet, 6, row, doc.ProcessedAt.Format(time.RFC3339))
	}

	_ = f.SetColWidth(sheet, "A", "B", 28)
	_ = f.SetColWidth(sheet, "D", "F", 20)
	return nil
}

func writeExceptionsSheet(f *excelize.File, exceptions []domain.ComplianceException) error {
	const sheet = "Exceptions"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create exceptions sheet: %w", err)
	}

	headers := []string{"Severity", "Impacted Fields", "Required Reviewer Action"}
	for i, h := range headers {
		setCell(f, sheet, i+1, 1, h)
	}

	for i, exc := range exceptions {
		row := i + 2
		setCell(f, sheet, 1, row, string(exc.Severity))
		setCell(f, sheet, 2, row, strings.Join(exc.ImpactedFields, ", "))
		setCell(f, sheet, 3, row, exc.RequiredAction)
	}

	_ = f.SetColWidth(sheet, "B", "B", 40)
	_ = f.SetColWidth(sheet, "C", "C", 60)
	return nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
