package domain

import "time"

// ExtractedField is one extracted fact with its provenance. It is never
// mutated after creation; a later extraction of the same logical field
// produces a new ExtractedField that replaces the old one on merge.
type ExtractedField struct {
	Value            any     `json:"value"`
	SourceDocument   string  `json:"sourceDocument"`
	Confidence       float64 `json:"confidence"`
	ExtractionMethod string  `json:"extractionMethod"`
}

// DocumentRecord is the per-document entry appended to the unified profile
// once per processed document.
type DocumentRecord struct {
	FileName    string    `json:"fileName"`
	ClassType   string    `json:"classType"`
	Confidence  float64   `json:"confidence"`
	IssueDate   *string   `json:"issueDate"`
	ExpiryDate  *string   `json:"expiryDate"`
	ProcessedAt time.Time `json:"processedAt"`
}

type Shareholder struct {
	Name                ExtractedField `json:"name"`
	OwnershipPercentage ExtractedField `json:"ownershipPercentage"`
	ControlType         ExtractedField `json:"controlType"`
}

type Signatory struct {
	Name            ExtractedField `json:"name"`
	Role            ExtractedField `json:"role"`
	AuthoritySource ExtractedField `json:"authoritySource"`
}

type ComplianceIndicators struct {
	Exceptions []ComplianceException `json:"exceptions"`
}

// UnifiedCompanyProfile accumulates every extracted fact for one company
// across all of its documents. It is built fresh per KYB-generation run,
// folded one document at a time, then finalized by compliance validation
// and risk scoring.
type UnifiedCompanyProfile struct {
	CompanyProfile      map[string]ExtractedField `json:"companyProfile"`
	LicenseDetails      map[string]ExtractedField `json:"licenseDetails"`
	Shareholders        []Shareholder             `json:"shareholders"`
	Signatories         []Signatory               `json:"signatories"`
	FinancialIndicators map[string]ExtractedField `json:"financialIndicators"`
	Documents           []DocumentRecord          `json:"documents"`
	MissingFields       []string                  `json:"missingFields"`
	RiskAssessment      *RiskAssessment           `json:"riskAssessment"`
	Compliance          ComplianceIndicators      `json:"complianceIndicators"`
}

func NewUnifiedCompanyProfile() *UnifiedCompanyProfile {
	return &UnifiedCompanyProfile{
		CompanyProfile:      map[string]ExtractedField{},
		LicenseDetails:      map[string]ExtractedField{},
		Shareholders:        []Shareholder{},
		Signatories:         []Signatory{},
		FinancialIndicators: map[string]ExtractedField{},
		Documents:           []DocumentRecord{},
		MissingFields:       []string{},
	}
}

// FinancialValue returns the raw value of a financial indicator as float64.
// The second return is false when the field is absent or not numeric.
func (p *UnifiedCompanyProfile) FinancialValue(field string) (float64, bool) {
	f, ok := p.FinancialIndicators[field]
	if !ok {
		return 0, false
	}
	v, ok := f.Value.(float64)
	return v, ok
}

// FinancialString returns the raw value of a financial indicator as string.
func (p *UnifiedCompanyProfile) FinancialString(field string) (string, bool) {
	f, ok := p.FinancialIndicators[field]
	if !ok {
		return "", false
	}
	v, ok := f.Value.(string)
	return v, ok
}
