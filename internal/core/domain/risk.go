package domain

type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

type RiskBand string

const (
	BandLow    RiskBand = "Low"
	BandMedium RiskBand = "Medium"
	BandHigh   RiskBand = "High"
)

type RiskAssessment struct {
	FinancialRiskScore int      `json:"financialRiskScore"`
	RiskBand           RiskBand `json:"riskBand"`
	RiskDrivers        []string `json:"riskDrivers"`
	ConfidenceLevel    string   `json:"confidenceLevel"`
}

// ComplianceException is one flagged issue requiring reviewer action.
type ComplianceException struct {
	Severity       Severity `json:"severity"`
	ImpactedFields []string `json:"impactedFields"`
	RequiredAction string   `json:"requiredReviewerAction"`
}
