package risk

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

// Engine accumulates an additive financial risk score across evaluation
// passes. Every point addition carries a human-readable driver so the
// final score stays fully explainable. Scoring is deliberately
// conservative: missing data is penalized at least as hard as known-bad
// data, biasing outcomes toward manual review.
//
// An Engine is single-use per run. Finalize does not reset it; callers
// reuse one engine across runs only via Reset.
type Engine struct {
	score     int
	drivers   []string
	excepts   []domain.ComplianceException
	finalized bool

	// Now is overridable for deterministic tests.
	Now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{
		drivers: []string{},
		excepts: []domain.ComplianceException{},
		Now:     time.Now,
	}
}

// Reset clears accumulated state so the engine can score another run.
func (e *Engine) Reset() {
	e.score = 0
	e.drivers = []string{}
	e.excepts = []domain.ComplianceException{}
	e.finalized = false
}

func (e *Engine) addRisk(points int, reason string) {
	e.score += points
	e.drivers = append(e.drivers, reason)
}

func (e *Engine) addException(severity domain.Severity, fields []string, action string) {
	e.excepts = append(e.excepts, domain.ComplianceException{
		Severity:       severity,
		ImpactedFields: fields,
		RequiredAction: action,
	})
}

// EvaluateFinancialRisk scores the profile's financial indicators. A
// profile with no financial data at all takes the conservative default
// and stops; no per-field deductions stack on top of it.
func (e *Engine) EvaluateFinancialRisk(p *domain.UnifiedCompanyProfile) {
	if len(p.FinancialIndicators) == 0 {
		e.addRisk(40, "Missing financial statements (conservative default)")
		e.addException(domain.SeverityHigh, []string{"financialIndicators"}, "Obtain latest audited financial statements")
		return
	}

	assets, hasAssets := p.FinancialValue("totalAssets")
	liabilities, hasLiabilities := p.FinancialValue("totalLiabilities")
	netProfit, hasNetProfit := p.FinancialValue("netProfit")
	auditStatus, hasAudit := p.FinancialString("auditStatus")
	period, hasPeriod := p.FinancialString("financialPeriod")

	if !hasAssets {
		e.addRisk(20, "Total assets missing (conservative default)")
		e.addException(domain.SeverityHigh, []string{"totalAssets"}, "Obtain total assets")
	}
	if !hasLiabilities {
		e.addRisk(20, "Total liabilities missing (conservative default)")
		e.addException(domain.SeverityHigh, []string{"totalLiabilities"}, "Obtain total liabilities")
	}
	if !hasNetProfit {
		e.addRisk(20, "Net profit missing (conservative default)")
		e.addException(domain.SeverityHigh, []string{"netProfit"}, "Obtain net profit/loss")
	}

	if hasNetProfit && netProfit < 0 {
		e.addRisk(30, "Net loss reported")
		e.addException(domain.SeverityHigh, []string{"netProfit"}, "Assess sustainability of business model")
	}

	if hasAssets && hasLiabilities && liabilities > assets {
		e.addRisk(25, "Liabilities exceed assets")
		e.addException(domain.SeverityHigh, []string{"totalAssets", "totalLiabilities"}, "Review solvency position")
	}

	if hasAudit {
		if strings.EqualFold(auditStatus, "UNAUDITED") {
			e.addRisk(15, "Financial statements unaudited")
			e.addException(domain.SeverityMedium, []string{"auditStatus"}, "Request audited statements")
		}
	} else {
		e.addRisk(20, "Audit status unknown (conservative default)")
		e.addException(domain.SeverityMedium, []string{"auditStatus"}, "Clarify audit status")
	}

	if hasPeriod {
		year, err := strconv.Atoi(period)
		switch {
		case err != nil:
			e.addRisk(10, "Financial period parse failed (conservative default)")
			e.addException(domain.SeverityMedium, []string{"financialPeriod"}, "Verify financial period")
		case e.Now().UTC().Year()-year > 1:
			e.addRisk(20, "Outdated financial statements")
			e.addException(domain.SeverityMedium, []string{"financialPeriod"}, "Obtain latest financial period")
		}
	} else {
		e.addRisk(15, "Financial period missing (conservative default)")
		e.addException(domain.SeverityMedium, []string{"financialPeriod"}, "Obtain latest financial period")
	}
}

var mandatoryForRisk = []string{
	domain.TypeTradeLicense,
	domain.TypeBalanceSheet,
	domain.TypeProfitLoss,
}

// ValidateDocuments scores document-level findings. This pass is distinct
// from the compliance validator: it contributes points, not reviewer
// exceptions only, and uses the narrower financial/legal mandatory set.
func (e *Engine) ValidateDocuments(p *domain.UnifiedCompanyProfile) {
	present := map[string]bool{}
	for _, doc := range p.Documents {
		present[doc.ClassType] = true
	}

	for _, required := range mandatoryForRisk {
		if present[required] {
			continue
		}
		e.addRisk(30, fmt.Sprintf("Missing mandatory document: %s", required))
		e.addException(domain.SeverityHigh, []string{required}, fmt.Sprintf("Obtain %s", required))
	}

	now := e.Now().UTC()
	for _, doc := range p.Documents {
		if doc.ExpiryDate == nil {
			continue
		}
		expiry, err := time.Parse("2006-01-02", *doc.ExpiryDate)
		if err != nil {
			continue
		}
		if expiry.Before(now) {
			e.addRisk(25, fmt.Sprintf("Expired document: %s", doc.ClassType))
			e.addException(domain.SeverityHigh, []string{doc.ClassType}, "Obtain renewed document")
		}
	}

	for _, doc := range p.Documents {
		if doc.Confidence < 0.6 {
			e.addRisk(10, fmt.Sprintf("Low classification confidence: %s", doc.ClassType))
			e.addException(domain.SeverityLow, []string{doc.ClassType}, "Manual verification required")
		}
	}
}

// Finalize clamps the score, assigns the band and returns the assessment
// with the accumulated exceptions. It does not reset the engine; calling
// it twice without an intervening Reset is a programming error and is
// rejected.
func (e *Engine) Finalize() (domain.RiskAssessment, []domain.ComplianceException, error) {
	if e.finalized {
		return domain.RiskAssessment{}, nil, fmt.Errorf("risk engine already finalized; call Reset before reuse")
	}
	e.finalized = true

	score := e.score
	if score > 100 {
		score = 100
	}

	var band domain.RiskBand
	switch {
	case score <= 30:
		band = domain.BandLow
	case score <= 60:
		band = domain.BandMedium
	default:
		band = domain.BandHigh
	}

	confidence := "Medium"
	if score < 40 {
		confidence = "High"
	}

	return domain.RiskAssessment{
		FinancialRiskScore: score,
		RiskBand:           band,
		RiskDrivers:        e.drivers,
		ConfidenceLevel:    confidence,
	}, e.excepts, nil
}
