package compliance

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

// Validator checks a finalized unified profile against the document
// completeness and validity policy. It is separate from the risk engine's
// own document pass: this one produces reviewer exceptions, the risk
// engine's contributes score points.
type Validator struct {
	mandatory []string
	supported map[string]bool

	// Now is overridable for deterministic expiry checks.
	Now func() time.Time
}

func New() *Validator {
	return &Validator{
		mandatory: []string{
			domain.TypeTradeLicense,
			domain.TypeMOAAOA,
			domain.TypeID,
			domain.TypeBalanceSheet,
			domain.TypeProfitLoss,
		},
		supported: map[string]bool{
			domain.TypeTradeLicense:    true,
			domain.TypeMOAAOA:          true,
			domain.TypeBoardResolution: true,
			domain.TypeID:              true,
			domain.TypeBankLetter:      true,
			domain.TypeVATTRN:          true,
			domain.TypeBalanceSheet:    true,
			domain.TypeProfitLoss:      true,
		},
		Now: time.Now,
	}
}

// Validate runs every check once over the profile, appending
// "documents.<type>" markers for absent mandatory documents to the
// profile's missing-field set and returning the accumulated exceptions.
func (v *Validator) Validate(p *domain.UnifiedCompanyProfile) []domain.ComplianceException {
	var exceptions []domain.ComplianceException

	present := map[string]bool{}
	for _, doc := range p.Documents {
		present[doc.ClassType] = true
	}

	for _, required := range v.mandatory {
		if present[required] {
			continue
		}
		exceptions = append(exceptions, domain.ComplianceException{
			Severity:       domain.SeverityHigh,
			ImpactedFields: []string{required},
			RequiredAction: fmt.Sprintf("Obtain %s", required),
		})
		p.MissingFields = append(p.MissingFields, "documents."+required)
	}

	for _, doc := range p.Documents {
		if !v.supported[doc.ClassType] {
			exceptions = append(exceptions, domain.ComplianceException{
				Severity:       domain.SeverityMedium,
				ImpactedFields: []string{doc.FileName},
				RequiredAction: "Review unsupported document type",
			})
		}
	}

	now := v.Now().UTC()
	for _, doc := range p.Documents {
		if doc.ExpiryDate == nil {
			continue
		}
		expiry, err := time.Parse("2006-01-02", *doc.ExpiryDate)
		if err != nil {
			slog.Warn("unparsable expiry date", "file", doc.FileName, "expiry", *doc.ExpiryDate)
			continue
		}
		if expiry.Before(now) {
			exceptions = append(exceptions, domain.ComplianceException{
				Severity:       domain.SeverityHigh,
				ImpactedFields: []string{doc.ClassType},
				RequiredAction: "Obtain renewed document",
			})
		}
	}

	for _, doc := range p.Documents {
		if doc.Confidence < 0.6 {
			exceptions = append(exceptions, domain.ComplianceException{
				Severity:       domain.SeverityLow,
				ImpactedFields: []string{doc.ClassType},
				RequiredAction: "Manual verification required",
			})
		}
	}

	return exceptions
}
