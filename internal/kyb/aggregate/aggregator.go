package aggregate

import (
	"time"

	"github.com/trustlane/kyb-service/internal/core/domain"
	"github.com/trustlane/kyb-service/internal/kyb/classify"
	"github.com/trustlane/kyb-service/internal/kyb/extract"
)

// RequiredFields is the completeness policy applied after every fold.
// Two generations of the pipeline disagreed on the financial list, so
// both remain available as named policies.
type RequiredFields struct {
	CompanyProfile []string
	Financials     []string
}

// RequiredFieldsFull demands the full set of financial figures.
func RequiredFieldsFull() RequiredFields {
	return RequiredFields{
		CompanyProfile: []string{"legalName", "registrationNumber", "jurisdiction"},
		Financials:     []string{"totalAssets", "totalLiabilities", "revenue", "netProfit"},
	}
}

// RequiredFieldsBalanceOnly demands only the balance-sheet figures.
func RequiredFieldsBalanceOnly() RequiredFields {
	return RequiredFields{
		CompanyProfile: []string{"legalName", "registrationNumber", "jurisdiction"},
		Financials:     []string{"totalAssets", "totalLiabilities"},
	}
}

// Aggregator folds per-document extraction results into one unified
// company profile. Folding is order-dependent: mapping-valued sections
// merge by key overwrite, so a later document wins any field it
// re-supplies. List-valued sections append without dedup.
type Aggregator struct {
	classifier *classify.Classifier
	required   RequiredFields

	// Now is overridable for deterministic tests.
	Now func() time.Time
}

func New(classifier *classify.Classifier, required RequiredFields) *Aggregator {
	if classifier == nil {
		classifier = classify.New(nil, classify.AggregateScoring())
	}
	return &Aggregator{
		classifier: classifier,
		required:   required,
		Now:        time.Now,
	}
}

// Fold processes one document's text into the profile: classify, extract
// dates, append the document record, merge every field family, then
// recompute the missing-field set from current state.
func (a *Aggregator) Fold(p *domain.UnifiedCompanyProfile, text, docName string) {
	classification := a.classifier.Classify(text)
	issue, expiry := extract.IssueAndExpiry(text)

	p.Documents = append(p.Documents, domain.DocumentRecord{
		FileName:    docName,
		ClassType:   classification.ClassType,
		Confidence:  classification.Confidence,
		IssueDate:   issue,
		ExpiryDate:  expiry,
		ProcessedAt: a.Now().UTC(),
	})

	for k, v := range extract.CompanyProfile(text, docName) {
		p.CompanyProfile[k] = v
	}
	for k, v := range extract.LicenseDetails(text, docName) {
		p.LicenseDetails[k] = v
	}
	p.Shareholders = append(p.Shareholders, extract.Shareholders(text, docName)...)
	p.Signatories = append(p.Signatories, extract.Signatories(text, docName)...)
	for k, v := range extract.Financials(text, docName, classification.ClassType) {
		p.FinancialIndicators[k] = v
	}

	a.recomputeMissing(p)
}

// recomputeMissing replaces, not merges, the missing-field set so it only
// ever reflects the profile's current state.
func (a *Aggregator) recomputeMissing(p *domain.UnifiedCompanyProfile) {
	missing := []string{}
	for _, f := range a.required.CompanyProfile {
		// registrationNumber and jurisdiction are extracted into
		// licenseDetails; either map satisfies the requirement.
		if _, ok := p.CompanyProfile[f]; ok {
			continue
		}
		if _, ok := p.LicenseDetails[f]; ok {
			continue
		}
		missing = append(missing, f)
	}
	for _, f := range a.required.Financials {
		if _, ok := p.FinancialIndicators[f]; !ok {
			missing = append(missing, f)
		}
	}
	p.MissingFields = missing
}
