package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

var financialPatterns = map[string]*regexp.Regexp{
	"revenue":          regexp.MustCompile(`(?i)REVENUE:\s*(-?[\d,]+)`),
	"netProfit":        regexp.MustCompile(`(?i)NET PROFIT:\s*(-?[\d,]+)`),
	"totalAssets":      regexp.MustCompile(`(?i)TOTAL ASSETS:\s*(-?[\d,]+)`),
	"totalLiabilities": regexp.MustCompile(`(?i)TOTAL LIABILITIES:\s*(-?[\d,]+)`),
}

// fieldsByDocType narrows which figures a given statement type reports.
// An unknown type attempts every pattern.
func fieldsByDocType(docType string) []string {
	switch docType {
	case domain.TypeBalanceSheet:
		return []string{"totalAssets", "totalLiabilities"}
	case domain.TypeProfitLoss:
		return []string{"revenue", "netProfit"}
	default:
		return []string{"revenue", "netProfit", "totalAssets", "totalLiabilities"}
	}
}

var (
	auditStatusPattern = regexp.MustCompile(`(?i)AUDIT STATUS:\s*(.+)`)
	fiscalYearPattern  = regexp.MustCompile(`(?i)FY\s*(\d{4})`)
)

// Financials extracts the financial figures reported by a document of the
// given classified type. Thousands separators are stripped; sign is kept
// as reported, negative figures included. Audit status and fiscal-year
// period are picked up wherever present regardless of document type.
func Financials(text, source, docType string) map[string]domain.ExtractedField {
	out := map[string]domain.ExtractedField{}
	for _, name := range fieldsByDocType(docType) {
		m := financialPatterns[name].FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", "")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		out[name] = field(v, source, 0.95)
	}

	if m := auditStatusPattern.FindStringSubmatch(text); m != nil {
		out["auditStatus"] = field(strings.TrimSpace(m[1]), source, 0.9)
	}
	if m := fiscalYearPattern.FindStringSubmatch(text); m != nil {
		out["financialPeriod"] = field(m[1], source, 0.85)
	}
	return out
}
