package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

// Method tags every regex-extracted field so downstream consumers can
// tell extractor generations apart.
const Method = "regex_v1"

func field(value any, source string, confidence float64) domain.ExtractedField {
	return domain.ExtractedField{
		Value:            value,
		SourceDocument:   source,
		Confidence:       confidence,
		ExtractionMethod: Method,
	}
}

var companyProfilePatterns = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"legalName", regexp.MustCompile(`(?i)COMPANY NAME:\s*(.+)`)},
	{"legalForm", regexp.MustCompile(`(?i)LEGAL FORM:\s*(.+)`)},
}

// CompanyProfile extracts the non-license identity fields.
func CompanyProfile(text, source string) map[string]domain.ExtractedField {
	out := map[string]domain.ExtractedField{}
	for _, fp := range companyProfilePatterns {
		if m := fp.pattern.FindStringSubmatch(text); m != nil {
			out[fp.name] = field(strings.TrimSpace(m[1]), source, 0.95)
		}
	}
	return out
}

var licensePatterns = []struct {
	name    string
	pattern *regexp.Regexp
	isDate  bool
}{
	{"registrationNumber", regexp.MustCompile(`(?i)LICENSE NUMBER:\s*(.+)`), false},
	{"jurisdiction", regexp.MustCompile(`(?i)JURISDICTION:\s*(.+)`), false},
	{"licenseIssuingAuthority", regexp.MustCompile(`(?i)ISSUING AUTHORITY:\s*(.+)`), false},
	{"issueDate", regexp.MustCompile(`(?i)ISSUE DATE:\s*(.+)`), true},
	{"expiryDate", regexp.MustCompile(`(?i)EXPIRY DATE:\s*(.+)`), true},
}

// LicenseDetails extracts license-specific fields. Date-valued fields are
// normalized to ISO dates at full extraction confidence; when the raw
// value does not parse it is kept verbatim at reduced confidence rather
// than dropped.
func LicenseDetails(text, source string) map[string]domain.ExtractedField {
	out := map[string]domain.ExtractedField{}
	for _, fp := range licensePatterns {
		m := fp.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		raw := strings.TrimSpace(m[1])
		if fp.isDate {
			if iso, err := ParseDayFirst(raw); err == nil {
				out[fp.name] = field(iso, source, 0.95)
			} else {
				out[fp.name] = field(raw, source, 0.8)
			}
			continue
		}
		out[fp.name] = field(raw, source, 0.95)
	}
	return out
}

var shareholderPattern = regexp.MustCompile(`-\s*(.+?):\s*(\d+)%`)

// Shareholders extracts every "- NAME: NN%" ownership line. Entries are
// append-only downstream; no dedup happens here or there.
func Shareholders(text, source string) []domain.Shareholder {
	var out []domain.Shareholder
	for _, m := range shareholderPattern.FindAllStringSubmatch(text, -1) {
		pct, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		out = append(out, domain.Shareholder{
			Name:                field(strings.TrimSpace(m[1]), source, 0.9),
			OwnershipPercentage: field(pct, source, 0.9),
			ControlType:         field("Direct", source, 0.8),
		})
	}
	return out
}

var signatoryPattern = regexp.MustCompile(`(?i)MR\.?\s*(.+?),\s*(CEO|CFO|DIRECTOR)`)

// Signatories extracts "MR. NAME, ROLE" authorized-signatory lines.
func Signatories(text, source string) []domain.Signatory {
	var out []domain.Signatory
	for _, m := range signatoryPattern.FindAllStringSubmatch(text, -1) {
		out = append(out, domain.Signatory{
			Name:            field(strings.TrimSpace(m[1]), source, 0.85),
			Role:            field(strings.ToUpper(strings.TrimSpace(m[2])), source, 0.85),
			AuthoritySource: field("Board Resolution", source, 0.8),
		})
	}
	return out
}
