package extract

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

var issueDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ISSUE DATE:\s*(.+)`),
	regexp.MustCompile(`(?i)DATE OF ISSUE:\s*(.+)`),
	regexp.MustCompile(`(?i)REGISTRATION DATE:\s*(.+)`),
}

var expiryDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)EXPIRY DATE:\s*(.+)`),
	regexp.MustCompile(`(?i)DATE OF EXPIRY:\s*(.+)`),
}

// dayFirstLayouts are tried before the free-form parser. dateparse has
// no format for dash-separated dd-mm-yyyy, and PreferMonthFirst only
// breaks ties for formats it already knows.
var dayFirstLayouts = []string{
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseDayFirst parses a free-form date string with day-first precedence
// and returns it as an ISO calendar date.
func ParseDayFirst(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dayFirstLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	t, err := dateparse.ParseAny(raw, dateparse.PreferMonthFirst(false))
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

// matchDate tries each label pattern in order. A pattern whose captured
// value fails to parse moves on to the next pattern; when every pattern
// fails the field is absent, not an error.
func matchDate(text string, patterns []*regexp.Regexp) *string {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		iso, err := ParseDayFirst(m[1])
		if err != nil {
			slog.Warn("date parse failed", "raw", m[1], "error", err)
			continue
		}
		return &iso
	}
	return nil
}

// IssueAndExpiry pulls the issue and expiry dates out of document text.
// Either date may be nil.
func IssueAndExpiry(text string) (issue, expiry *string) {
	return matchDate(text, issueDatePatterns), matchDate(text, expiryDatePatterns)
}
