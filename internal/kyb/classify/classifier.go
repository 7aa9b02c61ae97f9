package classify

import (
	"math"
	"strings"

	"github.com/trustlane/kyb-service/internal/core/domain"
)

// ScoringPolicy controls how keyword hits turn into a confidence score.
// The upload-time quick path and the aggregation path historically weight
// hits differently; both schemes stay selectable instead of being unified.
type ScoringPolicy struct {
	// KeywordHit is added once per matching keyword anywhere in the text.
	KeywordHit float64
	// HeaderBonus is added once when any keyword appears within the first
	// HeaderZone characters. Zero disables the header check.
	HeaderBonus float64
	HeaderZone  int
	// MatchBonus is added once when any keyword matched at all.
	MatchBonus float64
	// MaxConfidence caps the final score so no classification is ever
	// reported as fully certain.
	MaxConfidence float64
}

// QuickScoring is the upload-time policy: per-keyword 0.5 plus a 0.4
// bonus for a match in the document header.
func QuickScoring() ScoringPolicy {
	return ScoringPolicy{
		KeywordHit:    0.5,
		HeaderBonus:   0.4,
		HeaderZone:    300,
		MaxConfidence: 0.99,
	}
}

// AggregateScoring is the KYB-generation policy: per-keyword 0.6 plus a
// flat 0.3 completion bonus whenever anything matched.
func AggregateScoring() ScoringPolicy {
	return ScoringPolicy{
		KeywordHit:    0.6,
		MatchBonus:    0.3,
		MaxConfidence: 0.99,
	}
}

type Classifier struct {
	taxonomy Taxonomy
	policy   ScoringPolicy
}

func New(taxonomy Taxonomy, policy ScoringPolicy) *Classifier {
	if len(taxonomy) == 0 {
		taxonomy = DefaultTaxonomy()
	}
	if policy.MaxConfidence <= 0 {
		policy.MaxConfidence = 0.99
	}
	return &Classifier{taxonomy: taxonomy, policy: policy}
}

// Classify maps raw document text to a document type with a confidence
// score. Text with no taxonomy keyword yields Unsupported at 0.0.
func (c *Classifier) Classify(text string) domain.Classification {
	upper := strings.ToUpper(text)

	confidence := 0.0
	classType := domain.TypeUnsupported
	for _, entry := range c.taxonomy {
		if strings.Contains(upper, entry.Keyword) {
			classType = entry.Type
			confidence += c.policy.KeywordHit
		}
	}

	if classType != domain.TypeUnsupported {
		confidence += c.policy.MatchBonus

		if c.policy.HeaderBonus > 0 {
			header := upper
			if len(header) > c.policy.HeaderZone {
				header = header[:c.policy.HeaderZone]
			}
			for _, entry := range c.taxonomy {
				if strings.Contains(header, entry.Keyword) {
					confidence += c.policy.HeaderBonus
					break
				}
			}
		}
	}

	if confidence > c.policy.MaxConfidence {
		confidence = c.policy.MaxConfidence
	}

	return domain.Classification{
		ClassType:  classType,
		Confidence: round2(confidence),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
