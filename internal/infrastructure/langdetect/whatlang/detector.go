package whatlang

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// minSampleLen is the shortest text the trigram model gives stable
// answers for. Anything shorter reports "unknown" rather than a guess.
const minSampleLen = 20

// Detector identifies the dominant language of extracted text and
// reports it as an ISO 639-1 code, or "unknown" when detection is not
// reliable. Detection is deterministic for identical input.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

func (d *Detector) Detect(text string) string {
	sample := strings.TrimSpace(text)
	if len(sample) < minSampleLen {
		return "unknown"
	}

	info := whatlanggo.Detect(sample)
	code := info.Lang.Iso6391()
	if code == "" || !info.IsReliable() {
		return "unknown"
	}
	return code
}
