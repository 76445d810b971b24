// Package sentiment derives a crude polarity score from free-text service
// comments. It is a lexicon counter, not NLP: good enough for dashboard
// trends, replaceable behind the same function signature.
package sentiment

import "strings"

var positive = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "amazing": {}, "awesome": {},
	"happy": {}, "satisfied": {}, "quick": {}, "fast": {}, "friendly": {},
	"helpful": {}, "professional": {}, "smooth": {}, "perfect": {},
	"resolved": {}, "fixed": {}, "clean": {}, "recommend": {}, "thanks": {},
	"thank": {}, "love": {}, "best": {},
}

var negative = map[string]struct{}{
	"bad": {}, "poor": {}, "terrible": {}, "awful": {}, "horrible": {},
	"slow": {}, "late": {}, "rude": {}, "unhappy": {}, "unresolved": {},
	"broken": {}, "dirty": {}, "expensive": {}, "worst": {}, "never": {},
	"problem": {}, "issue": {}, "delay": {}, "delayed": {}, "disappointed": {},
	"wait": {}, "waiting": {},
}

// Polarity returns a score in [-1, +1]: -1 all negative terms, +1 all
// positive terms, 0 for neutral or empty text.
func Polarity(text string) float64 {
	if text == "" {
		return 0
	}

	var pos, neg int
	for _, raw := range strings.Fields(strings.ToLower(text)) {
		w := strings.Trim(raw, ".,!?;:()'\"")
		if _, ok := positive[w]; ok {
			pos++
		}
		if _, ok := negative[w]; ok {
			neg++
		}
	}

	if pos+neg == 0 {
		return 0
	}
	return float64(pos-neg) / float64(pos+neg)
}
