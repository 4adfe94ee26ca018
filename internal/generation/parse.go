package generation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var signedNumberRe = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseSentiment interprets a provider's free-text sentiment response. The
// label comes from a "positive" or "negative" substring (checked in that
// order, neutral otherwise) and the score from the first signed decimal
// number, clamped to [-1, 1]. No number yields a zero score. The original
// response is kept in Raw.
func ParseSentiment(raw string) Sentiment {
	lower := strings.ToLower(raw)
	label := "neutral"
	switch {
	case strings.Contains(lower, "positive"):
		label = "positive"
	case strings.Contains(lower, "negative"):
		label = "negative"
	}
	score := 0.0
	if m := signedNumberRe.FindString(lower); m != "" {
		if f, err := strconv.ParseFloat(m, 64); err == nil {
			score = math.Max(-1, math.Min(1, f))
		}
	}
	return Sentiment{Label: label, Score: score, Raw: raw}
}
