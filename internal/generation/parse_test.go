package generation

import "testing"

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantLabel string
		wantScore float64
	}{
		{"positive with score", "The sentiment is Positive with a score of 0.8", "positive", 0.8},
		{"negative with score", "negative, -0.5", "negative", -0.5},
		{"neutral no number", "The text is neutral in tone", "neutral", 0},
		{"clamped high", "positive, 7", "positive", 1},
		{"clamped low", "negative: -3.5", "negative", -1},
		{"no match at all", "cannot determine", "neutral", 0},
		{"positive wins over negative", "positive rather than negative", "positive", 0},
		{"integer score", "positive 1", "positive", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseSentiment(tt.raw)
			if got.Label != tt.wantLabel {
				t.Errorf("label = %q, want %q", got.Label, tt.wantLabel)
			}
			if got.Score != tt.wantScore {
				t.Errorf("score = %v, want %v", got.Score, tt.wantScore)
			}
			if got.Raw != tt.raw {
				t.Errorf("raw = %q, want original response", got.Raw)
			}
		})
	}
}
