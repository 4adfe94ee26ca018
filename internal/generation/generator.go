// Package generation produces natural-language output (answers, summaries,
// sentiment classifications) with the same provider fallback policy as the
// embedding chain, degrading to local heuristics when no provider is
// configured.
package generation

import "context"

// Sentiment is a classified sentiment with a numeric score in [-1, 1] for
// provider results, or a signed keyword count for the local heuristic.
// Raw carries the provider's free-text response when one was used.
type Sentiment struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
	Raw   string  `json:"raw,omitempty"`
}

// Generator produces text for the three generation operations. Answer takes
// the full hardened prompt plus the bare context texts so the extractive
// fallback can quote them.
type Generator interface {
	Answer(ctx context.Context, prompt string, contexts []string) (string, error)
	Summarize(ctx context.Context, text string) (string, error)
	Sentiment(ctx context.Context, text string) (Sentiment, error)
}
