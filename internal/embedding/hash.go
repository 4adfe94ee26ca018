package embedding

import (
	"context"
	"crypto/sha256"
	"strings"

	"github.com/hyperjump/ragserve/internal/vector"
)

// DefaultDimensions is the dimensionality of the hash embedding.
const DefaultDimensions = 384

const maxHashTokens = 2048

// HashEmbedder is the deterministic local fallback: each case-folded
// whitespace token is hashed with SHA-256 and the centered digest bytes are
// accumulated across all dimensions, then the vector is unit-normalized.
// The same text always yields the same vector with no network calls, which
// also makes it the embedder of choice in tests.
type HashEmbedder struct {
	dimensions int
}

// NewHashEmbedder returns a hash embedder with the given dimensionality,
// defaulting to DefaultDimensions when it is not positive.
func NewHashEmbedder(dimensions int) *HashEmbedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &HashEmbedder{dimensions: dimensions}
}

// Embed returns the unit-normalized hash embedding of text.
func (e *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	acc := make([]float32, e.dimensions)
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) > maxHashTokens {
		tokens = tokens[:maxHashTokens]
	}
	for _, tok := range tokens {
		digest := sha256.Sum256([]byte(tok))
		for j := 0; j < e.dimensions; j++ {
			acc[j] += float32(int(digest[j%len(digest)])-128) / 128.0
		}
	}
	return vector.Normalize(acc), nil
}

// Dimensions returns the embedding dimensionality.
func (e *HashEmbedder) Dimensions() int { return e.dimensions }
