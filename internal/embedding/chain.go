package embedding

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hyperjump/ragserve/internal/provider"
	"github.com/hyperjump/ragserve/internal/vector"
)

// remoteEmbedder is the part of a provider client the chain needs.
type remoteEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Configured() bool
}

// Chain resolves text to a unit vector by provider policy: an explicitly
// selected provider is called and degrades to the hash fallback only when it
// has no credential; in auto mode Gemini is tried first, then OpenAI, then
// the fallback. A configured provider that fails is a hard error returned to
// the caller, never silently downgraded. Embed therefore always produces a
// vector unless a configured provider misbehaves.
type Chain struct {
	mode     provider.Mode
	gemini   remoteEmbedder
	openai   remoteEmbedder
	fallback *HashEmbedder
	logger   *zap.Logger
}

// NewChain builds an embedding chain. Either provider client may be nil.
func NewChain(mode provider.Mode, gemini, openai remoteEmbedder, dimensions int, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{
		mode:     mode,
		gemini:   gemini,
		openai:   openai,
		fallback: NewHashEmbedder(dimensions),
		logger:   logger,
	}
}

// Embed returns a unit-normalized embedding for text.
func (c *Chain) Embed(ctx context.Context, text string) ([]float32, error) {
	switch c.mode {
	case provider.ModeGemini:
		return c.embedExplicit(ctx, c.gemini, text)
	case provider.ModeOpenAI:
		return c.embedExplicit(ctx, c.openai, text)
	}
	for _, p := range []remoteEmbedder{c.gemini, c.openai} {
		if p == nil || !p.Configured() {
			continue
		}
		v, err := p.Embed(ctx, text)
		if errors.Is(err, provider.ErrNotConfigured) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return vector.Normalize(v), nil
	}
	return c.fallback.Embed(ctx, text)
}

// embedExplicit calls the selected provider, using the hash fallback only
// when the provider has no credential.
func (c *Chain) embedExplicit(ctx context.Context, p remoteEmbedder, text string) ([]float32, error) {
	if p == nil {
		return c.fallback.Embed(ctx, text)
	}
	v, err := p.Embed(ctx, text)
	if errors.Is(err, provider.ErrNotConfigured) {
		c.logger.Debug("embedding provider not configured, using hash fallback")
		return c.fallback.Embed(ctx, text)
	}
	if err != nil {
		return nil, err
	}
	return vector.Normalize(v), nil
}

// Dimensions reports the fallback embedder's dimensionality. Remote
// providers define their own; stored vectors keep whatever length their
// provider produced.
func (c *Chain) Dimensions() int { return c.fallback.Dimensions() }
