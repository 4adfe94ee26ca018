package generation

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hyperjump/ragserve/internal/provider"
)

const (
	answerInstruction    = "You answer strictly from provided context."
	summarizeInstruction = "Summarize the text faithfully, without adding information. Use 3-5 bullet points."
	sentimentInstruction = "Classify the sentiment of the text as positive, negative, or neutral and provide a numeric score from -1 to 1."
)

// remoteCompleter is the part of a provider client the chain needs.
type remoteCompleter interface {
	Complete(ctx context.Context, system, user string, temperature float64) (string, error)
	Configured() bool
}

// Chain runs the generation operations against remote providers with the
// embedding chain's fallback policy: not-configured providers are skipped,
// an exhausted chain uses a local heuristic, and a configured provider that
// fails is a hard error.
type Chain struct {
	mode   provider.Mode
	gemini remoteCompleter
	openai remoteCompleter
	logger *zap.Logger
}

// NewChain builds a generation chain. Either provider client may be nil.
func NewChain(mode provider.Mode, gemini, openai remoteCompleter, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{mode: mode, gemini: gemini, openai: openai, logger: logger}
}

// Answer generates an answer for the hardened prompt. With no provider
// configured it degrades to quoting the top retrieved contexts.
func (c *Chain) Answer(ctx context.Context, prompt string, contexts []string) (string, error) {
	out, err := c.complete(ctx, answerInstruction, prompt, 0.2)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, provider.ErrNotConfigured) {
		return "", err
	}
	c.logger.Debug("no generation provider configured, using extractive answer")
	return extractiveAnswer(contexts), nil
}

// Summarize produces a short summary of text, or its first sentences when no
// provider is configured.
func (c *Chain) Summarize(ctx context.Context, text string) (string, error) {
	out, err := c.complete(ctx, summarizeInstruction, text, 0.2)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, provider.ErrNotConfigured) {
		return "", err
	}
	return heuristicSummary(text), nil
}

// Sentiment classifies text. Provider responses are free text and go through
// ParseSentiment; with no provider configured the keyword heuristic is used.
func (c *Chain) Sentiment(ctx context.Context, text string) (Sentiment, error) {
	raw, err := c.complete(ctx, sentimentInstruction, text, 0)
	if err == nil {
		return ParseSentiment(raw), nil
	}
	if !errors.Is(err, provider.ErrNotConfigured) {
		return Sentiment{}, err
	}
	return heuristicSentiment(text), nil
}

// complete walks the provider order for the configured mode. It returns
// ErrNotConfigured when every candidate was skipped for a missing
// credential, so callers can switch to their local heuristic.
func (c *Chain) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	var order []remoteCompleter
	switch c.mode {
	case provider.ModeGemini:
		order = []remoteCompleter{c.gemini}
	case provider.ModeOpenAI:
		order = []remoteCompleter{c.openai}
	default:
		order = []remoteCompleter{c.gemini, c.openai}
	}
	for _, p := range order {
		if p == nil || !p.Configured() {
			continue
		}
		out, err := p.Complete(ctx, system, user, temperature)
		if errors.Is(err, provider.ErrNotConfigured) {
			continue
		}
		if err != nil {
			return "", err
		}
		return out, nil
	}
	return "", provider.ErrNotConfigured
}
