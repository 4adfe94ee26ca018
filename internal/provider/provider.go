// Package provider implements HTTP clients for the remote embedding and
// completion providers consumed by the fallback chains.
package provider

import (
	"errors"
	"time"
)

// ErrNotConfigured signals that a provider has no credential and the caller
// should move on to the next provider in its chain. It is a soft skip, never
// a hard failure; any other error from a provider call is a hard failure and
// must be propagated.
var ErrNotConfigured = errors.New("provider not configured")

// Mode selects which remote provider a fallback chain tries.
type Mode string

const (
	// ModeAuto tries Gemini, then OpenAI, then the local fallback,
	// skipping providers without a credential.
	ModeAuto Mode = "auto"
	// ModeGemini calls only Gemini, degrading straight to the local
	// fallback when it has no credential.
	ModeGemini Mode = "gemini"
	// ModeOpenAI calls only OpenAI under the same rule.
	ModeOpenAI Mode = "openai"
)

// DefaultTimeout bounds outbound provider calls when no timeout is configured.
const DefaultTimeout = 30 * time.Second

const maxErrorBody = 512
