package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hyperjump/ragserve/internal/config"
)

// defaultMaxPayload caps request bodies when no ceiling is configured.
const defaultMaxPayload = 20000

// injectionIndicators are lowercase phrases that mark a request as a prompt
// injection attempt. Matching is substring based over the textual fields.
var injectionIndicators = []string{
	"ignore previous",
	"disregard previous",
	"act as system",
	"you are now",
	"developer mode",
	"exfiltrate",
	"leak secret",
	"reveal prompt",
}

// Guard implements the request checks in front of the AI routes. Checks run
// in a fixed order: rate limit, then auth, then payload size, then the
// injection screen, so a flooding client is cut off before anything else
// inspects its request.
type Guard struct {
	limiter    *rate.Limiter
	apiKey     string
	maxPayload int64
	logger     *zap.Logger
}

// NewGuard builds the guard from the security config. The rate limit allows
// cfg.RateLimitMax requests per minute with a burst of the same size.
func NewGuard(cfg config.SecurityConfig, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 1
	}
	if cfg.MaxPayload <= 0 {
		cfg.MaxPayload = defaultMaxPayload
	}
	return &Guard{
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RateLimitMax)), cfg.RateLimitMax),
		apiKey:     cfg.APIKey,
		maxPayload: cfg.MaxPayload,
		logger:     logger,
	}
}

// RateLimit rejects requests beyond the configured rate with 429.
func (g *Guard) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.limiter.Allow() {
			g.logger.Warn("rate limit exceeded", zap.String("path", r.URL.Path))
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Auth requires a matching bearer token when an API key is configured.
// Without a configured key the check is disabled.
func (g *Guard) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token != g.apiKey {
			respondError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PayloadLimit rejects oversized bodies with 413. The declared length is
// checked up front and the body is capped for handlers that read it anyway.
func (g *Guard) PayloadLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > g.maxPayload {
			respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, g.maxPayload)
		next.ServeHTTP(w, r)
	})
}

// PromptInjection screens the textual request fields for known injection
// phrases and rejects matches with 400. The body is buffered and restored so
// the handler can decode it again.
func (g *Guard) PromptInjection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var fields struct {
			Query       string `json:"query"`
			Text        string `json:"text"`
			Instruction string `json:"instruction"`
		}
		// Malformed JSON passes through; the handler reports it as a 400.
		_ = json.Unmarshal(body, &fields)
		probe := strings.ToLower(fields.Query + " " + fields.Text + " " + fields.Instruction)
		for _, indicator := range injectionIndicators {
			if strings.Contains(probe, indicator) {
				g.logger.Warn("prompt injection rejected",
					zap.String("indicator", indicator),
					zap.String("path", r.URL.Path),
				)
				respondError(w, http.StatusBadRequest, "request rejected by security policy")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
