package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hyperjump/ragserve/pkg/utils"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Gemini calls the Generative Language API for embeddings and generation.
type Gemini struct {
	apiKey     string
	model      string
	embedModel string
	baseURL    string
	client     *http.Client
}

// GeminiConfig configures a Gemini client. An empty APIKey produces a client
// whose calls all return ErrNotConfigured.
type GeminiConfig struct {
	APIKey     string
	Model      string // generation model, defaults to gemini-1.5-flash
	EmbedModel string // embedding model, defaults to text-embedding-004
	BaseURL    string
	Timeout    time.Duration
}

// NewGemini creates a Gemini client from the given configuration.
func NewGemini(cfg GeminiConfig) *Gemini {
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "text-embedding-004"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGeminiBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Gemini{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		embedModel: cfg.EmbedModel,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		client:     &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether a credential is present.
func (c *Gemini) Configured() bool { return c.apiKey != "" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiEmbedRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// Embed returns the raw embedding for text from the embedContent endpoint.
func (c *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	req := geminiEmbedRequest{
		Model:   "models/" + c.embedModel,
		Content: geminiContent{Parts: []geminiPart{{Text: text}}},
	}
	body, err := c.post(ctx, c.endpoint(c.embedModel, "embedContent"), req)
	if err != nil {
		return nil, fmt.Errorf("gemini embeddings: %w", err)
	}
	var out geminiEmbedResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("gemini embeddings: decode response: %w", err)
	}
	if len(out.Embedding.Values) == 0 {
		return nil, errors.New("gemini embeddings: no embedding returned")
	}
	return out.Embedding.Values, nil
}

type geminiGenerateRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Complete sends a system instruction and user prompt to the generateContent
// endpoint and returns the candidate text.
func (c *Gemini) Complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	req := geminiGenerateRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: system}}},
			{Role: "user", Parts: []geminiPart{{Text: user}}},
		},
		GenerationConfig: geminiGenerationConfig{Temperature: temperature},
	}
	body, err := c.post(ctx, c.endpoint(c.model, "generateContent"), req)
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}
	var out geminiGenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("gemini chat: decode response: %w", err)
	}
	if len(out.Candidates) == 0 {
		return "", errors.New("gemini chat: no completion returned")
	}
	parts := out.Candidates[0].Content.Parts
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		texts = append(texts, p.Text)
	}
	text := strings.TrimSpace(strings.Join(texts, " "))
	if text == "" {
		return "", errors.New("gemini chat: no completion returned")
	}
	return text, nil
}

// endpoint builds the model method URL. The API key travels in a header,
// never in the URL, so transport errors cannot reproduce it.
func (c *Gemini) endpoint(model, method string) string {
	return fmt.Sprintf("%s/models/%s:%s", c.baseURL, model, method)
}

func (c *Gemini) post(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, utils.Truncate(string(body), maxErrorBody))
	}
	return body, nil
}
