// Package config provides configuration loading and structs for the ragserve server.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/ragserve/internal/provider"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Provider  string          `yaml:"provider"`
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Chunk     ChunkConfig     `yaml:"chunk"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Security  SecurityConfig  `yaml:"security"`

	ProviderTimeout time.Duration `yaml:"provider_timeout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig selects and locates the vector store backend.
type StoreConfig struct {
	Type      string `yaml:"type"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
	Watch     bool   `yaml:"watch"`
}

// ChunkConfig holds the default word-window chunking parameters.
type ChunkConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// GeminiConfig holds Gemini API settings.
type GeminiConfig struct {
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	EmbedModel string `yaml:"embed_model"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	EmbedModel string `yaml:"embed_model"`
}

// EmbeddingConfig holds local fallback embedder settings.
type EmbeddingConfig struct {
	Dimensions int `yaml:"dimensions"`
}

// SecurityConfig holds the request guard settings.
type SecurityConfig struct {
	APIKey       string `yaml:"api_key"`
	MaxPayload   int64  `yaml:"max_payload"`
	RateLimitMax int    `yaml:"rate_limit_max"`
}

// Load builds the configuration: file values (when path is non-empty), then
// environment overrides, then defaults for whatever is still unset.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	applyEnv(&cfg)
	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Mode converts the configured provider string to a provider mode.
func (c *Config) Mode() provider.Mode {
	switch c.Provider {
	case "gemini":
		return provider.ModeGemini
	case "openai":
		return provider.ModeOpenAI
	default:
		return provider.ModeAuto
	}
}
