package config

import (
	"fmt"

	"github.com/hyperjump/ragserve/internal/embedding"
	"github.com/hyperjump/ragserve/internal/loader"
	"github.com/hyperjump/ragserve/internal/provider"
	"github.com/hyperjump/ragserve/internal/store"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Provider == "" {
		cfg.Provider = "auto"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "file"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "data/vectorstore.json"
	}
	if cfg.Store.Namespace == "" {
		cfg.Store.Namespace = store.DefaultNamespace
	}
	if cfg.Chunk.Size == 0 {
		cfg.Chunk.Size = loader.DefaultChunkSize
	}
	if cfg.Chunk.Overlap == 0 {
		cfg.Chunk.Overlap = loader.DefaultChunkOverlap
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = embedding.DefaultDimensions
	}
	if cfg.Security.MaxPayload == 0 {
		cfg.Security.MaxPayload = 20000
	}
	if cfg.Security.RateLimitMax == 0 {
		cfg.Security.RateLimitMax = 30
	}
	if cfg.ProviderTimeout == 0 {
		cfg.ProviderTimeout = provider.DefaultTimeout
	}
}

// Validate rejects configurations that cannot produce a working server.
func Validate(cfg *Config) error {
	switch cfg.Provider {
	case "auto", "gemini", "openai":
	default:
		return fmt.Errorf("unknown provider %q", cfg.Provider)
	}
	switch cfg.Store.Type {
	case "file", "bolt", "memory":
	default:
		return fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}
	if cfg.Chunk.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", cfg.Chunk.Size)
	}
	if cfg.Chunk.Overlap < 0 || cfg.Chunk.Overlap >= cfg.Chunk.Size {
		return fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", cfg.Chunk.Overlap, cfg.Chunk.Size)
	}
	if cfg.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding dimensions must be positive, got %d", cfg.Embedding.Dimensions)
	}
	return nil
}
