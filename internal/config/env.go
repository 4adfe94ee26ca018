package config

import (
	"os"
	"strconv"
)

// applyEnv overrides cfg fields from environment variables. Env values win
// over file values so deployments can keep credentials out of the file.
func applyEnv(cfg *Config) {
	setString(&cfg.Provider, "AI_PROVIDER")
	setString(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "GEMINI_MODEL")
	setString(&cfg.Gemini.EmbedModel, "GEMINI_EMBEDDING_MODEL")
	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "OPENAI_MODEL")
	setString(&cfg.OpenAI.EmbedModel, "OPENAI_EMBEDDING_MODEL")
	setString(&cfg.Store.Path, "RAG_STORE_PATH")
	setString(&cfg.Store.Namespace, "RAG_NAMESPACE")
	setString(&cfg.Security.APIKey, "AI_API_KEY")
	setInt64(&cfg.Security.MaxPayload, "AI_MAX_PAYLOAD")
	setInt(&cfg.Security.RateLimitMax, "AI_RATE_LIMIT_MAX")
	setInt(&cfg.Chunk.Size, "RAG_CHUNK_SIZE")
	setInt(&cfg.Chunk.Overlap, "RAG_CHUNK_OVERLAP")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}
