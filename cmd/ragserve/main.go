// Package main is the ragserve entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/ragserve/internal/config"
	"github.com/hyperjump/ragserve/internal/embedding"
	"github.com/hyperjump/ragserve/internal/generation"
	"github.com/hyperjump/ragserve/internal/loader"
	"github.com/hyperjump/ragserve/internal/provider"
	"github.com/hyperjump/ragserve/internal/rag"
	"github.com/hyperjump/ragserve/internal/server"
	"github.com/hyperjump/ragserve/internal/store"
	"github.com/hyperjump/ragserve/pkg/utils"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "config file path (optional)")
	debug := flag.Bool("debug", false, "enable debug logging")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ragserve version %s\n", version)
		return
	}

	// A missing .env is fine; env vars may come from the environment itself.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("provider", cfg.Provider),
		zap.String("store", cfg.Store.Type),
		zap.Bool("debug", debugMode),
	)

	st, err := newStore(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open vector store", zap.Error(err))
	}
	defer st.Close()

	gemini := provider.NewGemini(provider.GeminiConfig{
		APIKey:     cfg.Gemini.APIKey,
		Model:      cfg.Gemini.Model,
		EmbedModel: cfg.Gemini.EmbedModel,
		Timeout:    cfg.ProviderTimeout,
	})
	openai := provider.NewOpenAI(provider.OpenAIConfig{
		APIKey:     cfg.OpenAI.APIKey,
		Model:      cfg.OpenAI.Model,
		EmbedModel: cfg.OpenAI.EmbedModel,
		Timeout:    cfg.ProviderTimeout,
	})

	mode := cfg.Mode()
	embedder := embedding.NewChain(mode, gemini, openai, cfg.Embedding.Dimensions, logger)
	generator := generation.NewChain(mode, gemini, openai, logger)
	orchestrator := rag.NewOrchestrator(embedder, generator, st, rag.ChunkConfig{
		Size:    cfg.Chunk.Size,
		Overlap: cfg.Chunk.Overlap,
	}, logger)

	srv := server.NewServer(orchestrator, loader.New(nil, logger), cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// newStore opens the configured vector store backend.
func newStore(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Store.Type {
	case "bolt":
		return store.NewBoltStore(cfg.Store.Path)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		opts := []store.Option{store.WithLogger(logger)}
		if cfg.Store.Watch {
			opts = append(opts, store.WithWatch())
		}
		return store.NewFileStore(cfg.Store.Path, opts...)
	}
}
