// Package rag composes the chunker, embedding chain, vector store, and
// generation chain into the ingestion and question-answering pipelines.
package rag

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/ragserve/internal/embedding"
	"github.com/hyperjump/ragserve/internal/generation"
	"github.com/hyperjump/ragserve/internal/loader"
	"github.com/hyperjump/ragserve/internal/store"
	"github.com/hyperjump/ragserve/pkg/utils"
)

// DefaultTopK is the number of contexts retrieved when a query names none.
const DefaultTopK = 5

// ChunkConfig sets the word-window chunking parameters. Zero fields take
// the orchestrator's defaults, so a request can override just one of them.
type ChunkConfig struct {
	Size    int
	Overlap int
}

// IngestResult reports what one ingestion call produced.
type IngestResult struct {
	Chunks   int
	Upserted int
}

// Orchestrator owns the ingest and query pipelines. It holds no per-request
// state; every method is safe for concurrent use.
type Orchestrator struct {
	embedder  embedding.Embedder
	generator generation.Generator
	store     store.Store
	defaults  ChunkConfig
	logger    *zap.Logger
}

// NewOrchestrator wires the pipeline dependencies together.
func NewOrchestrator(embedder embedding.Embedder, generator generation.Generator, st store.Store, defaults ChunkConfig, logger *zap.Logger) *Orchestrator {
	if defaults.Size == 0 {
		defaults.Size = loader.DefaultChunkSize
	}
	if defaults.Overlap == 0 {
		defaults.Overlap = loader.DefaultChunkOverlap
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		embedder:  embedder,
		generator: generator,
		store:     st,
		defaults:  defaults,
		logger:    logger,
	}
}

// Ingest chunks each document, embeds every chunk independently, and upserts
// the records under namespace. Chunk order within a document is preserved in
// the index. The call either upserts every chunk or fails as a whole.
func (o *Orchestrator) Ingest(ctx context.Context, docs []string, namespace string, metadata map[string]string, cc ChunkConfig) (IngestResult, error) {
	if namespace == "" {
		namespace = store.DefaultNamespace
	}
	if cc.Size == 0 {
		cc.Size = o.defaults.Size
	}
	if cc.Overlap == 0 {
		cc.Overlap = o.defaults.Overlap
	}
	var records []store.Record
	for _, doc := range docs {
		chunks, err := loader.Chunk(doc, cc.Size, cc.Overlap)
		if err != nil {
			return IngestResult{}, err
		}
		for _, ch := range chunks {
			vec, err := o.embedder.Embed(ctx, ch)
			if err != nil {
				return IngestResult{}, fmt.Errorf("embed chunk: %w", err)
			}
			records = append(records, store.Record{
				Namespace: namespace,
				Vector:    vec,
				Text:      ch,
				Metadata:  metadata,
			})
		}
	}
	upserted, err := o.store.Upsert(ctx, records)
	if err != nil {
		return IngestResult{}, fmt.Errorf("upsert records: %w", err)
	}
	o.logger.Info("ingested documents",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(records)),
		zap.String("namespace", namespace),
		zap.Any("metadata", utils.RedactMetadata(metadata)),
	)
	return IngestResult{Chunks: len(records), Upserted: upserted}, nil
}

// RetrieveAndAnswer embeds the query, searches the namespace, and asks the
// generation chain to answer from a hardened prompt. The retrieved contexts
// are returned alongside the answer, scores included, for transparency.
func (o *Orchestrator) RetrieveAndAnswer(ctx context.Context, query, namespace string, topK int, filter map[string]string) (string, []store.Result, error) {
	if namespace == "" {
		namespace = store.DefaultNamespace
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	qv, err := o.embedder.Embed(ctx, query)
	if err != nil {
		return "", nil, fmt.Errorf("embed query: %w", err)
	}
	contexts, err := o.store.Search(ctx, namespace, qv, topK, filter)
	if err != nil {
		return "", nil, fmt.Errorf("search index: %w", err)
	}
	texts := make([]string, len(contexts))
	for i, c := range contexts {
		texts[i] = c.Text
	}
	answer, err := o.generator.Answer(ctx, buildPrompt(query, contexts), texts)
	if err != nil {
		return "", nil, err
	}
	return answer, contexts, nil
}

// Summarize delegates to the generation chain.
func (o *Orchestrator) Summarize(ctx context.Context, text string) (string, error) {
	return o.generator.Summarize(ctx, text)
}

// Sentiment delegates to the generation chain.
func (o *Orchestrator) Sentiment(ctx context.Context, text string) (generation.Sentiment, error) {
	return o.generator.Sentiment(ctx, text)
}
