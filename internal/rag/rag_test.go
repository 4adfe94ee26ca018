package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/ragserve/internal/embedding"
	"github.com/hyperjump/ragserve/internal/generation"
	"github.com/hyperjump/ragserve/internal/loader"
	"github.com/hyperjump/ragserve/internal/provider"
	"github.com/hyperjump/ragserve/internal/store"
)

// newFallbackOrchestrator builds the pipeline with no provider credentials,
// so embedding and generation both run on their local fallbacks.
func newFallbackOrchestrator() (*Orchestrator, *store.MemoryStore) {
	st := store.NewMemoryStore()
	emb := embedding.NewChain(provider.ModeAuto, nil, nil, embedding.DefaultDimensions, nil)
	gen := generation.NewChain(provider.ModeAuto, nil, nil, nil)
	return NewOrchestrator(emb, gen, st, ChunkConfig{}, nil), st
}

func TestIngestThenQueryFindsRelevantContext(t *testing.T) {
	ctx := context.Background()
	o, _ := newFallbackOrchestrator()

	res, err := o.Ingest(ctx, []string{"The sky is blue. The grass is green."}, "", nil, ChunkConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Chunks == 0 || res.Upserted != res.Chunks {
		t.Fatalf("ingest result = %+v, want every chunk upserted", res)
	}

	answer, contexts, err := o.RetrieveAndAnswer(ctx, "sky color", "", 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if answer == "" {
		t.Error("answer is empty")
	}
	found := false
	for _, c := range contexts {
		if strings.Contains(c.Text, "sky") {
			found = true
		}
	}
	if !found {
		t.Errorf("no retrieved context mentions the query subject, contexts = %+v", contexts)
	}
}

func TestIngestChunksLongDocuments(t *testing.T) {
	ctx := context.Background()
	o, st := newFallbackOrchestrator()

	words := make([]string, 1000)
	for i := range words {
		words[i] = "word"
	}
	res, err := o.Ingest(ctx, []string{strings.Join(words, " ")}, "docs", nil, ChunkConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Chunks != 2 {
		t.Errorf("chunks = %d, want 2 for 1000 words at defaults", res.Chunks)
	}
	if st.Size() != 2 {
		t.Errorf("stored records = %d, want 2", st.Size())
	}
}

func TestIngestRejectsBadChunkConfig(t *testing.T) {
	ctx := context.Background()
	o, st := newFallbackOrchestrator()

	_, err := o.Ingest(ctx, []string{"some text"}, "", nil, ChunkConfig{Size: 10, Overlap: 10})
	if !errors.Is(err, loader.ErrChunkConfig) {
		t.Fatalf("err = %v, want ErrChunkConfig", err)
	}
	if st.Size() != 0 {
		t.Errorf("stored records = %d, want none after a failed ingest", st.Size())
	}
}

func TestIngestAttachesMetadata(t *testing.T) {
	ctx := context.Background()
	o, _ := newFallbackOrchestrator()

	meta := map[string]string{"source": "handbook"}
	if _, err := o.Ingest(ctx, []string{"A short note."}, "ns", meta, ChunkConfig{}); err != nil {
		t.Fatal(err)
	}
	_, contexts, err := o.RetrieveAndAnswer(ctx, "note", "ns", 1, map[string]string{"source": "handbook"})
	if err != nil {
		t.Fatal(err)
	}
	if len(contexts) != 1 || contexts[0].Metadata["source"] != "handbook" {
		t.Errorf("contexts = %+v, want the record with its metadata", contexts)
	}
}

func TestRetrieveAndAnswerEmptyIndex(t *testing.T) {
	ctx := context.Background()
	o, _ := newFallbackOrchestrator()

	answer, contexts, err := o.RetrieveAndAnswer(ctx, "anything", "", 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(contexts) != 0 {
		t.Errorf("contexts = %+v, want none from an empty index", contexts)
	}
	if !strings.Contains(answer, "I don't know") {
		t.Errorf("answer = %q, want the no-knowledge fallback", answer)
	}
}

func TestRetrieveAndAnswerRespectsTopK(t *testing.T) {
	ctx := context.Background()
	o, _ := newFallbackOrchestrator()

	docs := []string{"alpha one", "alpha two", "alpha three", "alpha four"}
	if _, err := o.Ingest(ctx, docs, "", nil, ChunkConfig{}); err != nil {
		t.Fatal(err)
	}
	_, contexts, err := o.RetrieveAndAnswer(ctx, "alpha", "", 2, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(contexts) != 2 {
		t.Errorf("contexts = %d, want topK", len(contexts))
	}
}

func TestBuildPromptContainsGuardAndContexts(t *testing.T) {
	prompt := buildPrompt("what is up", []store.Result{
		{Text: "the sky", Score: 0.9},
		{Text: "a ceiling", Score: 0.5},
	})
	for _, want := range []string{
		"Follow these rules strictly",
		"User question: what is up",
		"[#1 score=0.900] the sky",
		"[#2 score=0.500] a ceiling",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
