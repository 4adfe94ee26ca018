// Package store persists embedding records and serves exact cosine
// similarity searches over them. Search is a full scan of the namespace,
// which is the scalability ceiling of this design; it is intentional at the
// corpus sizes this service targets, and replacing it with an approximate
// index would change recall semantics.
package store

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/hyperjump/ragserve/internal/vector"
)

// DefaultNamespace is used when a record or query names no namespace.
const DefaultNamespace = "default"

// Record is one embedded chunk. Identity is the (ID, Namespace) pair;
// upserting an existing identity replaces the record in place.
type Record struct {
	ID        string            `json:"id"`
	Namespace string            `json:"namespace"`
	Vector    []float32         `json:"vector"`
	Text      string            `json:"text"`
	Metadata  map[string]string `json:"metadata"`
}

// Result is a single similarity hit, consumed within one query cycle.
type Result struct {
	Text     string            `json:"text"`
	Score    float64           `json:"score"`
	Metadata map[string]string `json:"metadata"`
}

// Store is the persistence capability behind the vector index.
type Store interface {
	// Upsert normalizes and writes records: a record with an existing
	// (ID, Namespace) is replaced in place, preserving its position among
	// untouched records; others are appended. Records without an ID get a
	// generated one. Metadata arrives already resolved: the ingestion
	// pipeline merges request-level defaults into each record before it
	// reaches the store, with record-level keys winning. Returns the
	// number of records written.
	Upsert(ctx context.Context, records []Record) (int, error)
	// Search scores every record in the namespace that matches the filter
	// by cosine similarity to query and returns at most topK results in
	// descending score order, insertion order preserved between equal
	// scores. Filter semantics are exact-match AND; a record missing a
	// filtered key is excluded.
	Search(ctx context.Context, namespace string, query []float32, topK int, filter map[string]string) ([]Result, error)
	Close() error
}

// prepare returns a copy of r ready for storage: unit-normalized vector,
// generated ID when absent, defaulted namespace, and metadata copied so the
// store never aliases caller maps.
func prepare(r Record) Record {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.Namespace == "" {
		r.Namespace = DefaultNamespace
	}
	r.Vector = vector.Normalize(r.Vector)
	meta := make(map[string]string, len(r.Metadata))
	for k, v := range r.Metadata {
		meta[k] = v
	}
	r.Metadata = meta
	return r
}

// replaceOrAppend applies upsert identity semantics to a record slice.
func replaceOrAppend(records []Record, rec Record) []Record {
	for i, existing := range records {
		if existing.ID == rec.ID && existing.Namespace == rec.Namespace {
			records[i] = rec
			return records
		}
	}
	return append(records, rec)
}

// matchesFilter reports whether every filter key is present in meta with an
// equal value.
func matchesFilter(meta, filter map[string]string) bool {
	for k, v := range filter {
		got, ok := meta[k]
		if !ok || got != v {
			return false
		}
	}
	return true
}

// rankTopK scores candidates against query and returns at most topK results,
// best first. The sort is stable so equal scores keep candidate order.
func rankTopK(candidates []Record, query []float32, topK int) []Result {
	results := make([]Result, 0, len(candidates))
	for _, r := range candidates {
		results = append(results, Result{
			Text:     r.Text,
			Score:    vector.Cosine(query, r.Vector),
			Metadata: r.Metadata,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK >= 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}
