package store

import (
	"context"
	"path/filepath"
	"testing"
)

func TestBoltStoreReplacedRecordKeepsPosition(t *testing.T) {
	ctx := context.Background()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	recs := []Record{
		{ID: "a", Namespace: "ns", Vector: []float32{1, 0}, Text: "first"},
		{ID: "b", Namespace: "ns", Vector: []float32{1, 0}, Text: "second"},
	}
	if _, err := s.Upsert(ctx, recs); err != nil {
		t.Fatal(err)
	}
	// Rewriting "a" must not move it behind "b" in tie-break order.
	if _, err := s.Upsert(ctx, []Record{{ID: "a", Namespace: "ns", Vector: []float32{1, 0}, Text: "first v2"}}); err != nil {
		t.Fatal(err)
	}
	results, err := s.Search(ctx, "ns", []float32{1, 0}, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Text != "first v2" || results[1].Text != "second" {
		t.Errorf("order after replace = [%q, %q]", results[0].Text, results[1].Text)
	}
}

func TestBoltStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.db")

	s, err := NewBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Upsert(ctx, []Record{{ID: "a", Namespace: "ns", Vector: []float32{0, 1}, Text: "durable"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	results, err := reopened.Search(ctx, "ns", []float32{0, 1}, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Text != "durable" {
		t.Errorf("results after reopen = %+v", results)
	}
}

func TestBoltStoreNamespacePrefixIsExact(t *testing.T) {
	ctx := context.Background()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// "ns" must not match records in "ns2" even though it is a byte prefix.
	recs := []Record{
		{ID: "a", Namespace: "ns", Vector: []float32{1, 0}, Text: "short"},
		{ID: "b", Namespace: "ns2", Vector: []float32{1, 0}, Text: "long"},
	}
	if _, err := s.Upsert(ctx, recs); err != nil {
		t.Fatal(err)
	}
	results, err := s.Search(ctx, "ns", []float32{1, 0}, 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Text != "short" {
		t.Errorf("results = %+v, want only the ns record", results)
	}
}
