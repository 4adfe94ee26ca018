package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vectorstore.json")

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	recs := []Record{
		{ID: "a", Namespace: "ns", Vector: []float32{1, 0}, Text: "kept", Metadata: map[string]string{"k": "v"}},
	}
	if _, err := s.Upsert(ctx, recs); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	results, err := reopened.Search(ctx, "ns", []float32{1, 0}, 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Text != "kept" || results[0].Metadata["k"] != "v" {
		t.Errorf("results after reopen = %+v", results)
	}
}

func TestFileStoreOnDiskShape(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vectorstore.json")

	s, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Upsert(ctx, []Record{{ID: "a", Namespace: "ns", Vector: []float32{1, 0}, Text: "t"}}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var state struct {
		Documents []struct {
			ID        string            `json:"id"`
			Namespace string            `json:"namespace"`
			Vector    []float32         `json:"vector"`
			Text      string            `json:"text"`
			Metadata  map[string]string `json:"metadata"`
		} `json:"documents"`
	}
	if err := json.Unmarshal(data, &state); err != nil {
		t.Fatalf("store file is not the canonical shape: %v", err)
	}
	if len(state.Documents) != 1 || state.Documents[0].ID != "a" {
		t.Errorf("documents = %+v", state.Documents)
	}
}

func TestFileStoreMissingFileIsEmpty(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "does", "not", "exist.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.Size() != 0 {
		t.Errorf("size = %d, want 0", s.Size())
	}
}

func TestFileStoreCorruptFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vectorstore.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path); err == nil {
		t.Fatal("corrupt store file should be an error, not silently discarded")
	}
}

func TestFileStoreNoLeftoverTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(filepath.Join(dir, "vectorstore.json"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	for i := 0; i < 3; i++ {
		if _, err := s.Upsert(ctx, []Record{{ID: "a", Namespace: "ns", Vector: []float32{1, 0}}}); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory entries = %v, want only the store file", names)
	}
}

func TestFileStoreWatchReloadsExternalWrite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "vectorstore.json")

	s, err := NewFileStore(path, WithWatch())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	// Simulate another process replacing the file atomically.
	state := fileState{Documents: []Record{
		{ID: "ext", Namespace: "ns", Vector: []float32{1, 0}, Text: "external"},
	}}
	data, err := json.Marshal(state)
	if err != nil {
		t.Fatal(err)
	}
	tmp := filepath.Join(dir, ".incoming.json")
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		results, err := s.Search(ctx, "ns", []float32{1, 0}, 1, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(results) == 1 && results[0].Text == "external" {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("store did not pick up the externally written file")
}
