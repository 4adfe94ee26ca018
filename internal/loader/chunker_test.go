package loader

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func words(n, offset int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%d", offset+i)
	}
	return out
}

func TestChunkWindows(t *testing.T) {
	// 1000 words, size 800, overlap 80: windows start at 0 and 720.
	text := strings.Join(words(1000, 0), " ")
	chunks, err := Chunk(text, 800, 80)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	first := strings.Fields(chunks[0])
	if len(first) != 800 {
		t.Errorf("first chunk words = %d, want 800", len(first))
	}
	second := strings.Fields(chunks[1])
	if second[0] != "w720" {
		t.Errorf("second chunk starts at %s, want w720", second[0])
	}
	if second[len(second)-1] != "w999" {
		t.Errorf("second chunk ends at %s, want w999", second[len(second)-1])
	}
}

func TestChunkShortText(t *testing.T) {
	chunks, err := Chunk("just a few words", 800, 80)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 || chunks[0] != "just a few words" {
		t.Errorf("chunks = %v, want the whole text in one chunk", chunks)
	}
}

func TestChunkEmptyText(t *testing.T) {
	chunks, err := Chunk("  \n\t ", 800, 80)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 0 {
		t.Errorf("chunks = %v, want none", chunks)
	}
}

func TestChunkNoEmptyChunks(t *testing.T) {
	text := strings.Join(words(10, 0), " ")
	chunks, err := Chunk(text, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range chunks {
		if strings.TrimSpace(c) == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestChunkOverlapCarried(t *testing.T) {
	text := strings.Join(words(6, 0), " ")
	chunks, err := Chunk(text, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	// windows: [0..4), [2..6)
	if len(chunks) != 2 {
		t.Fatalf("chunks = %v, want 2", chunks)
	}
	if chunks[1] != "w2 w3 w4 w5" {
		t.Errorf("second chunk = %q", chunks[1])
	}
}

func TestChunkRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name          string
		size, overlap int
	}{
		{"overlap equals size", 80, 80},
		{"overlap exceeds size", 80, 100},
		{"zero size", 0, 0},
		{"negative size", -1, 0},
		{"negative overlap", 10, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Chunk("a b c", tt.size, tt.overlap)
			if !errors.Is(err, ErrChunkConfig) {
				t.Errorf("Chunk(size=%d, overlap=%d) error = %v, want ErrChunkConfig", tt.size, tt.overlap, err)
			}
		})
	}
}
