package loader

import (
	"errors"
	"fmt"
	"strings"
)

// Default chunking parameters, in words.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 80
)

// ErrChunkConfig marks a chunking configuration the window loop cannot make
// progress with. Callers treat it as a validation error.
var ErrChunkConfig = errors.New("invalid chunk configuration")

// Chunk splits text into overlapping windows of size words, each window
// starting size-overlap words after the previous one. The overlap must be
// smaller than the size: an equal or larger overlap would keep the window
// from ever advancing, so the configuration is rejected instead.
func Chunk(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d must be positive", ErrChunkConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be non-negative and smaller than size %d", ErrChunkConfig, overlap, size)
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}
	step := size - overlap
	var chunks []string
	for i := 0; i < len(words); i += step {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks, nil
}
