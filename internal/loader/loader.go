// Package loader resolves ingestion sources into raw document strings and
// splits them into overlapping chunks for embedding.
package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Sources are the raw inputs of one ingestion request. Texts and Markdown
// pass through verbatim; URLs are fetched and stripped of HTML.
type Sources struct {
	Texts    []string
	URLs     []string
	Markdown []string
}

// Loader turns Sources into document strings.
type Loader struct {
	client *http.Client
	logger *zap.Logger
}

// New creates a Loader. A nil client gets a timeout-bounded default.
func New(client *http.Client, logger *zap.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{client: client, logger: logger}
}

// Load returns one document per source: texts first, then markdown, then
// fetched URLs. Any fetch failure fails the whole call.
func (l *Loader) Load(ctx context.Context, src Sources) ([]string, error) {
	docs := make([]string, 0, len(src.Texts)+len(src.Markdown)+len(src.URLs))
	docs = append(docs, src.Texts...)
	docs = append(docs, src.Markdown...)
	for _, u := range src.URLs {
		doc, err := l.fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (l *Loader) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch %s: status %d %s", url, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	l.logger.Debug("fetched url", zap.String("url", url), zap.Int("bytes", len(body)))
	return StripHTML(string(body)), nil
}
