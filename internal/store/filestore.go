package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const reloadDebounce = 400 * time.Millisecond

// fileState is the canonical on-disk shape of the store.
type fileState struct {
	Documents []Record `json:"documents"`
}

// FileStore keeps every namespace's records in one JSON file and rewrites
// the whole file on each mutation. Writes go to a temp file in the same
// directory and are moved into place with a rename, so a reader never
// observes a partially written store. Mutations are serialized under a
// write lock; searches run in parallel under a read lock.
type FileStore struct {
	path   string
	logger *zap.Logger
	watch  bool

	mu      sync.RWMutex
	records []Record

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *FileStore) { s.logger = l }
}

// WithWatch reloads the store when another process rewrites the file.
func WithWatch() Option {
	return func(s *FileStore) { s.watch = true }
}

// NewFileStore opens (or lazily creates) the store file at path.
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	s := &FileStore{path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	if s.watch {
		if err := s.startWatcher(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Upsert implements Store. The whole index is persisted after the batch.
func (s *FileStore) Upsert(ctx context.Context, records []Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records = replaceOrAppend(s.records, prepare(r))
	}
	if err := s.saveLocked(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Search implements Store.
func (s *FileStore) Search(ctx context.Context, namespace string, query []float32, topK int, filter map[string]string) ([]Result, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	candidates := make([]Record, 0)
	for _, r := range s.records {
		if r.Namespace != namespace || !matchesFilter(r.Metadata, filter) {
			continue
		}
		candidates = append(candidates, r)
	}
	return rankTopK(candidates, query, topK), nil
}

// Size returns the number of records across all namespaces.
func (s *FileStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close stops the reload watcher. The file itself needs no teardown.
func (s *FileStore) Close() error {
	if s.watcher != nil {
		close(s.done)
		return s.watcher.Close()
	}
	return nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read store: %w", err)
	}
	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("parse store %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.records = state.Documents
	s.mu.Unlock()
	return nil
}

// saveLocked writes the whole index atomically. Callers hold the write lock.
func (s *FileStore) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	docs := s.records
	if docs == nil {
		docs = []Record{}
	}
	data, err := json.MarshalIndent(fileState{Documents: docs}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".vectorstore-*.json")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func (s *FileStore) startWatcher() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start store watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch store dir: %w", err)
	}
	s.watcher = w
	s.done = make(chan struct{})
	go s.watchLoop()
	return nil
}

// watchLoop debounces change events on the store file and reloads it.
// Reloading after the store's own save is harmless: the file content
// already matches memory.
func (s *FileStore) watchLoop() {
	var timer *time.Timer
	for {
		select {
		case <-s.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Name != s.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				if err := s.load(); err != nil {
					s.logger.Warn("store reload failed", zap.Error(err))
					return
				}
				s.logger.Debug("store reloaded after file change", zap.String("path", s.path))
			})
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				s.logger.Debug("store watcher error", zap.Error(err))
			}
		}
	}
}
