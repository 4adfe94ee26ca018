package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.etcd.io/bbolt"
)

var bucketDocuments = []byte("documents")

// boltRecord wraps a Record with the bucket sequence assigned when it was
// first inserted. bbolt iterates keys in byte order, so the sequence is what
// preserves insertion order for stable tie-breaking.
type boltRecord struct {
	Record
	Seq uint64 `json:"seq"`
}

// BoltStore persists records in a bbolt database, one key per record
// (namespace, NUL, id). Transactions give the per-mutation serialization
// the file store gets from its write lock.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the bbolt database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt store: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDocuments)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create documents bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func boltKey(namespace, id string) []byte {
	key := make([]byte, 0, len(namespace)+1+len(id))
	key = append(key, namespace...)
	key = append(key, 0)
	return append(key, id...)
}

// Upsert implements Store. A replaced record keeps its original sequence so
// its position among untouched records does not move.
func (s *BoltStore) Upsert(ctx context.Context, records []Record) (int, error) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDocuments)
		for _, r := range records {
			rec := prepare(r)
			key := boltKey(rec.Namespace, rec.ID)
			var seq uint64
			if existing := b.Get(key); existing != nil {
				var prev boltRecord
				if err := json.Unmarshal(existing, &prev); err != nil {
					return fmt.Errorf("decode existing record: %w", err)
				}
				seq = prev.Seq
			} else {
				n, err := b.NextSequence()
				if err != nil {
					return fmt.Errorf("next sequence: %w", err)
				}
				seq = n
			}
			data, err := json.Marshal(boltRecord{Record: rec, Seq: seq})
			if err != nil {
				return fmt.Errorf("encode record: %w", err)
			}
			if err := b.Put(key, data); err != nil {
				return fmt.Errorf("put record: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("bolt upsert: %w", err)
	}
	return len(records), nil
}

// Search implements Store.
func (s *BoltStore) Search(ctx context.Context, namespace string, query []float32, topK int, filter map[string]string) ([]Result, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	prefix := boltKey(namespace, "")
	var matched []boltRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketDocuments).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var rec boltRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode record %q: %w", k, err)
			}
			if !matchesFilter(rec.Metadata, filter) {
				continue
			}
			matched = append(matched, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bolt search: %w", err)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Seq < matched[j].Seq })
	candidates := make([]Record, len(matched))
	for i, m := range matched {
		candidates[i] = m.Record
	}
	return rankTopK(candidates, query, topK), nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }
