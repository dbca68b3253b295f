// Package mock provides an in-memory identity store for tests and
// development without a database.
package mock

import (
	"context"
	"sync"
	"time"

	"emoscan/internal/registry"
)

// Store is an in-memory registry.Store.
type Store struct {
	mu      sync.RWMutex
	records []registry.RawIdentity
	nextID  int64

	// ScanErr, when set, is returned by Scan. Lets tests exercise the
	// fatal load path.
	ScanErr error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{nextID: 1}
}

// Scan returns all records in insertion order.
func (s *Store) Scan(ctx context.Context) ([]registry.RawIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ScanErr != nil {
		return nil, s.ScanErr
	}
	out := make([]registry.RawIdentity, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Add stores a record.
func (s *Store) Add(ctx context.Context, label string, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	emb := make([]float32, len(embedding))
	copy(emb, embedding)
	s.records = append(s.records, registry.RawIdentity{
		ID:        s.nextID,
		Label:     label,
		Embedding: emb,
		CreatedAt: time.Now(),
	})
	s.nextID++
	return nil
}

// Remove deletes all records for a label.
func (s *Store) Remove(ctx context.Context, label string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	removed := 0
	for _, rec := range s.records {
		if rec.Label == label {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	return removed, nil
}
