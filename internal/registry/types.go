// Package registry holds the known-identity set used for face matching:
// (label, embedding) pairs loaded once per pipeline run and treated as
// read-only for the run's duration.
package registry

import (
	"context"
	"time"
)

// Identity is one known face: a display label and its embedding vector.
// Embedding length is constant across all records (the dimension of the
// upstream face-recognition model).
type Identity struct {
	Label     string
	Embedding []float32
}

// RawIdentity is an identity record as returned by a Store before
// validation. Loading skips records whose embeddings do not validate.
type RawIdentity struct {
	ID        int64
	Label     string
	Embedding []float32
	CreatedAt time.Time
}

// Store is the external identity store the registry is loaded from.
type Store interface {
	// Scan returns all identity records in discovery order.
	Scan(ctx context.Context) ([]RawIdentity, error)
	// Add stores a new identity record.
	Add(ctx context.Context, label string, embedding []float32) error
	// Remove deletes all records for a label. Returns the number removed.
	Remove(ctx context.Context, label string) (int, error)
}

// Registry is the loaded, validated identity set for one run.
type Registry struct {
	identities []Identity
	dim        int
	index      *Index // optional HNSW acceleration, nil for small registries
}

// Identities returns the loaded records in discovery order.
func (r *Registry) Identities() []Identity {
	return r.identities
}

// Len returns the number of usable identities.
func (r *Registry) Len() int {
	return len(r.identities)
}

// Dim returns the embedding dimension the registry was validated against.
func (r *Registry) Dim() int {
	return r.dim
}

// Index returns the HNSW index, or nil if the registry is searched
// exhaustively.
func (r *Registry) Index() *Index {
	return r.index
}
