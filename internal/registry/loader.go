package registry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"emoscan/internal/constants"
)

// ErrNoIdentities is returned when the store yields zero usable records.
// Matching against an empty registry is meaningless, so this aborts the run.
var ErrNoIdentities = errors.New("no identities available")

// LoadOptions tunes registry loading.
type LoadOptions struct {
	// Dim is the expected embedding dimension. Zero means constants.EmbeddingDim.
	Dim int
	// IndexThreshold is the registry size at which an HNSW index is built.
	// Zero means constants.HNSWRegistryThreshold; negative disables indexing.
	IndexThreshold int
	// IndexPath persists the HNSW index between runs. A stale file (size
	// mismatch with the loaded registry) is rebuilt and overwritten.
	IndexPath string
}

// Load fetches all identity records from the store and validates them.
// A record with a malformed embedding (wrong length, empty) is skipped with
// a log line; the load only fails when nothing usable remains.
func Load(ctx context.Context, store Store, opts LoadOptions) (*Registry, error) {
	dim := opts.Dim
	if dim == 0 {
		dim = constants.EmbeddingDim
	}
	threshold := opts.IndexThreshold
	if threshold == 0 {
		threshold = constants.HNSWRegistryThreshold
	}

	raw, err := store.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning identity store: %w", err)
	}

	identities := make([]Identity, 0, len(raw))
	skipped := 0
	for _, rec := range raw {
		if len(rec.Embedding) != dim {
			log.Printf("registry: skipping %q: embedding length %d, want %d",
				rec.Label, len(rec.Embedding), dim)
			skipped++
			continue
		}
		identities = append(identities, Identity{
			Label:     rec.Label,
			Embedding: rec.Embedding,
		})
	}

	if len(identities) == 0 {
		if skipped > 0 {
			return nil, fmt.Errorf("%w: all %d records malformed", ErrNoIdentities, skipped)
		}
		return nil, ErrNoIdentities
	}
	if skipped > 0 {
		log.Printf("registry: loaded %d identities, skipped %d malformed records",
			len(identities), skipped)
	}

	reg := &Registry{identities: identities, dim: dim}
	if threshold >= 0 && len(identities) >= threshold {
		reg.index = loadOrBuildIndex(identities, opts.IndexPath)
	}
	return reg, nil
}

// loadOrBuildIndex restores a persisted index when it still matches the
// registry, otherwise rebuilds and re-persists it.
func loadOrBuildIndex(identities []Identity, path string) *Index {
	if path != "" {
		if ix, err := OpenIndex(path); err == nil && ix.Len() == len(identities) {
			return ix
		} else if err == nil {
			log.Printf("registry: HNSW index at %q is stale, rebuilding", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			log.Printf("registry: restoring HNSW index: %v", err)
		}
	}

	ix := NewIndex(identities)
	if path != "" {
		if err := ix.Save(path); err != nil {
			log.Printf("registry: persisting HNSW index: %v", err)
		}
	}
	return ix
}
