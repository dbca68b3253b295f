package registry

import (
	"fmt"
	"os"
	"sync"

	"github.com/coder/hnsw"
)

// hnswMaxNeighbors is the M parameter of the HNSW graph.
const hnswMaxNeighbors = 16

// Index wraps an HNSW graph over the registry's embeddings for fast
// nearest-identity search. Node keys are positions in the identity slice,
// so ties keep discovery order when distances are recomputed exactly.
type Index struct {
	graph *hnsw.Graph[int]
	mu    sync.RWMutex
}

// NewIndex builds an index from the loaded identities.
func NewIndex(identities []Identity) *Index {
	g := hnsw.NewGraph[int]()
	g.M = hnswMaxNeighbors
	g.Ml = 1.0 / float64(hnswMaxNeighbors) // Standard HNSW formula
	g.Distance = hnsw.EuclideanDistance

	for i, id := range identities {
		if len(id.Embedding) == 0 {
			continue
		}
		g.Add(hnsw.MakeNode(i, id.Embedding))
	}

	return &Index{graph: g}
}

// Search returns the positions and embeddings of the k nearest identities.
func (ix *Index) Search(query []float32, k int) ([]int, [][]float32) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	neighbors := ix.graph.Search(query, k)
	positions := make([]int, len(neighbors))
	embeddings := make([][]float32, len(neighbors))
	for i, n := range neighbors {
		positions[i] = n.Key
		embeddings[i] = n.Value
	}
	return positions, embeddings
}

// Len returns the number of indexed identities.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.graph.Len()
}

// OpenIndex restores a persisted graph. The caller must verify the index
// still matches the registry it was built from.
func OpenIndex(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening HNSW index file: %w", err)
	}
	defer f.Close()

	g := hnsw.NewGraph[int]()
	g.Distance = hnsw.EuclideanDistance
	if err := g.Import(f); err != nil {
		return nil, fmt.Errorf("importing HNSW graph: %w", err)
	}
	return &Index{graph: g}, nil
}

// Save persists the graph to disk so large registries skip the rebuild at
// startup.
func (ix *Index) Save(path string) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating HNSW index file: %w", err)
	}
	defer f.Close()

	if err := ix.graph.Export(f); err != nil {
		return fmt.Errorf("exporting HNSW graph: %w", err)
	}
	return nil
}
