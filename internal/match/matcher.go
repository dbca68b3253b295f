// Package match resolves detected-face embeddings against the identity
// registry.
package match

import (
	"math"

	"emoscan/internal/constants"
	"emoscan/internal/registry"
)

// UnknownLabel is reported when no registered identity is within tolerance.
const UnknownLabel = "Unknown"

// hnswCandidates is how many nearest neighbors the index is asked for.
// Distances are recomputed exactly, so a handful is enough.
const hnswCandidates = 8

// Match is the result of resolving one embedding against the registry.
type Match struct {
	Label    string
	Distance float64
	Known    bool
}

// Matcher resolves embeddings against a loaded registry with a fixed
// tolerance. The registry is read-only for the matcher's lifetime.
type Matcher struct {
	registry  *registry.Registry
	tolerance float64
}

// New creates a matcher. A non-positive tolerance falls back to the default.
func New(reg *registry.Registry, tolerance float64) *Matcher {
	if tolerance <= 0 {
		tolerance = constants.DefaultTolerance
	}
	return &Matcher{registry: reg, tolerance: tolerance}
}

// Tolerance returns the acceptance threshold in distance units.
func (m *Matcher) Tolerance() float64 {
	return m.tolerance
}

// Resolve finds the registered identity closest to the query embedding.
// The minimum distance wins; a strict comparison keeps the first-encountered
// record on exact ties. If the minimum exceeds the tolerance, or the registry
// is empty, the result is Unknown.
func (m *Matcher) Resolve(query []float32) Match {
	if m.registry == nil || m.registry.Len() == 0 {
		return Match{Label: UnknownLabel, Distance: math.Inf(1)}
	}
	// A query of the wrong dimension can never match. The index would
	// reject it outright, so short-circuit before reaching it.
	if len(query) != m.registry.Dim() {
		return Match{Label: UnknownLabel, Distance: math.Inf(1)}
	}

	if ix := m.registry.Index(); ix != nil {
		return m.resolveIndexed(ix, query)
	}
	return m.resolveExhaustive(query)
}

func (m *Matcher) resolveExhaustive(query []float32) Match {
	identities := m.registry.Identities()

	best := -1
	bestDist := math.Inf(1)
	for i := range identities {
		d := EuclideanDistance(query, identities[i].Embedding)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}

	if best < 0 || bestDist > m.tolerance {
		return Match{Label: UnknownLabel, Distance: bestDist}
	}
	return Match{Label: identities[best].Label, Distance: bestDist, Known: true}
}

// resolveIndexed uses the HNSW index for candidate generation, then
// recomputes exact distances and applies the same first-wins tie-break as
// the exhaustive path (candidates are iterated in registry position order).
func (m *Matcher) resolveIndexed(ix *registry.Index, query []float32) Match {
	positions, embeddings := ix.Search(query, hnswCandidates)
	if len(positions) == 0 {
		return Match{Label: UnknownLabel, Distance: math.Inf(1)}
	}

	identities := m.registry.Identities()

	best := -1
	bestDist := math.Inf(1)
	for i, pos := range positions {
		d := EuclideanDistance(query, embeddings[i])
		if d < bestDist || (d == bestDist && best >= 0 && pos < positions[best]) {
			bestDist = d
			best = i
		}
	}

	if best < 0 || bestDist > m.tolerance {
		return Match{Label: UnknownLabel, Distance: bestDist}
	}
	pos := positions[best]
	if pos >= len(identities) {
		return Match{Label: UnknownLabel, Distance: bestDist}
	}
	return Match{Label: identities[pos].Label, Distance: bestDist, Known: true}
}

// EuclideanDistance computes the L2 distance between two embeddings.
// Mismatched or empty vectors yield +Inf so they can never match.
func EuclideanDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
