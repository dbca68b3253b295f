// Package constants provides shared constants used across the codebase.
// Centralizing these values ensures consistency and makes them easier to modify.
package constants

// Face matching constants
const (
	// EmbeddingDim is the length of a face descriptor produced by the
	// dlib recognition model wrapped by go-face.
	EmbeddingDim = 128

	// DefaultTolerance is the default maximum Euclidean distance between two
	// embeddings for them to be considered the same identity. Matches the
	// dlib convention.
	DefaultTolerance = 0.6

	// HNSWRegistryThreshold is the registry size above which the matcher
	// switches from exhaustive scan to the HNSW index.
	HNSWRegistryThreshold = 512
)

// Pipeline constants
const (
	// ProgressLogInterval is the number of frames between progress log lines.
	ProgressLogInterval = 100
)

// Emotion constants
const (
	// MinCropSize is the minimum face crop dimension (pixels) worth sending
	// to an emotion classifier. Smaller crops degrade to neutral.
	MinCropSize = 12

	// MaxCropSize is the maximum dimension a face crop is resized to before
	// a remote classification call.
	MaxCropSize = 320
)

// Web constants
const (
	// MaxUploadSize is the maximum accepted video upload size (2 GiB).
	MaxUploadSize = 2 << 30

	// EventChannelBuffer is the buffer size of per-listener job event channels.
	EventChannelBuffer = 64
)
