// Package emotion classifies the dominant emotion of a cropped face region.
// Classification is always best-effort: every provider failure degrades to a
// neutral result instead of propagating.
package emotion

import "context"

// NeutralLabel is the fallback emotion when classification fails or is not
// possible for a crop.
const NeutralLabel = "neutral"

// Result is the dominant emotion for one face crop.
type Result struct {
	Label      string
	Confidence float64
	// Ok is false when the result is a fallback rather than a real
	// classifier answer.
	Ok bool
}

// Neutral returns the fallback result.
func Neutral() Result {
	return Result{Label: NeutralLabel}
}

// Provider defines the interface for emotion classification backends.
type Provider interface {
	Name() string
	// Classify returns the dominant emotion of a JPEG-encoded face crop.
	Classify(ctx context.Context, jpegData []byte) (Result, error)
}
