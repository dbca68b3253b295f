package emotion

import (
	"context"
	"log"

	"emoscan/internal/config"
	"emoscan/internal/constants"
)

// Classifier wraps a Provider and absorbs its failures. Per the error
// policy, a classification failure on one face must never abort frame
// processing, so every error path returns Neutral.
type Classifier struct {
	provider Provider
	emotions config.EmotionsConfig
}

// NewClassifier creates a classifier around a provider.
func NewClassifier(provider Provider, emotions config.EmotionsConfig) *Classifier {
	return &Classifier{provider: provider, emotions: emotions}
}

// Classify returns the dominant emotion for a JPEG face crop of the given
// pixel dimensions. Undersized crops, provider errors, and labels outside
// the configured emotion set all degrade to Neutral.
func (c *Classifier) Classify(ctx context.Context, jpegData []byte, width, height int) Result {
	if c.provider == nil {
		return Neutral()
	}
	if width < constants.MinCropSize || height < constants.MinCropSize {
		return Neutral()
	}
	if len(jpegData) == 0 {
		return Neutral()
	}

	result, err := c.provider.Classify(ctx, jpegData)
	if err != nil {
		log.Printf("emotion: %s classification failed: %v", c.provider.Name(), err)
		return Neutral()
	}

	if !c.emotions.ValidLabel(result.Label) {
		log.Printf("emotion: %s returned unknown label %q", c.provider.Name(), result.Label)
		return Neutral()
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return Neutral()
	}

	result.Ok = true
	return result
}
