// Package detect finds faces and computes their embeddings. Detection and
// embedding are delegated to dlib via go-face; this package only adapts the
// result shape the annotator consumes.
package detect

import (
	"image"
)

// Face is one detected face: its bounding box in pixel coordinates and the
// embedding used for identity matching.
type Face struct {
	Rect      image.Rectangle
	Embedding []float32
}

// Detector finds faces in a JPEG-encoded frame.
type Detector interface {
	// Detect returns every face in the frame with its embedding.
	Detect(jpegData []byte) ([]Face, error)
	// Close releases detector resources.
	Close() error
}
