package detect

import (
	"fmt"
	"os"

	"github.com/Kagami/go-face"
)

// GoFaceDetector wraps the dlib recognizer from go-face. The models
// directory must contain shape_predictor_5_face_landmarks.dat,
// dlib_face_recognition_resnet_model_v1.dat and mmod_human_face_detector.dat.
type GoFaceDetector struct {
	rec *face.Recognizer
}

// NewGoFaceDetector initializes the dlib recognizer from a models directory.
func NewGoFaceDetector(modelsDir string) (*GoFaceDetector, error) {
	if _, err := os.Stat(modelsDir); err != nil {
		return nil, fmt.Errorf("face models directory %q: %w", modelsDir, err)
	}

	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("initializing face recognizer: %w", err)
	}
	return &GoFaceDetector{rec: rec}, nil
}

// Detect returns every face in a JPEG frame with its 128-d descriptor.
func (d *GoFaceDetector) Detect(jpegData []byte) ([]Face, error) {
	found, err := d.rec.Recognize(jpegData)
	if err != nil {
		return nil, fmt.Errorf("recognizing faces: %w", err)
	}

	faces := make([]Face, 0, len(found))
	for _, f := range found {
		emb := make([]float32, len(f.Descriptor))
		copy(emb, f.Descriptor[:])
		faces = append(faces, Face{
			Rect:      f.Rectangle,
			Embedding: emb,
		})
	}
	return faces, nil
}

// DetectSingle returns the embedding of exactly one face in the image.
// Used by identity enrollment, where an image with zero or multiple faces
// is a caller error.
func (d *GoFaceDetector) DetectSingle(jpegData []byte) (Face, error) {
	faces, err := d.Detect(jpegData)
	if err != nil {
		return Face{}, err
	}
	switch len(faces) {
	case 0:
		return Face{}, ErrNoFace
	case 1:
		return faces[0], nil
	default:
		return Face{}, fmt.Errorf("%w: found %d", ErrMultipleFaces, len(faces))
	}
}

// Close releases the dlib recognizer.
func (d *GoFaceDetector) Close() error {
	d.rec.Close()
	return nil
}
