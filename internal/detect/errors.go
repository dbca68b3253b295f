package detect

import "errors"

// Enrollment errors.
var (
	ErrNoFace        = errors.New("no face detected in image")
	ErrMultipleFaces = errors.New("multiple faces detected, expected one")
)
