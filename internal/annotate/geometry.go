package annotate

import "image"

// ClampRect intersects a detection rectangle with the frame bounds.
// Detectors can report boxes partially outside the frame; cropping needs a
// rectangle fully inside it.
func ClampRect(r image.Rectangle, width, height int) image.Rectangle {
	return r.Intersect(image.Rect(0, 0, width, height))
}

// LabelAnchor returns the baseline point for the identity text, kept inside
// the frame when the box touches the top edge.
func LabelAnchor(r image.Rectangle) image.Point {
	y := r.Min.Y - 10
	if y < 15 {
		y = r.Min.Y + 20
	}
	return image.Pt(r.Min.X, y)
}

// EmotionAnchor returns the baseline point for the emotion text below the
// box, kept inside the frame when the box touches the bottom edge.
func EmotionAnchor(r image.Rectangle, height int) image.Point {
	y := r.Max.Y + 25
	if y > height-5 {
		y = r.Max.Y - 10
	}
	return image.Pt(r.Min.X, y)
}
