// Package annotate orchestrates per-frame face detection, identity
// matching, and emotion classification, and draws the results onto the
// frame. Annotation is best-effort: a frame that cannot be processed is
// passed through untouched.
package annotate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"

	"emoscan/internal/config"
	"emoscan/internal/detect"
	"emoscan/internal/emotion"
	"emoscan/internal/match"

	"gocv.io/x/gocv"
)

// Outcome summarizes one frame's annotation.
type Outcome struct {
	Faces     int
	Annotated bool
}

// Annotator draws identity and emotion overlays onto frames. It holds the
// read-only matcher for the run; no state is retained between frames.
type Annotator struct {
	detector   detect.Detector
	matcher    *match.Matcher
	classifier *emotion.Classifier

	knownColor   color.RGBA
	unknownColor color.RGBA
	emotionColor color.RGBA
}

// New creates an annotator for one pipeline run.
func New(detector detect.Detector, matcher *match.Matcher, classifier *emotion.Classifier, emotions config.EmotionsConfig) *Annotator {
	return &Annotator{
		detector:     detector,
		matcher:      matcher,
		classifier:   classifier,
		knownColor:   bgrToRGBA(emotions.Color("known")),
		unknownColor: bgrToRGBA(emotions.Color("unknown")),
		emotionColor: bgrToRGBA(emotions.Color("emotion")),
	}
}

// Annotate detects faces in the frame and draws overlays in place.
// Detection runs before any drawing, so a detection failure leaves the
// frame untouched and the pipeline continues.
func (a *Annotator) Annotate(ctx context.Context, frame *gocv.Mat) Outcome {
	jpegData, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		log.Printf("annotate: frame encode failed, passing through: %v", err)
		return Outcome{}
	}
	defer jpegData.Close()

	faces, err := a.detector.Detect(jpegData.GetBytes())
	if err != nil {
		log.Printf("annotate: detection failed, passing through: %v", err)
		return Outcome{}
	}

	for _, f := range faces {
		a.annotateFace(ctx, frame, f)
	}
	return Outcome{Faces: len(faces), Annotated: true}
}

// annotateFace resolves and draws one face. Failures here are per-face
// recoverable: the crop degrades to a neutral emotion and the overlay is
// still drawn.
func (a *Annotator) annotateFace(ctx context.Context, frame *gocv.Mat, f detect.Face) {
	rect := ClampRect(f.Rect, frame.Cols(), frame.Rows())
	if rect.Empty() {
		return
	}

	m := a.matcher.Resolve(f.Embedding)

	emo := emotion.Neutral()
	if crop, err := a.encodeCrop(frame, rect); err != nil {
		log.Printf("annotate: face crop failed: %v", err)
	} else {
		emo = a.classifier.Classify(ctx, crop, rect.Dx(), rect.Dy())
	}

	boxColor := a.unknownColor
	if m.Known {
		boxColor = a.knownColor
	}

	gocv.Rectangle(frame, rect, boxColor, 2)
	gocv.PutText(frame, m.Label, LabelAnchor(rect), gocv.FontHersheySimplex, 0.8, boxColor, 2)
	gocv.PutText(frame, FormatEmotion(emo), EmotionAnchor(rect, frame.Rows()), gocv.FontHersheySimplex, 0.8, a.emotionColor, 2)
}

// encodeCrop extracts the face region as a standalone JPEG.
func (a *Annotator) encodeCrop(frame *gocv.Mat, rect image.Rectangle) ([]byte, error) {
	region := frame.Region(rect)
	defer region.Close()

	// Region returns a view into the frame; clone for a contiguous buffer.
	crop := region.Clone()
	defer crop.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, crop)
	if err != nil {
		return nil, fmt.Errorf("encoding crop: %w", err)
	}
	defer buf.Close()

	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	return data, nil
}

// bgrToRGBA converts a configured BGR triple to the color type gocv draws
// with.
func bgrToRGBA(bgr [3]int) color.RGBA {
	return color.RGBA{
		B: uint8(bgr[0]),
		G: uint8(bgr[1]),
		R: uint8(bgr[2]),
		A: 255,
	}
}
