package annotate

import (
	"image"
	"testing"

	"emoscan/internal/emotion"
)

func TestFormatEmotion(t *testing.T) {
	tests := []struct {
		name     string
		result   emotion.Result
		expected string
	}{
		{
			name:     "classified emotion keeps lowercase label",
			result:   emotion.Result{Label: "happy", Confidence: 0.92, Ok: true},
			expected: "happy (0.92)",
		},
		{
			name:     "fallback is capitalized Neutral",
			result:   emotion.Neutral(),
			expected: "Neutral",
		},
		{
			name:     "low confidence still shown when classified",
			result:   emotion.Result{Label: "sad", Confidence: 0.05, Ok: true},
			expected: "sad (0.05)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatEmotion(tt.result); got != tt.expected {
				t.Errorf("FormatEmotion() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestClampRect(t *testing.T) {
	tests := []struct {
		name     string
		rect     image.Rectangle
		w, h     int
		expected image.Rectangle
	}{
		{
			name:     "inside frame unchanged",
			rect:     image.Rect(10, 10, 50, 50),
			w:        100, h: 100,
			expected: image.Rect(10, 10, 50, 50),
		},
		{
			name:     "negative origin clipped",
			rect:     image.Rect(-20, -10, 50, 50),
			w:        100, h: 100,
			expected: image.Rect(0, 0, 50, 50),
		},
		{
			name:     "overflow clipped",
			rect:     image.Rect(80, 90, 150, 160),
			w:        100, h: 100,
			expected: image.Rect(80, 90, 100, 100),
		},
		{
			name: "fully outside is empty",
			rect: image.Rect(200, 200, 300, 300),
			w:    100, h: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampRect(tt.rect, tt.w, tt.h)
			if tt.expected.Empty() {
				if !got.Empty() {
					t.Errorf("ClampRect() = %v, want empty", got)
				}
				return
			}
			if got != tt.expected {
				t.Errorf("ClampRect() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLabelAnchor(t *testing.T) {
	// Normal box: label above.
	p := LabelAnchor(image.Rect(40, 100, 80, 160))
	if p != image.Pt(40, 90) {
		t.Errorf("LabelAnchor() = %v, want (40,90)", p)
	}

	// Box touching the top edge: label moves inside the box.
	p = LabelAnchor(image.Rect(40, 2, 80, 60))
	if p != image.Pt(40, 22) {
		t.Errorf("LabelAnchor() near top = %v, want (40,22)", p)
	}
}

func TestEmotionAnchor(t *testing.T) {
	// Normal box: emotion below.
	p := EmotionAnchor(image.Rect(40, 100, 80, 160), 480)
	if p != image.Pt(40, 185) {
		t.Errorf("EmotionAnchor() = %v, want (40,185)", p)
	}

	// Box touching the bottom edge: emotion moves inside the box.
	p = EmotionAnchor(image.Rect(40, 400, 80, 478), 480)
	if p != image.Pt(40, 468) {
		t.Errorf("EmotionAnchor() near bottom = %v, want (40,468)", p)
	}
}
