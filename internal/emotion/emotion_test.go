package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"

	"emoscan/internal/config"
)

// fakeProvider returns a fixed result or error.
type fakeProvider struct {
	result Result
	err    error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Classify(ctx context.Context, jpegData []byte) (Result, error) {
	return f.result, f.err
}

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatalf("failed to encode test JPEG: %v", err)
	}
	return buf.Bytes()
}

func TestClassifierHappyPath(t *testing.T) {
	c := NewClassifier(&fakeProvider{
		result: Result{Label: "happy", Confidence: 0.92},
	}, config.LoadEmotions())

	got := c.Classify(context.Background(), testJPEG(t, 64, 64), 64, 64)
	if !got.Ok {
		t.Fatal("expected Ok result")
	}
	if got.Label != "happy" || got.Confidence != 0.92 {
		t.Errorf("Classify() = %+v, want happy/0.92", got)
	}
}

func TestClassifierDegradesToNeutral(t *testing.T) {
	emotions := config.LoadEmotions()
	crop := testJPEG(t, 64, 64)

	tests := []struct {
		name     string
		provider Provider
		data     []byte
		w, h     int
	}{
		{
			name:     "provider error",
			provider: &fakeProvider{err: errors.New("model exploded")},
			data:     crop, w: 64, h: 64,
		},
		{
			name:     "zero-size crop",
			provider: &fakeProvider{result: Result{Label: "happy", Confidence: 0.9}},
			data:     nil, w: 0, h: 0,
		},
		{
			name:     "undersized crop",
			provider: &fakeProvider{result: Result{Label: "happy", Confidence: 0.9}},
			data:     crop, w: 4, h: 4,
		},
		{
			name:     "label outside configured set",
			provider: &fakeProvider{result: Result{Label: "smug", Confidence: 0.9}},
			data:     crop, w: 64, h: 64,
		},
		{
			name:     "confidence out of range",
			provider: &fakeProvider{result: Result{Label: "happy", Confidence: 1.7}},
			data:     crop, w: 64, h: 64,
		},
		{
			name:     "nil provider",
			provider: nil,
			data:     crop, w: 64, h: 64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(tt.provider, emotions)
			got := c.Classify(context.Background(), tt.data, tt.w, tt.h)
			if got.Ok {
				t.Errorf("expected fallback, got %+v", got)
			}
			if got.Label != NeutralLabel {
				t.Errorf("Label = %q, want %q", got.Label, NeutralLabel)
			}
			if got.Confidence != 0 {
				t.Errorf("Confidence = %v, want 0", got.Confidence)
			}
		})
	}
}

func TestFERProviderClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			http.NotFound(w, r)
			return
		}
		var req ferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Image == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(ferResponse{
			Emotions: map[string]float64{
				"happy":   0.81,
				"neutral": 0.12,
				"sad":     0.07,
			},
		})
	}))
	defer server.Close()

	p := NewFERProvider(server.URL)
	got, err := p.Classify(context.Background(), testJPEG(t, 32, 32))
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got.Label != "happy" {
		t.Errorf("Label = %q, want happy", got.Label)
	}
	if got.Confidence != 0.81 {
		t.Errorf("Confidence = %v, want 0.81", got.Confidence)
	}
}

func TestFERProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "http error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
		{
			name: "service-level error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(ferResponse{Error: "region too small"})
			},
		},
		{
			name: "empty scores",
			handler: func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(ferResponse{})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			p := NewFERProvider(server.URL)
			if _, err := p.Classify(context.Background(), testJPEG(t, 32, 32)); err == nil {
				t.Error("expected error from provider")
			}
		})
	}
}

func TestTopEmotion(t *testing.T) {
	got := topEmotion(map[string]float64{"sad": 0.3, "happy": 0.6, "angry": 0.1})
	if got.Label != "happy" {
		t.Errorf("topEmotion() = %q, want happy", got.Label)
	}

	// Exact ties break alphabetically for determinism.
	tie := topEmotion(map[string]float64{"sad": 0.5, "happy": 0.5})
	if tie.Label != "happy" {
		t.Errorf("tie topEmotion() = %q, want happy", tie.Label)
	}
}

func TestResizeImage(t *testing.T) {
	big := testJPEG(t, 800, 400)

	resized, err := ResizeImage(big, 320)
	if err != nil {
		t.Fatalf("ResizeImage() error = %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(resized))
	if err != nil {
		t.Fatalf("failed to decode resized image: %v", err)
	}
	if img.Bounds().Dx() != 320 {
		t.Errorf("resized width = %d, want 320", img.Bounds().Dx())
	}
	if img.Bounds().Dy() != 160 {
		t.Errorf("resized height = %d, want 160", img.Bounds().Dy())
	}
}
