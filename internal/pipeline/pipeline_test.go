package pipeline

import (
	"context"
	"errors"
	"testing"

	"gocv.io/x/gocv"

	"emoscan/internal/annotate"
	"emoscan/internal/video"
)

type fakeSource struct {
	frames int
	read   int
	closed int
}

func (s *fakeSource) Next(dst *gocv.Mat) bool {
	if s.read >= s.frames {
		return false
	}
	s.read++
	return true
}

func (s *fakeSource) Meta() video.Metadata {
	return video.Metadata{Width: 640, Height: 480, FPS: 25}
}

func (s *fakeSource) Close() error {
	s.closed++
	return nil
}

type fakeSink struct {
	writes   int
	failAt   int // write index that fails, -1 for never
	closed   int
	closeErr error
}

func (s *fakeSink) Write(frame gocv.Mat) error {
	if s.failAt >= 0 && s.writes == s.failAt {
		return errors.New("container full")
	}
	s.writes++
	return nil
}

func (s *fakeSink) Close() error {
	s.closed++
	return s.closeErr
}

type fakeAnnotator struct {
	calls int
}

func (a *fakeAnnotator) Annotate(ctx context.Context, frame *gocv.Mat) annotate.Outcome {
	a.calls++
	return annotate.Outcome{Faces: 1, Annotated: true}
}

func TestRunCompleted(t *testing.T) {
	source := &fakeSource{frames: 5}
	sink := &fakeSink{failAt: -1}
	ann := &fakeAnnotator{}

	res := New(source, sink, ann, Options{}).Run(context.Background())

	if res.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s (err: %v)", res.Status, StatusCompleted, res.Err)
	}
	if res.FramesProcessed != 5 {
		t.Errorf("FramesProcessed = %d, want 5", res.FramesProcessed)
	}
	if res.FacesDetected != 5 {
		t.Errorf("FacesDetected = %d, want 5", res.FacesDetected)
	}
	if ann.calls != 5 {
		t.Errorf("annotator calls = %d, want 5", ann.calls)
	}
	if sink.writes != 5 {
		t.Errorf("sink writes = %d, want 5", sink.writes)
	}
	if source.closed != 1 || sink.closed != 1 {
		t.Errorf("closed source %d times, sink %d times, want 1 each", source.closed, sink.closed)
	}
}

func TestRunEmptySource(t *testing.T) {
	source := &fakeSource{frames: 0}
	sink := &fakeSink{failAt: -1}

	res := New(source, sink, &fakeAnnotator{}, Options{}).Run(context.Background())

	if res.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s", res.Status, StatusCompleted)
	}
	if res.FramesProcessed != 0 {
		t.Errorf("FramesProcessed = %d, want 0", res.FramesProcessed)
	}
}

func TestRunSinkWriteFailure(t *testing.T) {
	source := &fakeSource{frames: 10}
	sink := &fakeSink{failAt: 3}

	res := New(source, sink, &fakeAnnotator{}, Options{}).Run(context.Background())

	if res.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", res.Status, StatusFailed)
	}
	if res.Err == nil {
		t.Fatal("expected an error")
	}
	if res.FramesProcessed != 3 {
		t.Errorf("FramesProcessed = %d, want 3 (partial count)", res.FramesProcessed)
	}
	if source.closed != 1 || sink.closed != 1 {
		t.Errorf("closed source %d times, sink %d times, want 1 each", source.closed, sink.closed)
	}
}

func TestRunCancellation(t *testing.T) {
	source := &fakeSource{frames: 10}
	sink := &fakeSink{failAt: -1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := New(source, sink, &fakeAnnotator{}, Options{}).Run(ctx)

	if res.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", res.Status, StatusFailed)
	}
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("err = %v, want wrapped context.Canceled", res.Err)
	}
	if res.FramesProcessed != 0 {
		t.Errorf("FramesProcessed = %d, want 0", res.FramesProcessed)
	}
	if source.closed != 1 || sink.closed != 1 {
		t.Errorf("closed source %d times, sink %d times, want 1 each", source.closed, sink.closed)
	}
}

func TestRunFrameCap(t *testing.T) {
	source := &fakeSource{frames: 10}
	sink := &fakeSink{failAt: -1}

	res := New(source, sink, &fakeAnnotator{}, Options{MaxFrames: 3}).Run(context.Background())

	if res.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", res.Status, StatusFailed)
	}
	if res.FramesProcessed != 3 {
		t.Errorf("FramesProcessed = %d, want 3", res.FramesProcessed)
	}
}

func TestRunFinalizeFailure(t *testing.T) {
	source := &fakeSource{frames: 2}
	sink := &fakeSink{failAt: -1, closeErr: errors.New("truncated container")}

	res := New(source, sink, &fakeAnnotator{}, Options{}).Run(context.Background())

	if res.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", res.Status, StatusFailed)
	}
	if res.Err == nil {
		t.Fatal("expected an error")
	}
	if res.FramesProcessed != 2 {
		t.Errorf("FramesProcessed = %d, want 2", res.FramesProcessed)
	}
}

func TestRunProgressHook(t *testing.T) {
	source := &fakeSource{frames: 4}
	sink := &fakeSink{failAt: -1}

	var seen []int
	opts := Options{Progress: func(frames int) { seen = append(seen, frames) }}
	res := New(source, sink, &fakeAnnotator{}, opts).Run(context.Background())

	if res.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s", res.Status, StatusCompleted)
	}
	want := []int{1, 2, 3, 4}
	if len(seen) != len(want) {
		t.Fatalf("progress calls = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("progress[%d] = %d, want %d", i, seen[i], want[i])
		}
	}
}
