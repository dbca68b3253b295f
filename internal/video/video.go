// Package video adapts OpenCV video I/O to the pipeline's source/sink
// contract: an ordered, finite frame sequence in, a same-resolution
// container out.
package video

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Metadata describes a frame sequence.
type Metadata struct {
	Width  int
	Height int
	FPS    float64
}

// Source is an ordered, finite sequence of decoded frames.
type Source interface {
	// Next reads the next frame into dst. Returns false when the source is
	// exhausted (normal end, not an error).
	Next(dst *gocv.Mat) bool
	// Meta returns the source's dimensions and frame rate.
	Meta() Metadata
	// Close releases the source handle.
	Close() error
}

// Sink accepts frames in source order and multiplexes them into an output
// container.
type Sink interface {
	Write(frame gocv.Mat) error
	Close() error
}

// FileSource reads frames from a video file.
type FileSource struct {
	capture *gocv.VideoCapture
	meta    Metadata
}

// OpenFileSource opens a video file for sequential reading.
func OpenFileSource(path string) (*FileSource, error) {
	capture, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, fmt.Errorf("opening video %q: %w", path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("opening video %q: not a readable video", path)
	}

	meta := Metadata{
		Width:  int(capture.Get(gocv.VideoCaptureFrameWidth)),
		Height: int(capture.Get(gocv.VideoCaptureFrameHeight)),
		FPS:    capture.Get(gocv.VideoCaptureFPS),
	}
	if meta.Width <= 0 || meta.Height <= 0 {
		capture.Close()
		return nil, fmt.Errorf("opening video %q: invalid dimensions %dx%d", path, meta.Width, meta.Height)
	}
	if meta.FPS <= 0 {
		// Some containers report no frame rate. Fall back so the writer
		// still produces a playable file.
		meta.FPS = 25
	}

	return &FileSource{capture: capture, meta: meta}, nil
}

// Next reads the next frame. Empty frames terminate the sequence.
func (s *FileSource) Next(dst *gocv.Mat) bool {
	if ok := s.capture.Read(dst); !ok {
		return false
	}
	return !dst.Empty()
}

// Meta returns the video's dimensions and frame rate.
func (s *FileSource) Meta() Metadata {
	return s.meta
}

// Close releases the capture handle.
func (s *FileSource) Close() error {
	return s.capture.Close()
}

// FileSink writes frames to an mp4 file at the source's resolution and rate.
type FileSink struct {
	writer *gocv.VideoWriter
}

// OpenFileSink creates a video writer for the given metadata.
func OpenFileSink(path string, meta Metadata) (*FileSink, error) {
	if meta.Width <= 0 || meta.Height <= 0 || meta.FPS <= 0 {
		return nil, errors.New("sink requires positive dimensions and frame rate")
	}

	writer, err := gocv.VideoWriterFile(path, "mp4v", meta.FPS, meta.Width, meta.Height, true)
	if err != nil {
		return nil, fmt.Errorf("creating video writer %q: %w", path, err)
	}
	if !writer.IsOpened() {
		writer.Close()
		return nil, fmt.Errorf("creating video writer %q: writer did not open", path)
	}

	return &FileSink{writer: writer}, nil
}

// Write appends one frame to the output container.
func (s *FileSink) Write(frame gocv.Mat) error {
	if err := s.writer.Write(frame); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// Close finalizes the container.
func (s *FileSink) Close() error {
	return s.writer.Close()
}
