// Package pipeline drives an ordered frame sequence through annotation and
// into an output sink, tracking a small run state machine so callers can
// report exactly how far a run got.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"gocv.io/x/gocv"

	"emoscan/internal/annotate"
	"emoscan/internal/constants"
	"emoscan/internal/video"
)

// Status is the lifecycle state of a pipeline run.
type Status string

const (
	StatusInitializing Status = "initializing"
	StatusStreaming    Status = "streaming"
	StatusFinalizing   Status = "finalizing"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

// Annotator processes a single decoded frame in place.
type Annotator interface {
	Annotate(ctx context.Context, frame *gocv.Mat) annotate.Outcome
}

// Result describes a finished run. FramesProcessed counts frames actually
// written to the sink, so a failed run still reports its partial progress.
type Result struct {
	Status          Status
	FramesProcessed int
	FacesDetected   int
	OutputLocator   string
	Err             error
}

// Options tunes a single run.
type Options struct {
	// MaxFrames aborts the run once this many frames have been written.
	// Zero means unbounded.
	MaxFrames int
	// Progress, when set, is called after every written frame with the
	// running frame count.
	Progress func(frames int)
}

// Pipeline streams frames from a source through an annotator into a sink.
// It owns both handles for the duration of Run and releases them on every
// exit path.
type Pipeline struct {
	source    video.Source
	sink      video.Sink
	annotator Annotator
	opts      Options
}

// New builds a pipeline over an open source and sink.
func New(source video.Source, sink video.Sink, annotator Annotator, opts Options) *Pipeline {
	return &Pipeline{
		source:    source,
		sink:      sink,
		annotator: annotator,
		opts:      opts,
	}
}

// Run consumes the source to exhaustion, annotating and writing every frame
// in order. Annotation failures degrade per frame inside the annotator and
// never abort the run; a sink write failure, cancellation, or the frame cap
// aborts with partial results. Source and sink are closed before Run
// returns, whatever the outcome.
func (p *Pipeline) Run(ctx context.Context) Result {
	res := Result{Status: StatusInitializing}

	defer func() {
		if err := p.source.Close(); err != nil {
			log.Printf("pipeline: closing source: %v", err)
		}
	}()

	frame := gocv.NewMat()
	defer frame.Close()

	res.Status = StatusStreaming
	for p.source.Next(&frame) {
		if err := ctx.Err(); err != nil {
			return p.fail(res, fmt.Errorf("streaming interrupted: %w", err))
		}
		if p.opts.MaxFrames > 0 && res.FramesProcessed >= p.opts.MaxFrames {
			return p.fail(res, fmt.Errorf("frame cap of %d reached", p.opts.MaxFrames))
		}

		outcome := p.annotator.Annotate(ctx, &frame)
		res.FacesDetected += outcome.Faces

		if err := p.sink.Write(frame); err != nil {
			return p.fail(res, fmt.Errorf("writing frame %d: %w", res.FramesProcessed, err))
		}
		res.FramesProcessed++

		if p.opts.Progress != nil {
			p.opts.Progress(res.FramesProcessed)
		}
		if res.FramesProcessed%constants.ProgressLogInterval == 0 {
			log.Printf("pipeline: processed %d frames", res.FramesProcessed)
		}
	}

	res.Status = StatusFinalizing
	if err := p.sink.Close(); err != nil {
		res.Status = StatusFailed
		res.Err = fmt.Errorf("finalizing output: %w", err)
		return res
	}

	res.Status = StatusCompleted
	return res
}

// fail closes the sink and marks the result failed, keeping the partial
// frame count intact.
func (p *Pipeline) fail(res Result, err error) Result {
	if cerr := p.sink.Close(); cerr != nil {
		log.Printf("pipeline: closing sink after failure: %v", cerr)
	}
	res.Status = StatusFailed
	res.Err = err
	return res
}
