// Package processor ties the pieces of a single video run together: fetch
// the input blob, load the identity registry, stream frames through the
// annotation pipeline and publish the annotated output.
package processor

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"emoscan/internal/annotate"
	"emoscan/internal/config"
	"emoscan/internal/constants"
	"emoscan/internal/detect"
	"emoscan/internal/emotion"
	"emoscan/internal/match"
	"emoscan/internal/pipeline"
	"emoscan/internal/registry"
	"emoscan/internal/storage"
	"emoscan/internal/video"
)

// Blobs is the slice of the storage layer the processor needs.
type Blobs interface {
	Download(ctx context.Context, src storage.Locator, destPath string) error
	Upload(ctx context.Context, srcPath string, dst storage.Locator) error
}

// Request describes one video run.
type Request struct {
	// Input locates the source video ("s3://bucket/key" or a local path).
	Input string
	// Output locates the annotated result. Empty derives a sibling of the
	// input named "<stem>_annotated_<uuid>.mp4".
	Output string
	// Tolerance overrides the configured match tolerance when positive.
	Tolerance float64
	// MaxFrames caps the run when positive.
	MaxFrames int
	// Progress, when set, receives the running frame count.
	Progress func(frames int)
}

// Result is the externally visible outcome of a run.
type Result struct {
	Status          string `json:"status"`
	FramesProcessed int    `json:"frames_processed"`
	FacesDetected   int    `json:"faces_detected,omitempty"`
	OutputLocator   string `json:"output_locator,omitempty"`
	Error           string `json:"error,omitempty"`
}

// Processor runs videos through the annotation pipeline. All collaborators
// are injected; one Processor serves any number of sequential runs.
type Processor struct {
	blobs      Blobs
	identities registry.Store
	detector   detect.Detector
	classifier *emotion.Classifier
	emotions   config.EmotionsConfig
	tolerance  float64
	tempDir    string
	indexPath  string
}

// New builds a processor. An empty tempDir falls back to the system temp
// directory.
func New(blobs Blobs, identities registry.Store, detector detect.Detector, classifier *emotion.Classifier, cfg *config.Config) *Processor {
	tempDir := cfg.Storage.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Processor{
		blobs:      blobs,
		identities: identities,
		detector:   detector,
		classifier: classifier,
		emotions:   cfg.Emotions,
		tolerance:  cfg.Match.Tolerance,
		tempDir:    tempDir,
		indexPath:  cfg.Database.HNSWIndexPath,
	}
}

// Process runs one video end to end. The returned Result always carries the
// partial frame count; the error mirrors Result.Error for callers that
// prefer control flow over inspection.
func (p *Processor) Process(ctx context.Context, req Request) (Result, error) {
	input, err := storage.ParseLocator(req.Input)
	if err != nil {
		return fail(0, fmt.Errorf("input locator: %w", err))
	}

	output, err := p.outputLocator(input, req.Output)
	if err != nil {
		return fail(0, err)
	}

	reg, err := p.loadRegistry(ctx)
	if err != nil {
		return fail(0, err)
	}

	scratchIn := filepath.Join(p.tempDir, uuid.NewString()+filepath.Ext(input.Key))
	if err := p.blobs.Download(ctx, input, scratchIn); err != nil {
		return fail(0, fmt.Errorf("fetching input: %w", err))
	}
	defer removeQuietly(scratchIn)

	source, err := video.OpenFileSource(scratchIn)
	if err != nil {
		return fail(0, err)
	}

	scratchOut := filepath.Join(p.tempDir, uuid.NewString()+".mp4")
	sink, err := video.OpenFileSink(scratchOut, source.Meta())
	if err != nil {
		source.Close()
		return fail(0, err)
	}
	defer removeQuietly(scratchOut)

	tolerance := p.tolerance
	if req.Tolerance > 0 {
		tolerance = req.Tolerance
	}
	annotator := annotate.New(p.detector, match.New(reg, tolerance), p.classifier, p.emotions)

	run := pipeline.New(source, sink, annotator, pipeline.Options{
		MaxFrames: req.MaxFrames,
		Progress:  req.Progress,
	}).Run(ctx)
	if run.Status != pipeline.StatusCompleted {
		return fail(run.FramesProcessed, run.Err)
	}

	if err := p.blobs.Upload(ctx, scratchOut, output); err != nil {
		return fail(run.FramesProcessed, fmt.Errorf("publishing output: %w", err))
	}

	log.Printf("processor: %s annotated into %s (%d frames, %d faces)",
		input, output, run.FramesProcessed, run.FacesDetected)

	return Result{
		Status:          "success",
		FramesProcessed: run.FramesProcessed,
		FacesDetected:   run.FacesDetected,
		OutputLocator:   output.String(),
	}, nil
}

// outputLocator resolves the output target, deriving a sibling key when the
// request leaves it empty.
func (p *Processor) outputLocator(input storage.Locator, raw string) (storage.Locator, error) {
	if raw != "" {
		loc, err := storage.ParseLocator(raw)
		if err != nil {
			return storage.Locator{}, fmt.Errorf("output locator: %w", err)
		}
		return loc, nil
	}
	key := fmt.Sprintf("%s_annotated_%s.mp4", input.Stem(), uuid.NewString())
	return input.Sibling(key), nil
}

func (p *Processor) loadRegistry(ctx context.Context) (*registry.Registry, error) {
	reg, err := registry.Load(ctx, p.identities, registry.LoadOptions{
		Dim:       constants.EmbeddingDim,
		IndexPath: p.indexPath,
	})
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	return reg, nil
}

func fail(frames int, err error) (Result, error) {
	return Result{
		Status:          "error",
		FramesProcessed: frames,
		Error:           err.Error(),
	}, err
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("processor: removing %q: %v", path, err)
	}
}
