package cmd

import (
	"context"
	"errors"
	"fmt"

	"emoscan/internal/config"
	"emoscan/internal/detect"
	"emoscan/internal/emotion"
	"emoscan/internal/processor"
	"emoscan/internal/registry/postgres"
	"emoscan/internal/storage"
)

// openIdentityStore connects to PostgreSQL, runs migrations and returns the
// identity store. The caller owns the pool and must close it.
func openIdentityStore(ctx context.Context, cfg *config.Config) (*postgres.Pool, *postgres.IdentityStore, error) {
	if cfg.Database.URL == "" {
		return nil, nil, errors.New("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
	}
	if err := pool.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	return pool, postgres.NewIdentityStore(pool), nil
}

// buildEmotionClassifier wires the configured emotion provider into a
// classifier. The FER-style HTTP service is the default.
func buildEmotionClassifier(ctx context.Context, cfg *config.Config) (*emotion.Classifier, error) {
	var provider emotion.Provider
	switch cfg.Emotion.Provider {
	case "", "fer":
		provider = emotion.NewFERProvider(cfg.Emotion.FERURL)
	case "openai":
		if cfg.Emotion.OpenAIToken == "" {
			return nil, errors.New("OPENAI_TOKEN environment variable is required for the openai provider")
		}
		provider = emotion.NewOpenAIProvider(cfg.Emotion.OpenAIToken)
	case "gemini":
		if cfg.Emotion.GeminiKey == "" {
			return nil, errors.New("GEMINI_API_KEY environment variable is required for the gemini provider")
		}
		p, err := emotion.NewGeminiProvider(ctx, cfg.Emotion.GeminiKey)
		if err != nil {
			return nil, fmt.Errorf("creating gemini provider: %w", err)
		}
		provider = p
	default:
		return nil, fmt.Errorf("unknown emotion provider %q", cfg.Emotion.Provider)
	}

	return emotion.NewClassifier(provider, cfg.Emotions), nil
}

// buildProcessor assembles a processor and its collaborators from config.
// The returned cleanup releases the database pool and detector models.
func buildProcessor(ctx context.Context, cfg *config.Config) (*processor.Processor, *postgres.IdentityStore, *detect.GoFaceDetector, func(), error) {
	pool, identities, err := openIdentityStore(ctx, cfg)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	detector, err := detect.NewGoFaceDetector(cfg.Detect.ModelsDir)
	if err != nil {
		pool.Close()
		return nil, nil, nil, nil, fmt.Errorf("loading face models: %w", err)
	}

	classifier, err := buildEmotionClassifier(ctx, cfg)
	if err != nil {
		detector.Close()
		pool.Close()
		return nil, nil, nil, nil, err
	}

	blobs := storage.NewRouter(cfg.Storage.Region, cfg.Storage.Endpoint)
	proc := processor.New(blobs, identities, detector, classifier, cfg)

	cleanup := func() {
		detector.Close()
		pool.Close()
	}
	return proc, identities, detector, cleanup, nil
}
