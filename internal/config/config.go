package config

import (
	_ "embed"
	"os"
	"strconv"
)

//go:embed emotions.yaml
var emotionsYAML []byte

type Config struct {
	Storage  StorageConfig
	Database DatabaseConfig
	Emotion  EmotionConfig
	Match    MatchConfig
	Detect   DetectConfig
	Emotions EmotionsConfig
}

type StorageConfig struct {
	Region   string // AWS region for S3 locators (e.g. us-east-1)
	Endpoint string // Optional S3-compatible endpoint override (MinIO, localstack)
	TempDir  string // Working directory for downloaded/annotated videos (defaults to os.TempDir)
}

type DatabaseConfig struct {
	URL           string // PostgreSQL connection URL for the identity registry
	MaxOpenConns  int    // Maximum open connections (default 25)
	MaxIdleConns  int    // Maximum idle connections (default 5)
	HNSWIndexPath string // Path to persist the registry HNSW index (optional, rebuilt when empty)
}

type EmotionConfig struct {
	Provider    string // "fer" (default), "openai" or "gemini"
	FERURL      string // URL of the FER-style emotion HTTP service (defaults to http://localhost:8600)
	OpenAIToken string
	GeminiKey   string
}

type MatchConfig struct {
	Tolerance float64 // Maximum embedding distance for an identity match (default 0.6)
}

type DetectConfig struct {
	ModelsDir string // Directory holding the dlib model files for go-face (default "models")
}

// EmotionsConfig is the embedded emotion label set and overlay colors.
type EmotionsConfig struct {
	Labels []string         `yaml:"labels"`
	Colors map[string][]int `yaml:"colors"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a positive float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

func Load() *Config {
	return &Config{
		Storage: StorageConfig{
			Region:   os.Getenv("S3_REGION"),
			Endpoint: os.Getenv("S3_ENDPOINT"),
			TempDir:  os.Getenv("WORK_DIR"),
		},
		Database: DatabaseConfig{
			URL:           os.Getenv("DATABASE_URL"),
			MaxOpenConns:  envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns:  envInt("DATABASE_MAX_IDLE_CONNS", 5),
			HNSWIndexPath: os.Getenv("HNSW_INDEX_PATH"),
		},
		Emotion: EmotionConfig{
			Provider:    os.Getenv("EMOTION_PROVIDER"),
			FERURL:      os.Getenv("FER_URL"),
			OpenAIToken: os.Getenv("OPENAI_TOKEN"),
			GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		},
		Match: MatchConfig{
			Tolerance: envFloat("MATCH_TOLERANCE", 0.6),
		},
		Detect: DetectConfig{
			ModelsDir: envOr("FACE_MODELS_DIR", "models"),
		},
		Emotions: LoadEmotions(),
	}
}

func envOr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
