// ABOUTME: Centralized configuration for the talksearch pipeline
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
)

// Backend names for corpus persistence.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the talksearch system
type Config struct {
	// OpenAI settings
	OpenAIKey      string
	EmbeddingModel string
	STTModel       string
	Timeout        time.Duration

	// STT settings
	Language      string
	Task          string
	STTMaxRetries int
	STTRetryDelay time.Duration

	// Corpus settings
	DataDir         string
	CorpusBackend   string
	PostgresURL     string
	VectorDimension int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		EmbeddingModel:  getEnv("TALKSEARCH_EMBEDDING_MODEL", "text-embedding-3-small"),
		STTModel:        getEnv("TALKSEARCH_STT_MODEL", "whisper-1"),
		Timeout:         getEnvDuration("TALKSEARCH_TIMEOUT", 2*time.Minute),
		Language:        os.Getenv("TALKSEARCH_LANGUAGE"),
		Task:            getEnv("TALKSEARCH_TASK", "transcribe"),
		STTMaxRetries:   getEnvInt("TALKSEARCH_STT_MAX_RETRIES", 3),
		STTRetryDelay:   getEnvDuration("TALKSEARCH_STT_RETRY_DELAY", 2*time.Second),
		DataDir:         getEnv("TALKSEARCH_DATA_DIR", filepath.Join(xdg.DataHome, "talksearch")),
		CorpusBackend:   getEnv("TALKSEARCH_CORPUS_BACKEND", BackendSQLite),
		PostgresURL:     os.Getenv("TALKSEARCH_POSTGRES_URL"),
		VectorDimension: getEnvInt("TALKSEARCH_VECTOR_DIMENSION", 1536),
	}

	return cfg, cfg.Validate()
}

// CorpusPath returns the default corpus artifact path under DataDir.
func (c *Config) CorpusPath() string {
	return filepath.Join(c.DataDir, "corpus.db")
}

// TranscriptDir returns the directory holding per-source transcript files.
func (c *Config) TranscriptDir() string {
	return filepath.Join(c.DataDir, "transcripts")
}

func (c *Config) Validate() error {
	if c.Task != "transcribe" && c.Task != "translate" {
		return fmt.Errorf("TALKSEARCH_TASK must be transcribe or translate, got %q", c.Task)
	}
	if c.CorpusBackend != BackendSQLite && c.CorpusBackend != BackendPostgres {
		return fmt.Errorf("TALKSEARCH_CORPUS_BACKEND must be %s or %s, got %q", BackendSQLite, BackendPostgres, c.CorpusBackend)
	}
	if c.CorpusBackend == BackendPostgres && c.PostgresURL == "" {
		return fmt.Errorf("TALKSEARCH_POSTGRES_URL is required with the postgres backend")
	}
	if c.STTMaxRetries < 0 || c.STTMaxRetries > 10 {
		return fmt.Errorf("TALKSEARCH_STT_MAX_RETRIES must be 0-10, got %d", c.STTMaxRetries)
	}
	if c.VectorDimension <= 0 {
		return fmt.Errorf("TALKSEARCH_VECTOR_DIMENSION must be positive, got %d", c.VectorDimension)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
