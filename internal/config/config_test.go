// ABOUTME: Tests for environment-based configuration loading
// ABOUTME: Covers defaults, overrides, and validation failures
package config

import (
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every talksearch variable so defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY",
		"TALKSEARCH_EMBEDDING_MODEL",
		"TALKSEARCH_STT_MODEL",
		"TALKSEARCH_TIMEOUT",
		"TALKSEARCH_LANGUAGE",
		"TALKSEARCH_TASK",
		"TALKSEARCH_STT_MAX_RETRIES",
		"TALKSEARCH_STT_RETRY_DELAY",
		"TALKSEARCH_DATA_DIR",
		"TALKSEARCH_CORPUS_BACKEND",
		"TALKSEARCH_POSTGRES_URL",
		"TALKSEARCH_VECTOR_DIMENSION",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
	if cfg.STTModel != "whisper-1" {
		t.Errorf("STTModel = %q", cfg.STTModel)
	}
	if cfg.Task != "transcribe" {
		t.Errorf("Task = %q", cfg.Task)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.STTMaxRetries != 3 {
		t.Errorf("STTMaxRetries = %d", cfg.STTMaxRetries)
	}
	if cfg.CorpusBackend != BackendSQLite {
		t.Errorf("CorpusBackend = %q", cfg.CorpusBackend)
	}
	if cfg.VectorDimension != 1536 {
		t.Errorf("VectorDimension = %d", cfg.VectorDimension)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TALKSEARCH_EMBEDDING_MODEL", "text-embedding-3-large")
	t.Setenv("TALKSEARCH_TASK", "translate")
	t.Setenv("TALKSEARCH_LANGUAGE", "de")
	t.Setenv("TALKSEARCH_TIMEOUT", "30s")
	t.Setenv("TALKSEARCH_STT_MAX_RETRIES", "5")
	t.Setenv("TALKSEARCH_DATA_DIR", "/data/talks")
	t.Setenv("TALKSEARCH_CORPUS_BACKEND", "postgres")
	t.Setenv("TALKSEARCH_POSTGRES_URL", "postgres://localhost/talks")
	t.Setenv("TALKSEARCH_VECTOR_DIMENSION", "3072")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.OpenAIKey != "sk-test" {
		t.Errorf("OpenAIKey = %q", cfg.OpenAIKey)
	}
	if cfg.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
	if cfg.Task != "translate" || cfg.Language != "de" {
		t.Errorf("Task = %q, Language = %q", cfg.Task, cfg.Language)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.STTMaxRetries != 5 {
		t.Errorf("STTMaxRetries = %d", cfg.STTMaxRetries)
	}
	if cfg.CorpusBackend != BackendPostgres || cfg.PostgresURL != "postgres://localhost/talks" {
		t.Errorf("backend = %q, url = %q", cfg.CorpusBackend, cfg.PostgresURL)
	}
	if cfg.VectorDimension != 3072 {
		t.Errorf("VectorDimension = %d", cfg.VectorDimension)
	}
}

func TestLoad_DerivedPaths(t *testing.T) {
	clearEnv(t)
	t.Setenv("TALKSEARCH_DATA_DIR", "/data/talks")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CorpusPath() != filepath.Join("/data/talks", "corpus.db") {
		t.Errorf("CorpusPath = %q", cfg.CorpusPath())
	}
	if cfg.TranscriptDir() != filepath.Join("/data/talks", "transcripts") {
		t.Errorf("TranscriptDir = %q", cfg.TranscriptDir())
	}
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad task", "TALKSEARCH_TASK", "summarize"},
		{"bad backend", "TALKSEARCH_CORPUS_BACKEND", "redis"},
		{"retries out of range", "TALKSEARCH_STT_MAX_RETRIES", "99"},
		{"non-positive dimension", "TALKSEARCH_VECTOR_DIMENSION", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			if _, err := Load(); err == nil {
				t.Errorf("Load should reject %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestLoad_PostgresBackendRequiresURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("TALKSEARCH_CORPUS_BACKEND", "postgres")

	if _, err := Load(); err == nil {
		t.Error("Load should require TALKSEARCH_POSTGRES_URL with the postgres backend")
	}
}
