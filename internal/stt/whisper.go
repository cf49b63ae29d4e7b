// ABOUTME: Whisper speech-to-text wrapper over the OpenAI audio API
// ABOUTME: Supports transcribe and translate task modes with timestamped segments
package stt

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/talksearch/internal/models"
	"github.com/harper/talksearch/internal/util"
)

// Task selects between plain transcription and translation to English.
type Task string

const (
	TaskTranscribe Task = "transcribe"
	TaskTranslate  Task = "translate"
)

// ParseTask validates a task mode string.
func ParseTask(s string) (Task, error) {
	switch Task(s) {
	case TaskTranscribe, TaskTranslate:
		return Task(s), nil
	}
	return "", fmt.Errorf("unknown task %q (want transcribe or translate)", s)
}

// TranscriptionError reports a failed STT call for one source.
type TranscriptionError struct {
	Source string
	Err    error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcribing %s: %v", e.Source, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// Transcriber converts an audio file into timestamped segments plus the full
// transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]models.Segment, string, error)
}

// audioAPI is the slice of the OpenAI client whisper needs. *openai.Client
// satisfies it.
type audioAPI interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
	CreateTranslation(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// Whisper transcribes audio via the OpenAI audio endpoints. Transient
// failures are retried with exponential backoff; the no-retry rule of the
// embedding gateway does not apply here.
type Whisper struct {
	client     audioAPI
	model      string
	language   string
	task       Task
	maxRetries int
	retryDelay time.Duration
}

// Config holds Whisper client settings.
type Config struct {
	Model      string // e.g. "whisper-1"
	Language   string // ISO-639-1 hint, optional
	Task       Task
	MaxRetries int
	RetryDelay time.Duration
}

// NewWhisper creates a Whisper transcriber using the given API client.
func NewWhisper(client *openai.Client, cfg Config) *Whisper {
	return newWhisper(client, cfg)
}

func newWhisper(client audioAPI, cfg Config) *Whisper {
	if cfg.Task == "" {
		cfg.Task = TaskTranscribe
	}
	return &Whisper{
		client:     client,
		model:      cfg.Model,
		language:   cfg.Language,
		task:       cfg.Task,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}
}

// Transcribe runs the configured task on audioPath and returns the
// timestamped segments and full transcript text, both verbatim from the
// service.
func (w *Whisper) Transcribe(ctx context.Context, audioPath string) ([]models.Segment, string, error) {
	req := openai.AudioRequest{
		Model:    w.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}

	var (
		resp    openai.AudioResponse
		lastErr error
	)
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, "", &TranscriptionError{Source: audioPath, Err: ctx.Err()}
			case <-time.After(util.CalculateBackoff(w.retryDelay, attempt)):
			}
		}

		var err error
		if w.task == TaskTranslate {
			resp, err = w.client.CreateTranslation(ctx, req)
		} else {
			// The language hint only applies to transcription; translation
			// always targets English.
			req.Language = w.language
			resp, err = w.client.CreateTranscription(ctx, req)
		}
		if err == nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, "", &TranscriptionError{Source: audioPath, Err: lastErr}
	}

	text := resp.Text
	if strings.TrimSpace(text) == "" {
		return nil, "", &TranscriptionError{Source: audioPath, Err: fmt.Errorf("empty transcription result")}
	}

	segments := make([]models.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = models.Segment{Start: seg.Start, End: seg.End, Text: seg.Text}
	}
	if len(segments) == 0 {
		// Some formats omit segment timing; fall back to one segment
		// spanning the reported duration.
		segments = []models.Segment{{Start: 0, End: resp.Duration, Text: text}}
	}

	return segments, text, nil
}
