// ABOUTME: Tests for the whisper STT wrapper
// ABOUTME: Uses a fake audio API to cover task routing, retries, and segment mapping
package stt

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// audioResponse builds an AudioResponse from its wire form, since the
// segment type is anonymous in the client library.
func audioResponse(t *testing.T, raw string) openai.AudioResponse {
	t.Helper()
	var resp openai.AudioResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("decoding fixture: %v", err)
	}
	return resp
}

// fakeAudioAPI records which endpoint was hit and can fail a number of
// times before succeeding.
type fakeAudioAPI struct {
	resp openai.AudioResponse
	err  error

	failures      int
	transcribes   int
	translates    int
	lastTranscReq openai.AudioRequest
}

func (f *fakeAudioAPI) CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.transcribes++
	f.lastTranscReq = req
	return f.respond()
}

func (f *fakeAudioAPI) CreateTranslation(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error) {
	f.translates++
	return f.respond()
}

func (f *fakeAudioAPI) respond() (openai.AudioResponse, error) {
	if f.failures > 0 {
		f.failures--
		return openai.AudioResponse{}, errors.New("service unavailable")
	}
	if f.err != nil {
		return openai.AudioResponse{}, f.err
	}
	return f.resp, nil
}

func TestTranscribe_MapsVerboseSegments(t *testing.T) {
	api := &fakeAudioAPI{resp: audioResponse(t, `{
		"text": " Welcome. Connections matter.",
		"duration": 9,
		"segments": [
			{"start": 0, "end": 4.5, "text": " Welcome."},
			{"start": 4.5, "end": 9, "text": " Connections matter."}
		]
	}`)}
	w := newWhisper(api, Config{Model: "whisper-1", Language: "en"})

	segments, text, err := w.Transcribe(context.Background(), "talk.wav")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if text != " Welcome. Connections matter." {
		t.Errorf("text = %q", text)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Start != 0 || segments[0].End != 4.5 || segments[0].Text != " Welcome." {
		t.Errorf("segment 0 = %+v", segments[0])
	}
	if segments[1].Start != 4.5 || segments[1].End != 9 {
		t.Errorf("segment 1 = %+v", segments[1])
	}

	if api.lastTranscReq.Language != "en" {
		t.Errorf("language hint = %q, want en", api.lastTranscReq.Language)
	}
	if api.lastTranscReq.Format != openai.AudioResponseFormatVerboseJSON {
		t.Errorf("format = %q, want verbose_json", api.lastTranscReq.Format)
	}
}

func TestTranscribe_FallsBackToSingleSegment(t *testing.T) {
	api := &fakeAudioAPI{resp: audioResponse(t, `{"text": "hello world", "duration": 12.5}`)}
	w := newWhisper(api, Config{Model: "whisper-1"})

	segments, text, err := w.Transcribe(context.Background(), "talk.wav")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("got %d segments, want fallback single segment", len(segments))
	}
	if segments[0].Start != 0 || segments[0].End != 12.5 || segments[0].Text != text {
		t.Errorf("fallback segment = %+v", segments[0])
	}
}

func TestTranscribe_TranslateTaskUsesTranslationEndpoint(t *testing.T) {
	api := &fakeAudioAPI{resp: audioResponse(t, `{"text": "hello", "duration": 1}`)}
	w := newWhisper(api, Config{Model: "whisper-1", Language: "de", Task: TaskTranslate})

	_, _, err := w.Transcribe(context.Background(), "talk.wav")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if api.translates != 1 || api.transcribes != 0 {
		t.Errorf("translates=%d transcribes=%d, want translation endpoint only",
			api.translates, api.transcribes)
	}
}

func TestTranscribe_EmptyResultFails(t *testing.T) {
	api := &fakeAudioAPI{resp: audioResponse(t, `{"text": "   ", "duration": 1}`)}
	w := newWhisper(api, Config{Model: "whisper-1"})

	_, _, err := w.Transcribe(context.Background(), "talk.wav")
	var trErr *TranscriptionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TranscriptionError, got %T: %v", err, err)
	}
	if trErr.Source != "talk.wav" {
		t.Errorf("Source = %q", trErr.Source)
	}
}

func TestTranscribe_RetriesTransientFailures(t *testing.T) {
	api := &fakeAudioAPI{
		resp:     audioResponse(t, `{"text": "ok", "duration": 1}`),
		failures: 2,
	}
	w := newWhisper(api, Config{Model: "whisper-1", MaxRetries: 3, RetryDelay: time.Millisecond})

	_, text, err := w.Transcribe(context.Background(), "talk.wav")
	if err != nil {
		t.Fatalf("Transcribe should succeed after retries: %v", err)
	}
	if text != "ok" {
		t.Errorf("text = %q", text)
	}
	if api.transcribes != 3 {
		t.Errorf("attempts = %d, want 3", api.transcribes)
	}
}

func TestTranscribe_ExhaustedRetriesFail(t *testing.T) {
	api := &fakeAudioAPI{failures: 10}
	w := newWhisper(api, Config{Model: "whisper-1", MaxRetries: 2, RetryDelay: time.Millisecond})

	_, _, err := w.Transcribe(context.Background(), "talk.wav")
	var trErr *TranscriptionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected TranscriptionError, got %T: %v", err, err)
	}
	if api.transcribes != 3 {
		t.Errorf("attempts = %d, want 3 (initial + 2 retries)", api.transcribes)
	}
}

func TestTranscribe_CancelledContextStopsRetrying(t *testing.T) {
	api := &fakeAudioAPI{failures: 10}
	w := newWhisper(api, Config{Model: "whisper-1", MaxRetries: 5, RetryDelay: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := w.Transcribe(ctx, "talk.wav")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if api.transcribes != 1 {
		t.Errorf("attempts = %d, want 1 (no retry after cancellation)", api.transcribes)
	}
}

func TestParseTask(t *testing.T) {
	tests := []struct {
		input   string
		want    Task
		wantErr bool
	}{
		{"transcribe", TaskTranscribe, false},
		{"translate", TaskTranslate, false},
		{"", "", true},
		{"summarize", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTask(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTask(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTask(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTask(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
