// ABOUTME: Tests for the corpus builder
// ABOUTME: Uses a stub gateway to verify per-chunk embedding and failure handling
package corpus

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harper/talksearch/internal/models"
)

// stubGateway embeds text deterministically and can fail on chosen inputs.
type stubGateway struct {
	failOn string
	calls  int
}

func (s *stubGateway) Embed(ctx context.Context, text string) ([]float64, error) {
	s.calls++
	if s.failOn != "" && text == s.failOn {
		return nil, errors.New("gateway unavailable")
	}
	return []float64{float64(len(text)), 1}, nil
}

func (s *stubGateway) EmbedMany(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		v, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = v
	}
	return vectors, nil
}

func makeTranscript(sourceID string, texts ...string) *models.Transcript {
	t := &models.Transcript{SourceID: sourceID}
	for i, text := range texts {
		t.Chunks = append(t.Chunks, models.Chunk{
			Number: i + 1,
			Title:  sourceID,
			Start:  float64(i),
			End:    float64(i + 1),
			Text:   text,
		})
	}
	return t
}

func TestBuild_EmbedsEveryChunkInOrder(t *testing.T) {
	gateway := &stubGateway{}
	transcripts := []*models.Transcript{
		makeTranscript("first", "aa", "bbb"),
		makeTranscript("second", "cccc"),
	}

	c, err := Build(context.Background(), transcripts, gateway)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
	if gateway.calls != 3 {
		t.Errorf("gateway calls = %d, want one per chunk", gateway.calls)
	}

	chunks := c.Chunks()
	wantTexts := []string{"aa", "bbb", "cccc"}
	for i, chunk := range chunks {
		if chunk.Text != wantTexts[i] {
			t.Errorf("position %d: text %q, want %q", i, chunk.Text, wantTexts[i])
		}
		if chunk.Embedding == nil {
			t.Errorf("position %d: missing embedding", i)
		}
	}
}

func TestBuild_FailureDiscardsPartialCorpus(t *testing.T) {
	gateway := &stubGateway{failOn: "bbb"}
	transcripts := []*models.Transcript{
		makeTranscript("first", "aa", "bbb", "cccc"),
	}

	c, err := Build(context.Background(), transcripts, gateway)
	if err == nil {
		t.Fatal("expected error")
	}
	if c != nil {
		t.Error("no partial corpus should be returned on failure")
	}
	if !strings.Contains(err.Error(), "chunk 2 of first") {
		t.Errorf("error should name the failed chunk, got %q", err.Error())
	}
	if gateway.calls != 2 {
		t.Errorf("gateway calls = %d, want 2 (stop at first failure)", gateway.calls)
	}
}

func TestBuild_EmptyInputYieldsEmptyCorpus(t *testing.T) {
	c, err := Build(context.Background(), nil, &stubGateway{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d, want 0", c.Len())
	}
}
