// ABOUTME: Chunk transcript file format, the per-source hand-off artifact
// ABOUTME: JSON with the ordered chunk list plus the full transcript text
package chunker

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/harper/talksearch/internal/models"
)

// transcriptFile is the on-disk shape: one file per source with the ordered
// chunk objects and the verbatim full transcript.
type transcriptFile struct {
	Chunks []models.Chunk `json:"chunks"`
	Text   string         `json:"text"`
}

// WriteFile writes a transcript to path as a chunk transcript JSON file.
// Embeddings are never written; the file is the pre-embedding hand-off
// between ingestion and corpus builds.
func WriteFile(path string, t *models.Transcript) error {
	chunks := make([]models.Chunk, len(t.Chunks))
	for i, c := range t.Chunks {
		c.Embedding = nil
		chunks[i] = c
	}

	data, err := json.MarshalIndent(transcriptFile{Chunks: chunks, Text: t.FullText}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding transcript %s: %w", t.SourceID, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing transcript file: %w", err)
	}
	return nil
}

// ReadFile reads a chunk transcript file and re-validates it with the same
// rules as Build: a file containing any malformed or out-of-order chunk is
// rejected whole. The transcript's SourceID is derived from the file name.
func ReadFile(path string) (*models.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading transcript file: %w", err)
	}

	var tf transcriptFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("decoding transcript file %s: %w", path, err)
	}

	source := SourceID(path)
	prevStart := -1.0
	for i, c := range tf.Chunks {
		if err := validateSegment(source, i, c.Start, c.End, c.Text); err != nil {
			return nil, err
		}
		if c.Number != i+1 {
			return nil, &MalformedSegmentError{Source: source, Index: i, Reason: fmt.Sprintf("number %d out of sequence", c.Number)}
		}
		if c.Start <= prevStart {
			return nil, &MalformedSegmentError{Source: source, Index: i, Reason: "start not strictly increasing"}
		}
		prevStart = c.Start
	}

	return &models.Transcript{
		SourceID: source,
		Chunks:   tf.Chunks,
		FullText: tf.Text,
	}, nil
}
