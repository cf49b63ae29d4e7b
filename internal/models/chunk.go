// ABOUTME: Chunk is the unit of retrieval, a timestamped text span with its embedding
// ABOUTME: Number and Title identify the chunk within and across sources
package models

// Chunk is one retrievable unit of a talk. Number is the 1-based position of
// the chunk within its source; it is not unique across sources. Title is the
// human-readable label derived from the source file name and is shared by
// every chunk of that source.
//
// Embedding is nil until the embedding gateway has processed the chunk. A nil
// embedding is a valid transient state during ingestion, never at query time.
type Chunk struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Start     float64   `json:"start"`
	End       float64   `json:"end"`
	Text      string    `json:"text"`
	Embedding []float64 `json:"embedding,omitempty"`
}
