// ABOUTME: Transcript is the per-source container produced by the chunk builder
// ABOUTME: Holds the ordered chunk list plus the verbatim full transcript text
package models

// Transcript is the ordered chunk sequence for one source recording together
// with the full transcript text exactly as the STT collaborator returned it.
// Transcripts are ephemeral: the corpus builder consumes them immediately.
type Transcript struct {
	SourceID string  `json:"source_id"`
	Chunks   []Chunk `json:"chunks"`
	FullText string  `json:"text"`
}
