// ABOUTME: Segment is the raw timestamped text unit returned by speech-to-text
// ABOUTME: Validated by the chunk builder before entering the corpus pipeline
package models

// Segment is one timestamped span of transcribed speech as delivered by the
// STT collaborator. Timestamps are seconds from the start of the recording.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
