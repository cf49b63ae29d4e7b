// ABOUTME: Chunk builder turning raw STT segments into numbered, titled chunks
// ABOUTME: Rejects malformed transcripts atomically, derives titles from file names
package chunker

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/harper/talksearch/internal/models"
)

// MalformedSegmentError reports a bad segment from the STT collaborator. The
// whole transcript is rejected; Index is the zero-based segment position.
type MalformedSegmentError struct {
	Source string
	Index  int
	Reason string
}

func (e *MalformedSegmentError) Error() string {
	return fmt.Sprintf("malformed segment %d in %s: %s", e.Index, e.Source, e.Reason)
}

// SourceID derives the source identifier from a file name: the base name with
// the extension stripped.
func SourceID(fileName string) string {
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// DeriveTitle derives the display title for a source file name.
//
// Rule: strip the extension, split the base name on "_", drop the first field
// when it is all digits and other fields follow (recordings are commonly named
// "<ordinal>_<title words>"), then join the remaining fields with single
// spaces. The transform is total for any file name and idempotent: a derived
// title contains no underscores and no digit-only leading field, so deriving
// it again returns it unchanged.
func DeriveTitle(fileName string) string {
	fields := strings.Split(SourceID(fileName), "_")
	if len(fields) > 1 && isDigits(fields[0]) {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Build turns one STT result into a Transcript of numbered chunks. Chunks are
// numbered 1..n in segment order, all carry the title derived from fileName,
// and text is copied verbatim. If any segment has start >= end, a negative
// start, empty text, or a start that does not strictly increase over the
// previous segment, the whole transcript is rejected and no chunk list is
// produced. ReadFile applies the same rules, so anything Build writes is
// accepted back.
func Build(fileName string, segments []models.Segment, fullText string) (*models.Transcript, error) {
	source := SourceID(fileName)

	prevStart := -1.0
	for i, seg := range segments {
		if err := validateSegment(source, i, seg.Start, seg.End, seg.Text); err != nil {
			return nil, err
		}
		if seg.Start <= prevStart {
			return nil, &MalformedSegmentError{Source: source, Index: i, Reason: "start not strictly increasing"}
		}
		prevStart = seg.Start
	}

	title := DeriveTitle(fileName)
	chunks := make([]models.Chunk, len(segments))
	for i, seg := range segments {
		chunks[i] = models.Chunk{
			Number: i + 1,
			Title:  title,
			Start:  seg.Start,
			End:    seg.End,
			Text:   seg.Text,
		}
	}

	return &models.Transcript{
		SourceID: source,
		Chunks:   chunks,
		FullText: fullText,
	}, nil
}

func validateSegment(source string, index int, start, end float64, text string) error {
	switch {
	case start < 0:
		return &MalformedSegmentError{Source: source, Index: index, Reason: fmt.Sprintf("negative start %.3f", start)}
	case start >= end:
		return &MalformedSegmentError{Source: source, Index: index, Reason: fmt.Sprintf("start %.3f >= end %.3f", start, end)}
	case strings.TrimSpace(text) == "":
		return &MalformedSegmentError{Source: source, Index: index, Reason: "empty text"}
	}
	return nil
}
