// ABOUTME: Corpus is the flat collection of embedded chunks available for querying
// ABOUTME: Append-only during build, immutable afterward; insertion order breaks ties
package corpus

import (
	"fmt"

	"github.com/harper/talksearch/internal/models"
)

// CorruptError reports a corpus artifact that failed validation on load.
// A corrupt corpus is refused outright rather than queried best-effort.
type CorruptError struct {
	Reason string
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt corpus: %s", e.Reason)
}

// Corpus holds embedded chunks from one or many sources. Every member carries
// a non-nil embedding of identical dimensionality. Chunks are kept in
// insertion order, which is the deterministic tie-break order for equal query
// scores; beyond that the corpus is an unordered set.
type Corpus struct {
	chunks []models.Chunk
	dim    int
}

// New returns an empty corpus.
func New() *Corpus {
	return &Corpus{}
}

// Add appends an embedded chunk. The first chunk fixes the corpus dimension;
// chunks without an embedding or with a different dimension are rejected.
func (c *Corpus) Add(chunk models.Chunk) error {
	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("chunk %d (%s) has no embedding", chunk.Number, chunk.Title)
	}
	if c.dim == 0 {
		c.dim = len(chunk.Embedding)
	} else if len(chunk.Embedding) != c.dim {
		return fmt.Errorf("chunk %d (%s): embedding dimension %d, corpus dimension %d",
			chunk.Number, chunk.Title, len(chunk.Embedding), c.dim)
	}
	c.chunks = append(c.chunks, chunk)
	return nil
}

// Len returns the number of chunks.
func (c *Corpus) Len() int { return len(c.chunks) }

// Dimension returns the embedding dimension, or 0 for an empty corpus.
func (c *Corpus) Dimension() int { return c.dim }

// Chunks returns the chunks in insertion order. The slice is shared; callers
// must treat it as read-only.
func (c *Corpus) Chunks() []models.Chunk { return c.chunks }
