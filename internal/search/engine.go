// ABOUTME: Similarity query engine ranking corpus chunks by cosine similarity
// ABOUTME: Exact brute-force scoring with stable, insertion-order tie-breaking
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/harper/talksearch/internal/corpus"
	"github.com/harper/talksearch/internal/embed"
	"github.com/harper/talksearch/internal/models"
)

var (
	// ErrEmptyCorpus is returned when a query is run against a corpus with
	// zero chunks.
	ErrEmptyCorpus = errors.New("corpus has no chunks")
	// ErrInvalidK is returned when the requested result count is not positive.
	ErrInvalidK = errors.New("top-k must be positive")
)

// Result pairs a chunk with its similarity score for one query.
type Result struct {
	Chunk models.Chunk `json:"chunk"`
	Score float64      `json:"score"`
}

// Engine answers free-text queries against a corpus. It is read-only with
// respect to the corpus: queries never mutate stored chunks or vectors.
type Engine struct {
	gateway embed.Gateway
}

// NewEngine creates an engine that embeds queries through gateway.
func NewEngine(gateway embed.Gateway) *Engine {
	return &Engine{gateway: gateway}
}

// Query embeds text, scores every chunk in c by cosine similarity, and
// returns the top min(k, corpus size) results sorted by non-increasing score.
// Equal scores keep the corpus insertion order, so repeated runs over the
// same corpus yield identical output. Gateway failures propagate unchanged.
// A query vector whose dimension differs from the corpus dimension (a
// different embedding model than the one that built the corpus) aborts the
// query; scoring across dimensions would rank every chunk at zero.
func (e *Engine) Query(ctx context.Context, text string, c *corpus.Corpus, k int) ([]Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	if c == nil || c.Len() == 0 {
		return nil, ErrEmptyCorpus
	}

	query, err := e.gateway.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(query) != c.Dimension() {
		return nil, &embed.DimensionMismatchError{Want: c.Dimension(), Got: len(query)}
	}

	return Rank(query, c, k), nil
}

// Rank scores every chunk against the query vector and returns the top
// min(k, corpus size) results. The sort is stable so equal scores preserve
// insertion order. Callers must pass k > 0 and a non-empty corpus.
func Rank(query []float64, c *corpus.Corpus, k int) []Result {
	chunks := c.Chunks()
	results := make([]Result, len(chunks))
	for i, chunk := range chunks {
		results[i] = Result{Chunk: chunk, Score: Cosine(query, chunk.Embedding)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k]
}

// Cosine returns the cosine similarity of a and b, in [-1, 1]. It is 0 when
// either vector has zero norm or the lengths differ, so it never divides by
// zero.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
