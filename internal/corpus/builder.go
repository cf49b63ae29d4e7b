// ABOUTME: Corpus builder attaching embeddings to every chunk of every transcript
// ABOUTME: Stops at the first gateway failure and discards the partial corpus
package corpus

import (
	"context"
	"fmt"

	"github.com/harper/talksearch/internal/embed"
	"github.com/harper/talksearch/internal/models"
)

// Build embeds every chunk across all transcripts, one gateway call per
// chunk, and assembles the resulting corpus. On the first gateway failure it
// stops, reports which chunk failed, and returns no corpus: callers never
// receive a silently half-built result. Chunk insertion order follows the
// transcript order given, then chunk order within each transcript.
func Build(ctx context.Context, transcripts []*models.Transcript, gateway embed.Gateway) (*Corpus, error) {
	c := New()
	for _, t := range transcripts {
		for _, chunk := range t.Chunks {
			vector, err := gateway.Embed(ctx, chunk.Text)
			if err != nil {
				return nil, fmt.Errorf("embedding chunk %d of %s: %w", chunk.Number, t.SourceID, err)
			}
			chunk.Embedding = vector
			if err := c.Add(chunk); err != nil {
				return nil, fmt.Errorf("building corpus from %s: %w", t.SourceID, err)
			}
		}
	}
	return c, nil
}
