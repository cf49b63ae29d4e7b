// ABOUTME: Store is the persistence contract for corpus artifacts
// ABOUTME: Implemented by the SQLite and pgvector adapters
package corpus

import "context"

// Store persists a corpus as a single artifact and loads it back. Save
// replaces the artifact wholesale; there is no partial update. Load must
// validate the artifact and fail with *CorruptError rather than return a
// corpus that cannot be scored.
type Store interface {
	Save(ctx context.Context, c *Corpus) error
	Load(ctx context.Context) (*Corpus, error)
}
