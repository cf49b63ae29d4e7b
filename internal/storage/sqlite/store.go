// ABOUTME: SQLite corpus store, the default single-file persisted artifact
// ABOUTME: Saves chunks wholesale in one transaction, validates on load
package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/harper/talksearch/internal/corpus"
	"github.com/harper/talksearch/internal/models"
)

// Store persists a corpus to a single SQLite file. Row order follows
// insertion order (rowid), so the tie-break order survives a round trip.
type Store struct {
	path string
}

var _ corpus.Store = (*Store)(nil)

// NewStore creates a store backed by the SQLite file at path. The file is
// created on first save.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the artifact path.
func (s *Store) Path() string { return s.path }

// Save replaces the artifact with the chunks of c. The new corpus is written
// to a sibling temp file and renamed into place only once complete, so a
// failed save leaves any previous artifact untouched.
func (s *Store) Save(ctx context.Context, c *corpus.Corpus) error {
	tmp := s.path + ".tmp"
	if err := s.writeArtifact(ctx, tmp, c); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publishing corpus artifact: %w", err)
	}
	return nil
}

func (s *Store) writeArtifact(ctx context.Context, path string, c *corpus.Corpus) error {
	db, err := open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting save transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clearing previous corpus: %w", err)
	}

	for _, chunk := range c.Chunks() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO chunks (number, title, "start", "end", text, embedding)
			VALUES (?, ?, ?, ?, ?, ?)
		`, chunk.Number, chunk.Title, chunk.Start, chunk.End, chunk.Text, vectorToBlob(chunk.Embedding))
		if err != nil {
			return fmt.Errorf("saving chunk %d (%s): %w", chunk.Number, chunk.Title, err)
		}
	}

	return tx.Commit()
}

// Load reads the artifact back into a corpus. Rows with inconsistent vector
// dimensionality, malformed blobs, or missing embeddings fail with
// *corpus.CorruptError: a corpus that cannot be scored is refused outright.
func (s *Store) Load(ctx context.Context) (*corpus.Corpus, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("no corpus artifact at %s: %w", s.path, err)
	}

	db, err := open(s.path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT number, title, "start", "end", text, embedding
		FROM chunks
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	defer func() { _ = rows.Close() }()

	c := corpus.New()
	for rows.Next() {
		var (
			chunk models.Chunk
			blob  []byte
		)
		if err := rows.Scan(&chunk.Number, &chunk.Title, &chunk.Start, &chunk.End, &chunk.Text, &blob); err != nil {
			return nil, fmt.Errorf("scanning corpus row: %w", err)
		}

		if len(blob) == 0 || len(blob)%8 != 0 {
			return nil, &corpus.CorruptError{
				Reason: fmt.Sprintf("chunk %d (%s) has a malformed embedding blob of %d bytes", chunk.Number, chunk.Title, len(blob)),
			}
		}
		chunk.Embedding = blobToVector(blob)

		if err := c.Add(chunk); err != nil {
			return nil, &corpus.CorruptError{Reason: err.Error()}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	return c, nil
}

// vectorToBlob converts a float64 slice to a little-endian binary blob.
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a little-endian binary blob back to a float64 slice.
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}
