// ABOUTME: Postgres/pgvector corpus store for shared precomputed corpora
// ABOUTME: Same logical table as the SQLite artifact with a vector column
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/harper/talksearch/internal/corpus"
	"github.com/harper/talksearch/internal/models"
)

// Store persists a corpus in a Postgres table with a pgvector embedding
// column. Vectors pass through float32, pgvector's element type, so values
// round-trip within float32 representation rather than bit-for-bit; the
// SQLite store is the exact-precision default.
type Store struct {
	conn *pgx.Conn
}

var _ corpus.Store = (*Store)(nil)

// Connect opens a connection to the database at url, enables the pgvector
// extension, and ensures the corpus table exists. dim fixes the vector column
// width and must match the embedding model's dimension.
func Connect(ctx context.Context, url string, dim int) (*Store, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("vector dimension must be positive, got %d", dim)
	}

	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	if _, err := conn.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("enabling pgvector extension: %w", err)
	}
	if err := pgxvector.RegisterTypes(ctx, conn); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("registering pgvector types: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS chunks (
			id        BIGSERIAL PRIMARY KEY,
			number    INTEGER NOT NULL,
			title     TEXT NOT NULL,
			start_sec DOUBLE PRECISION NOT NULL,
			end_sec   DOUBLE PRECISION NOT NULL,
			text      TEXT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, dim)
	if _, err := conn.Exec(ctx, createTable); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("creating corpus table: %w", err)
	}

	return &Store{conn: conn}, nil
}

// Close closes the database connection.
func (s *Store) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

// Save replaces the stored corpus with the chunks of c inside one
// transaction.
func (s *Store) Save(ctx context.Context, c *corpus.Corpus) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("starting save transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clearing previous corpus: %w", err)
	}

	for _, chunk := range c.Chunks() {
		_, err := tx.Exec(ctx, `
			INSERT INTO chunks (number, title, start_sec, end_sec, text, embedding)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, chunk.Number, chunk.Title, chunk.Start, chunk.End, chunk.Text, pgvector.NewVector(toFloat32(chunk.Embedding)))
		if err != nil {
			return fmt.Errorf("saving chunk %d (%s): %w", chunk.Number, chunk.Title, err)
		}
	}

	return tx.Commit(ctx)
}

// Load reads the stored corpus back in insertion order. Dimensional
// inconsistencies fail with *corpus.CorruptError.
func (s *Store) Load(ctx context.Context) (*corpus.Corpus, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT number, title, start_sec, end_sec, text, embedding
		FROM chunks
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	defer rows.Close()

	c := corpus.New()
	for rows.Next() {
		var (
			chunk models.Chunk
			vec   pgvector.Vector
		)
		if err := rows.Scan(&chunk.Number, &chunk.Title, &chunk.Start, &chunk.End, &chunk.Text, &vec); err != nil {
			return nil, fmt.Errorf("scanning corpus row: %w", err)
		}
		chunk.Embedding = toFloat64(vec.Slice())

		if err := c.Add(chunk); err != nil {
			return nil, &corpus.CorruptError{Reason: err.Error()}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}

	return c, nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
