// ABOUTME: SQLite connection handling for corpus artifacts
// ABOUTME: Uses modernc.org/sqlite for pure-Go SQLite support
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite"
)

// DefaultDataDir returns the default data directory for talksearch artifacts
// following the XDG spec.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "talksearch")
}

// DefaultCorpusPath returns the default corpus artifact path.
func DefaultCorpusPath() string {
	return filepath.Join(DefaultDataDir(), "corpus.db")
}

// open opens or creates the SQLite file at path and initializes the schema.
func open(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return conn, nil
}
