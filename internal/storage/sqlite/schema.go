// ABOUTME: SQLite schema for the persisted corpus artifact
// ABOUTME: One row per chunk with the embedding stored as a float64 blob
package sqlite

// schema is the corpus artifact table: one row per chunk, no header contract
// beyond these fields being present and typed consistently.
const schema = `
CREATE TABLE IF NOT EXISTS chunks (
    number    INTEGER NOT NULL,
    title     TEXT NOT NULL,
    "start"   REAL NOT NULL,
    "end"     REAL NOT NULL,
    text      TEXT NOT NULL,
    embedding BLOB NOT NULL
);
`
