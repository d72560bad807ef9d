// Package cache persists every successful retrieval to a queryable SQLite
// store and answers fuzzy-similarity lookups over historical queries. The
// store is append-only from the pipeline's view; rows are never updated or
// deleted here.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Table and column names match the existing wissens_ki cache database so an
// in-place upgrade keeps its history.
const schema = `
CREATE TABLE IF NOT EXISTS anfragen_cache (
	id INTEGER PRIMARY KEY,
	anfrage TEXT NOT NULL,
	quelle_typ TEXT NOT NULL,
	ergebnis_text TEXT NOT NULL,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Entry is one cached retrieval.
type Entry struct {
	ID         int64
	Query      string
	SourceType string
	Text       string
	Timestamp  time.Time
}

// Store wraps the SQLite database. Writes are serialized by mu so concurrent
// retrieval workers cannot interleave rows.
type Store struct {
	db       *sql.DB
	mu       sync.Mutex
	maxChars int
}

// Open creates or opens the cache database at path and applies the schema.
// maxChars bounds persisted result text.
func Open(path string, maxChars int) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// A single connection sidesteps SQLITE_BUSY between writer goroutines.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Store{db: db, maxChars: maxChars}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Write appends one entry, truncating text to the configured budget first.
// Callers usually pre-truncate; this is defense in depth.
func (s *Store) Write(ctx context.Context, query, sourceType, text string) error {
	if s.maxChars > 0 && len(text) > s.maxChars {
		cut := text[:s.maxChars]
		for len(cut) > 0 && cut[len(cut)-1]&0xC0 == 0x80 {
			cut = cut[:len(cut)-1]
		}
		if len(cut) > 0 && cut[len(cut)-1] >= 0xC0 {
			cut = cut[:len(cut)-1]
		}
		text = cut
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO anfragen_cache (anfrage, quelle_typ, ergebnis_text) VALUES (?, ?, ?)",
		query, sourceType, text)
	if err != nil {
		return fmt.Errorf("cache write: %w", err)
	}
	return nil
}

// ReadAll returns every entry, newest first.
func (s *Store) ReadAll(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, anfrage, quelle_typ, ergebnis_text, timestamp FROM anfragen_cache ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("cache read: %w", err)
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.ID, &e.Query, &e.SourceType, &e.Text, &ts); err != nil {
			return nil, fmt.Errorf("cache scan: %w", err)
		}
		if t, perr := time.Parse("2006-01-02 15:04:05", ts); perr == nil {
			e.Timestamp = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// distinctQueries returns historical query strings, most recent first.
func (s *Store) distinctQueries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT anfrage FROM anfragen_cache ORDER BY timestamp DESC")
	if err != nil {
		return nil, fmt.Errorf("cache query scan: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
