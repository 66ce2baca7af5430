// Package history provides local SQLite persistence of past searches.
//
// The backend keeps saved searches per account; this is the client-side
// counterpart, available signed in or not.
package history

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one recorded search.
type Entry struct {
	ID        int64
	Query     string
	Mode      string
	Alpha     float64
	Results   int
	CacheHit  bool
	CreatedAt time.Time
}

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates a Store at the given database path, creating tables if
// they don't exist.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so all pooled connections see the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS searches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		query TEXT NOT NULL,
		mode TEXT NOT NULL,
		alpha REAL DEFAULT 0,
		results INTEGER DEFAULT 0,
		cache_hit INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_searches_created ON searches(created_at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends an entry and prunes the table down to keep rows.
func (s *Store) Record(e Entry, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO searches (query, mode, alpha, results, cache_hit)
		VALUES (?, ?, ?, ?, ?)
	`, e.Query, e.Mode, e.Alpha, e.Results, boolToInt(e.CacheHit))
	if err != nil {
		return err
	}

	if keep > 0 {
		_, err = s.db.Exec(`
			DELETE FROM searches WHERE id NOT IN (
				SELECT id FROM searches ORDER BY id DESC LIMIT ?
			)
		`, keep)
	}
	return err
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, query, mode, alpha, results, cache_hit, created_at
		FROM searches ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var hit int
		if err := rows.Scan(&e.ID, &e.Query, &e.Mode, &e.Alpha, &e.Results, &hit, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.CacheHit = hit != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
