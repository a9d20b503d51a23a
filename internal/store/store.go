package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// timeLayout is how row timestamps are stored: RFC 3339 with nanoseconds,
// always UTC.
const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

// Store is a keyed blob store over a single SQLite database file. Ids are
// assigned by SQLite's AUTOINCREMENT, so they start at 1 and increase
// monotonically with insertion order even across deletions (which this
// store never performs).
type Store struct {
	path string
	db   *sql.DB
}

// Open creates or opens a store at the given path. Pragmas and schema are
// applied on every open; the call is idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	if err := ensureStoreID(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize store id: %w", err)
	}

	return &Store{path: path, db: db}, nil
}

// Close releases the connection pool. The store must not be used after
// Close; this is the explicit disposal point for callers that cannot wait
// for process exit (test suites, CLI one-shots).
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// ensureStoreID mints the store's UUID on first open. INSERT OR IGNORE
// keeps reopens from replacing it.
func ensureStoreID(db *sql.DB) error {
	_, err := db.Exec(
		`INSERT OR IGNORE INTO meta (key, value) VALUES ('store_id', ?)`,
		uuid.NewString(),
	)
	return err
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
