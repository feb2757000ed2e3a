package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

// pragmas are applied to every connection the driver opens.
var pragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

// Store owns the SQLite handle and hands out repositories over it.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, brings the schema up to date
// and backfills normalized option rows for questions written by older tools.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One writer, one reader: the file is only ever touched by this process.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.backfillOptions(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("backfill options: %w", err)
	}
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Questions returns the question repository.
func (s *Store) Questions() QuestionRepo {
	return &questionRepo{db: s.db}
}

// Results returns the missed-results ledger.
func (s *Store) Results() ResultRepo {
	return &resultRepo{db: s.db}
}

// Events returns the LLM request log.
func (s *Store) Events() EventRepo {
	return &eventRepo{db: s.db}
}

// Explanations returns the generated explanation cache.
func (s *Store) Explanations() ExplanationRepo {
	return &explanationRepo{db: s.db}
}

// builder returns an ent SQL builder for the SQLite dialect.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// withPragmas appends the connection pragmas to dsn as driver parameters.
func withPragmas(dsn string) string {
	params := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		params = append(params, "_pragma="+url.QueryEscape(p))
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// DefaultDBPath resolves the database file path in priority order:
// 1. $XDG_DATA_HOME/drillbook/drillbook.db
// 2. ~/.local/share/drillbook/drillbook.db
func DefaultDBPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "drillbook", "drillbook.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
