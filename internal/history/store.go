package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultFile is the database file name inside the data directory
const DefaultFile = "history.db"

// Entry is one recorded translation
type Entry struct {
	ID        string
	CreatedAt time.Time
	Input     string
	Output    string
	Route     []string
	Packages  []string
	Backend   string
}

// RouteString formats the route as an expression ("en:es:de")
func (e Entry) RouteString() string {
	return strings.Join(e.Route, ":")
}

// Store is a SQLite-backed translation log
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns $HOME/.local/share/lingohop/history.db
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultFile
	}
	return filepath.Join(home, ".local", "share", "lingohop", DefaultFile)
}

// Open opens or creates the history database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// SQLite allows one writer at a time
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Path returns the database file
func (s *Store) Path() string {
	return s.path
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS translations (
			id text PRIMARY KEY,
			created integer NOT NULL,
			input text NOT NULL,
			output text NOT NULL,
			route text NOT NULL,
			packages text NOT NULL,
			backend text NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS ix_translations_created ON translations (created)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

// Record stores e, assigning an ID and timestamp when they are unset, and
// returns the stored entry
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	query := `INSERT INTO translations (id, created, input, output, route, packages, backend) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		e.ID,
		e.CreatedAt.UnixNano(),
		e.Input,
		e.Output,
		strings.Join(e.Route, ":"),
		strings.Join(e.Packages, ","),
		e.Backend,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record translation: %w", err)
	}

	return e, nil
}

// Recent returns up to limit entries, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, created, input, output, route, packages, backend
		FROM translations ORDER BY created DESC, rowid DESC LIMIT ?`
	return s.query(ctx, query, limit)
}

// Search returns up to limit entries whose input or output contains text,
// newest first
func (s *Store) Search(ctx context.Context, text string, limit int) ([]Entry, error) {
	pattern := "%" + escapeLike(text) + "%"
	query := `SELECT id, created, input, output, route, packages, backend
		FROM translations
		WHERE input LIKE ? ESCAPE '\' OR output LIKE ? ESCAPE '\'
		ORDER BY created DESC, rowid DESC LIMIT ?`
	return s.query(ctx, query, pattern, pattern, limit)
}

// Count returns the number of recorded translations
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM translations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count translations: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e               Entry
			created         int64
			route, packages string
		)
		if err := rows.Scan(&e.ID, &created, &e.Input, &e.Output, &route, &packages, &e.Backend); err != nil {
			return nil, fmt.Errorf("failed to read history row: %w", err)
		}
		e.CreatedAt = time.Unix(0, created)
		e.Route = splitNonEmpty(route, ":")
		e.Packages = splitNonEmpty(packages, ",")
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
