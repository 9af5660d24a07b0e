package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store is the explicitly constructed handle to the QuizVault database.
// Every operation takes it as a receiver; there is no package-level handle.
type Store struct {
	db          *sql.DB
	drv         *entsql.Driver
	enforceRefs bool
	now         func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithReferenceChecks controls whether CreateQuiz and SaveQuizResult verify
// that the records they point at exist. Enabled by default.
func WithReferenceChecks(enabled bool) Option {
	return func(s *Store) { s.enforceRefs = enabled }
}

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// connPragmas are applied to every pooled connection through the DSN.
var connPragmas = []string{
	"journal_mode(WAL)",
	"busy_timeout(5000)",
	"foreign_keys(1)",
	"synchronous(NORMAL)",
}

// Open connects to the SQLite database at path and migrates the schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", buildDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)

	s := &Store{
		db:          db,
		drv:         drv,
		enforceRefs: true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := migrate(ctx, drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return s, nil
}

func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

// buildDSN appends the connection pragmas and the SQLite time format to path.
func buildDSN(path string) string {
	params := make([]string, 0, len(connPragmas)+1)
	for _, p := range connPragmas {
		params = append(params, "_pragma="+p)
	}
	params = append(params, "_time_format=sqlite")

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(params, "&")
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{store: s}
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// builder returns a SQLite-flavoured statement builder.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// exec runs a built statement, wrapping failures as StorageError.
func (s *Store) exec(ctx context.Context, op string, q entsql.Querier) (sql.Result, error) {
	query, args := q.Query()
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, &StorageError{Op: op, Err: err}
	}
	return res, nil
}

// query runs a built statement and hands every row to scan. Rows are closed
// before query returns.
func (s *Store) query(ctx context.Context, op string, q entsql.Querier, scan func(*sql.Rows) error) error {
	query, args := q.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return &StorageError{Op: op, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return &StorageError{Op: op, Err: err}
		}
	}
	if err := rows.Err(); err != nil {
		return &StorageError{Op: op, Err: err}
	}
	return nil
}

// count runs a single-value COUNT query.
func (s *Store) count(ctx context.Context, op, table, column, value string) (int, error) {
	q := builder().Select(entsql.Count("*")).
		From(entsql.Table(table)).
		Where(entsql.EQ(column, value))
	var n int
	err := s.query(ctx, op, q, func(rows *sql.Rows) error {
		return rows.Scan(&n)
	})
	return n, err
}

// DefaultDBPath resolves the database file path in priority order:
// 1. QUIZVAULT_DB environment variable
// 2. $XDG_DATA_HOME/quizvault/quizvault.db
// 3. ~/.local/share/quizvault/quizvault.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("QUIZVAULT_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "quizvault", "quizvault.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
