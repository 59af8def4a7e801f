// Package sqldb implements storage.Storage on top of database/sql.
//
// The SQL is written once, with ? placeholders, and a Dialect adapts it to
// the concrete engine: it supplies the schema, rewrites placeholders when
// the driver needs $1-style parameters, and recognises the driver's
// unique-violation error so it can be reported as storage.ErrConflict.
//
// The sqlite and postgres packages construct a Store with their dialect.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Sonukathat/shiwansh-project/internal/storage"
)

var _ storage.Storage = (*Store)(nil)

// Dialect describes the engine-specific parts of the SQL backend.
type Dialect struct {
	// Name is used in error messages and logs.
	Name string
	// Schema is executed statement by statement on Open. Every statement
	// must be idempotent (CREATE ... IF NOT EXISTS).
	Schema []string
	// DollarPlaceholders rewrites ? into $1, $2, ... before execution.
	DollarPlaceholders bool
	// IsUniqueViolation reports whether err is the driver's unique
	// constraint error.
	IsUniqueViolation func(err error) bool
	// LowerFunc is the SQL function used to fold text for case-insensitive
	// search. It must fold the same characters strings.ToLower does.
	// Empty means LOWER.
	LowerFunc string
}

// Store is the database/sql implementation of storage.Storage.
// A *sql.DB is a pool and is safe for concurrent use.
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

// Open applies the dialect schema to db and returns a ready Store.
func Open(ctx context.Context, db *sql.DB, dialect Dialect) (*Store, error) {
	for _, stmt := range dialect.Schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("sqldb.Open: %s schema: %w", dialect.Name, err)
		}
	}
	return &Store{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}, nil
}

// DB exposes the pool for tests and health checks.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Close() error { return s.db.Close() }

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q adapts a ?-placeholder query to the dialect.
func (s *Store) q(query string) string {
	if !s.dialect.DollarPlaceholders {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// withTx runs fn in a transaction, committing only when fn succeeds.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// wrap annotates err with op and translates driver errors into the
// storage sentinels.
func (s *Store) wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrConflict):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	case s.dialect.IsUniqueViolation != nil && s.dialect.IsUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// parseID converts an API id into a row id. Ids that can never exist are
// reported as not found rather than as bad input.
func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return 0, storage.ErrNotFound
	}
	return n, nil
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// mustAffect turns a zero-row UPDATE/DELETE into ErrNotFound.
func mustAffect(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// lower wraps expr in the dialect's case-folding function.
func (s *Store) lower(expr string) string {
	fn := s.dialect.LowerFunc
	if fn == "" {
		fn = "LOWER"
	}
	return fn + "(" + expr + ")"
}

// likePattern builds a case-insensitive substring pattern for
// `LOWER(col) LIKE ? ESCAPE '\'`.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}

// timestamp scans a time column. SQLite hands back TEXT for expressions
// whose declared type it cannot see (RETURNING, for one), so strings in
// the driver's write format are accepted as well as time.Time.
type timestamp struct{ t *time.Time }

var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
}

func (ts timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.t = v.UTC()
		return nil
	case nil:
		*ts.t = time.Time{}
		return nil
	case []byte:
		return ts.parse(string(v))
	case string:
		return ts.parse(v)
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (ts timestamp) parse(v string) error {
	v = strings.TrimSuffix(v, "Z")
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			*ts.t = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("cannot parse timestamp %q", v)
}
