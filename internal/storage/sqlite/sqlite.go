// Package sqlite provides the SQLite-backed implementation of the
// storage.Storage interface. It is the default backend: a single file on
// disk, no server process, nothing to install beyond the driver.
//
// The queries themselves live in package sqldb; this package supplies the
// SQLite schema and teaches sqldb how to recognise SQLite's
// unique-constraint error.
//
// The database is opened through driverName, go-sqlite3 registered with a
// connect hook that adds go_lower: SQLite's own LOWER folds ASCII only.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/Sonukathat/shiwansh-project/internal/config"
	"github.com/Sonukathat/shiwansh-project/internal/storage/sqldb"
)

const (
	driverName = "sqlite3_admin"
	lowerFunc  = "go_lower"
)

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(c *sqlite3.SQLiteConn) error {
			return c.RegisterFunc(lowerFunc, strings.ToLower, true)
		},
	})
}

// schema is idempotent — CREATE ... IF NOT EXISTS is safe to run on every
// startup.
//
// Every uniqueness rule of the API is a UNIQUE constraint here, so two
// concurrent inserts of the same key cannot both succeed.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		country TEXT    NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS location_states (
		location_id INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		name        TEXT    NOT NULL,
		UNIQUE (location_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS districts (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		country    TEXT     NOT NULL,
		state      TEXT     NOT NULL,
		district   TEXT     NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE (country, state, district)
	)`,
	`CREATE TABLE IF NOT EXISTS countries (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		name       TEXT     NOT NULL UNIQUE,
		image      TEXT     NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS languages (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		name       TEXT     NOT NULL UNIQUE,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		name       TEXT     NOT NULL,
		email      TEXT     NOT NULL UNIQUE,
		mobile     TEXT     NOT NULL,
		image      TEXT     NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		name       TEXT     NOT NULL,
		email      TEXT     NOT NULL UNIQUE,
		mobile     TEXT     NOT NULL,
		country    TEXT     NOT NULL DEFAULT '',
		state      TEXT     NOT NULL DEFAULT '',
		district   TEXT     NOT NULL DEFAULT '',
		gender     TEXT     NOT NULL DEFAULT '',
		languages  TEXT     NOT NULL DEFAULT '[]',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id         INTEGER  PRIMARY KEY AUTOINCREMENT,
		name       TEXT     NOT NULL,
		email      TEXT     NOT NULL UNIQUE,
		mobile     TEXT     NOT NULL,
		country    TEXT     NOT NULL,
		state      TEXT     NOT NULL,
		district   TEXT     NOT NULL,
		gender     TEXT     NOT NULL CHECK (gender IN ('Male', 'Female', 'Other')),
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
}

// Dialect is the sqldb dialect for SQLite.
var Dialect = sqldb.Dialect{
	Name:              "sqlite",
	Schema:            schema,
	IsUniqueViolation: isUniqueViolation,
	LowerFunc:         lowerFunc,
}

// isUniqueViolation recognises SQLite's UNIQUE / PRIMARY KEY failures.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// New opens (creating if needed) the SQLite file at cfg.Storage.SQLitePath
// and applies the schema.
func New(cfg *config.Config) (*sqldb.Store, error) {
	path := cfg.Storage.SQLitePath
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	// sql.Open only validates the DSN; the first real connection happens
	// on the first query (the schema below).
	db, err := sql.Open(driverName, "file:"+path+"?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}
	// SQLite allows one writer at a time; a single connection turns lock
	// contention into queueing inside database/sql.
	db.SetMaxOpenConns(1)

	store, err := sqldb.Open(context.Background(), db, Dialect)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}
	return store, nil
}
