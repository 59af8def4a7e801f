// Package postgres provides the PostgreSQL backend. Like package sqlite
// it only contributes a schema and error recognition; the queries are
// shared through package sqldb. pgx is used through its database/sql
// driver so both backends run the same code.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/Sonukathat/shiwansh-project/internal/config"
	"github.com/Sonukathat/shiwansh-project/internal/storage/sqldb"
)

const (
	driverName = "pgx"
	defaultDSN = "postgres://localhost/admin_panel?sslmode=disable"

	// uniqueViolation is the SQLSTATE for unique_violation.
	uniqueViolation = "23505"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id      BIGSERIAL PRIMARY KEY,
		country TEXT      NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS location_states (
		location_id BIGINT  NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
		position    INTEGER NOT NULL,
		name        TEXT    NOT NULL,
		UNIQUE (location_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS districts (
		id         BIGSERIAL   PRIMARY KEY,
		country    TEXT        NOT NULL,
		state      TEXT        NOT NULL,
		district   TEXT        NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (country, state, district)
	)`,
	`CREATE TABLE IF NOT EXISTS countries (
		id         BIGSERIAL   PRIMARY KEY,
		name       TEXT        NOT NULL UNIQUE,
		image      TEXT        NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS languages (
		id         BIGSERIAL   PRIMARY KEY,
		name       TEXT        NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL   PRIMARY KEY,
		name       TEXT        NOT NULL,
		email      TEXT        NOT NULL UNIQUE,
		mobile     TEXT        NOT NULL,
		image      TEXT        NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id         BIGSERIAL   PRIMARY KEY,
		name       TEXT        NOT NULL,
		email      TEXT        NOT NULL UNIQUE,
		mobile     TEXT        NOT NULL,
		country    TEXT        NOT NULL DEFAULT '',
		state      TEXT        NOT NULL DEFAULT '',
		district   TEXT        NOT NULL DEFAULT '',
		gender     TEXT        NOT NULL DEFAULT '',
		languages  TEXT        NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id         BIGSERIAL   PRIMARY KEY,
		name       TEXT        NOT NULL,
		email      TEXT        NOT NULL UNIQUE,
		mobile     TEXT        NOT NULL,
		country    TEXT        NOT NULL,
		state      TEXT        NOT NULL,
		district   TEXT        NOT NULL,
		gender     TEXT        NOT NULL CHECK (gender IN ('Male', 'Female', 'Other')),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// Dialect is the sqldb dialect for PostgreSQL.
var Dialect = sqldb.Dialect{
	Name:               "postgres",
	Schema:             schema,
	DollarPlaceholders: true,
	IsUniqueViolation:  isUniqueViolation,
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// New connects to cfg.Storage.PostgresDSN, verifies the connection and
// applies the schema.
func New(ctx context.Context, cfg *config.Config) (*sqldb.Store, error) {
	dsn := cfg.Storage.PostgresDSN
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: open: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}
	store, err := sqldb.Open(ctx, db, Dialect)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres.New: %w", err)
	}
	return store, nil
}
