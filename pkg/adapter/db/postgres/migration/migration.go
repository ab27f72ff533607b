// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migration maintains the database schema. The schema versions
// are kept as numbered pairs of up/down SQL files which are embedded
// in the binary and applied by the golang-migrate library, recording
// the current version in the schema_migrations table.
package migration

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5 scheme
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// Migrator applies the embedded migrations to one database.
type Migrator struct {
	m *migrate.Migrate
}

// New creates a Migrator for the dbURL database. The dbURL may use
// the postgres or postgresql schemes (as accepted by NewPool too).
func New(dbURL string) (*Migrator, error) {
	u, err := url.Parse(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql", "pgx5":
		u.Scheme = "pgx5"
	default:
		return nil, fmt.Errorf("unsupported database scheme: %q", u.Scheme)
	}
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("iofs.New: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, u.String())
	if err != nil {
		return nil, fmt.Errorf("migrate.NewWithSourceInstance: %w", err)
	}
	m.Log = logger{}
	return &Migrator{m: m}, nil
}

// Up applies all pending migrations. Having no pending migration is
// not an error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Down reverts the last steps applied migrations.
func (mg *Migrator) Down(steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps (%d) is not positive", steps)
	}
	err := mg.m.Steps(-steps)
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Version returns the current schema version and its dirty flag.
// A database which is never migrated has the zero version.
func (mg *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return
}

// Close releases the source and database connections.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// logger adapts the default slog logger to the migrate.Logger.
type logger struct{}

func (logger) Printf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...), slog.String("component", "migrate"))
}

func (logger) Verbose() bool {
	return false
}
