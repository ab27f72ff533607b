// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/momeni/parking-control/pkg/adapter/db/postgres/migration"
	"github.com/momeni/parking-control/pkg/core/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema version",
	Long: `Manage the database schema version by applying or reverting
the embedded migration files. The schema version is kept by the
schema_migrations table in the configured PostgreSQL database.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(ctx context.Context, mg *migration.Migrator, _ []string) error {
		if err := mg.Up(); err != nil {
			return fmt.Errorf("migrating up: %w", err)
		}
		return reportVersion(ctx, mg)
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Revert the last steps migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withMigrator(func(ctx context.Context, mg *migration.Migrator, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return fmt.Errorf("steps must be a positive integer: %q", args[0])
			}
			steps = n
		}
		if err := mg.Down(steps); err != nil {
			return fmt.Errorf("migrating %d steps down: %w", steps, err)
		}
		return reportVersion(ctx, mg)
	}),
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(ctx context.Context, mg *migration.Migrator, _ []string) error {
		return reportVersion(ctx, mg)
	}),
}

func withMigrator(
	f func(ctx context.Context, mg *migration.Migrator, args []string) error,
) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		c, err := loadConfig()
		if err != nil {
			return err
		}
		mg, err := c.Database.NewMigrator()
		if err != nil {
			return fmt.Errorf("creating migrator: %w", err)
		}
		defer func() {
			err = errors.Join(err, mg.Close())
		}()
		return f(cmd.Context(), mg, args)
	}
}

func reportVersion(ctx context.Context, mg *migration.Migrator) error {
	v, dirty, err := mg.Version()
	if err != nil {
		return fmt.Errorf("querying schema version: %w", err)
	}
	log.Info(ctx, "database schema version",
		slog.Uint64("version", uint64(v)), slog.Bool("dirty", dirty),
	)
	return nil
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	dbCmd.AddCommand(migrateCmd)
}
