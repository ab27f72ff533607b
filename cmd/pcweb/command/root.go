// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the parking
// control web project. Commands are organized using the cobra library.
// The root command starts the web server itself while the "db"
// sub-command can be used for the database schema migrations and
// the "config" sub-command describes the configuration settings.
//
//	./pcweb [-c /path/of/main/config.yaml]           # start web server
//	./pcweb db migrate up [-c /path/of/main/config.yaml]
//	./pcweb db migrate down [steps] [-c /path/of/main/config.yaml]
//	./pcweb db migrate version [-c /path/of/main/config.yaml]
//	./pcweb config env
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/momeni/parking-control/pkg/adapter/config"
	"github.com/momeni/parking-control/pkg/adapter/restful/gin/routes"
	"github.com/momeni/parking-control/pkg/core/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "pcweb",
	Short: "Parking spots registration web service",
	Long: `Parking spots registration web service which keeps the
parking spots of a residential building, each one assigned to an
apartment/block and a vehicle, with the person who is responsible
for them.
A spot may be registered only if its vehicle license plate, its spot
number, and its apartment/block are not registered already.
Spots are kept in a PostgreSQL database (which its schema may be
created with the "db migrate up" sub-command) or in the process memory
for development and tests.`,
	RunE:         startWebServer,
	SilenceUsage: true,
}

// loadConfig loads the configuration file and installs the default
// slog logger which is described by its logging section.
func loadConfig() (*config.Config, error) {
	c, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	if err = c.Logging.Configure(os.Stderr); err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}
	return c, nil
}

func startWebServer(cmd *cobra.Command, _ []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(
		cmd.Context(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	e, m := c.Gin.NewEngine()
	if err = routes.Register(e, p, c, m); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	srv := &http.Server{
		Addr:    c.Gin.Address,
		Handler: e,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "web server is listening",
			slog.String("address", c.Gin.Address),
			slog.String("driver", c.Database.Driver),
		)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(
			context.WithoutCancel(gctx), c.Gin.ShutdownTimeout.Std(),
		)
		defer cancel()
		log.Info(sctx, "shutting down the web server")
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutting down http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code is
// zero for success and one for all failures.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		// the default path should usually be in the /etc directory
		cfgPath = "configs/sample-config.yaml"
	}
}
