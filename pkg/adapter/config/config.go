// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the pcweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings. Settings which carry an env tag may be
// overridden by their PCWEB_* environment variables.
// The parsed and validated configurations are passed to their
// ultimate components as a series of individual params (for the
// mandatory items) and a series of functional options (for the
// optional items), so they may be validated again by the relevant
// end-component such as a UseCase instance.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/momeni/parking-control/pkg/adapter/config/settings"
	"github.com/momeni/parking-control/pkg/adapter/db/memory"
	"github.com/momeni/parking-control/pkg/adapter/db/postgres"
	"github.com/momeni/parking-control/pkg/adapter/db/postgres/migration"
	"github.com/momeni/parking-control/pkg/adapter/db/postgres/spotsrp"
	"github.com/momeni/parking-control/pkg/adapter/restful/gin"
	"github.com/momeni/parking-control/pkg/core/log"
	"github.com/momeni/parking-control/pkg/core/repo"
	"github.com/momeni/parking-control/pkg/core/usecase/spotsuc"
	"gopkg.in/yaml.v3"
)

// Supported values of the database driver setting.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// These bounds limit the graceful shutdown timeout of the web server.
var (
	minShutdownTimeout = settings.Duration(time.Second)
	maxShutdownTimeout = settings.Duration(5 * time.Minute)
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so the configuration format can be kept intact while other
// layers can change freely.
type Config struct {
	Database Database `yaml:"database"` // spots store settings
	Gin      Gin      `yaml:"gin"`      // Gin-Gonic instantiation settings
	Logging  Logging  `yaml:"logging"`  // default slog logger settings
	Usecases Usecases `yaml:"usecases"` // Supported use cases settings
}

// Database contains the spots store settings. The memory driver keeps
// all spots in the process memory and ignores other fields.
type Database struct {
	Driver   string `yaml:"driver" env:"PCWEB_DB_DRIVER" env-description:"spots store driver, postgres or memory"`
	Host     string `yaml:"host" env:"PCWEB_DB_HOST" env-description:"PostgreSQL server host"`
	Port     int    `yaml:"port" env:"PCWEB_DB_PORT" env-description:"PostgreSQL server port"`
	Name     string `yaml:"name" env:"PCWEB_DB_NAME" env-description:"database name"`
	User     string `yaml:"user" env:"PCWEB_DB_USER" env-description:"database role name"`
	Password string `yaml:"password" env:"PCWEB_DB_PASSWORD" env-description:"database role password"`
	SSLMode  string `yaml:"sslmode" env:"PCWEB_DB_SSLMODE" env-description:"libpq sslmode, e.g., disable or require"`
}

// ConnectionURL returns the PostgreSQL connection URL of d settings.
func (d Database) ConnectionURL() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// ConnectionPool creates a connection pool for the configured driver.
func (d Database) ConnectionPool(ctx context.Context) (repo.Pool, error) {
	switch d.Driver {
	case DriverMemory:
		return memory.NewPool(), nil
	case DriverPostgres:
		p, err := postgres.NewPool(ctx, d.ConnectionURL())
		if err != nil {
			return nil, fmt.Errorf(
				"connecting to %s:%d/%s: %w", d.Host, d.Port, d.Name, err,
			)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", d.Driver)
	}
}

// NewSpotsRepo instantiates the spots repository which matches with
// the configured driver, hence, it may be used with the pools which
// are created by the ConnectionPool method.
func (d Database) NewSpotsRepo() repo.Spots {
	if d.Driver == DriverMemory {
		return memory.NewSpotsRepo()
	}
	return spotsrp.New()
}

// NewMigrator instantiates a schema migrator for the configured
// PostgreSQL database. The memory driver needs no migrations.
func (d Database) NewMigrator() (*migration.Migrator, error) {
	if d.Driver != DriverPostgres {
		return nil, fmt.Errorf(
			"%q database driver has no schema to migrate", d.Driver,
		)
	}
	return migration.New(d.ConnectionURL())
}

func (d *Database) ValidateAndNormalize() error {
	if d.Driver == "" {
		d.Driver = DriverPostgres
	}
	switch d.Driver {
	case DriverMemory:
		return nil
	case DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver: %q", d.Driver)
	}
	if d.Host == "" {
		d.Host = "127.0.0.1"
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.Port < 0 || d.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", d.Port)
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.Name == "" {
		return fmt.Errorf("database name is required")
	}
	return nil
}

// Gin contains the web server settings. Missing middleware flags are
// taken as true.
type Gin struct {
	Logger   *bool `yaml:"logger"`   // Whether to log the requests with ginslog
	Recovery *bool `yaml:"recovery"` // Whether to register the gin.Recovery() middleware
	Metrics  *bool `yaml:"metrics"`  // Whether to collect and expose the /metrics

	Address         string            `yaml:"address" env:"PCWEB_GIN_ADDRESS" env-description:"web server listening address"`
	ShutdownTimeout settings.Duration `yaml:"shutdown-timeout" env:"PCWEB_GIN_SHUTDOWN_TIMEOUT" env-description:"graceful shutdown timeout, e.g., 10s"`
}

// NewEngine instantiates a gin engine and registers the selected
// middlewares on it. The request id and CORS middlewares are always
// registered. The returned metrics is nil if metrics are disabled.
func (g Gin) NewEngine() (*gin.Engine, *gin.Metrics) {
	middlewares := []gin.HandlerFunc{gin.RequestID()}
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	var m *gin.Metrics
	if *g.Metrics {
		m = gin.NewMetrics()
		middlewares = append(middlewares, m.Middleware())
	}
	middlewares = append(middlewares, gin.CORS(time.Hour))
	return gin.New(middlewares...), m
}

func (g *Gin) ValidateAndNormalize() error {
	t := true
	settings.OverwriteNil(&g.Logger, &t)
	settings.OverwriteNil(&g.Recovery, &t)
	settings.OverwriteNil(&g.Metrics, &t)
	if g.Address == "" {
		g.Address = ":8080"
	}
	if _, _, err := net.SplitHostPort(g.Address); err != nil {
		return fmt.Errorf("invalid address %q: %w", g.Address, err)
	}
	if g.ShutdownTimeout == 0 {
		g.ShutdownTimeout = settings.Duration(10 * time.Second)
	}
	timeout := &g.ShutdownTimeout
	if err := settings.VerifyRange(
		&timeout, &minShutdownTimeout, &maxShutdownTimeout,
	); err != nil {
		return fmt.Errorf(
			"shutdown timeout must be in [%v, %v]: %w",
			minShutdownTimeout.Std(), maxShutdownTimeout.Std(), err,
		)
	}
	return nil
}

// Logging contains the default slog logger settings.
type Logging struct {
	Level  string `yaml:"level" env:"PCWEB_LOG_LEVEL" env-description:"minimum log level: debug, info, warn, or error"`
	Format string `yaml:"format" env:"PCWEB_LOG_FORMAT" env-description:"log format: text or json"`
}

// Configure installs the default slog logger which writes to w.
func (l Logging) Configure(w io.Writer) error {
	return log.Configure(w, l.Level, l.Format)
}

func (l *Logging) ValidateAndNormalize() error {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", l.Level, err)
	}
	switch l.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unsupported log format: %q", l.Format)
	}
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Spots Spots `yaml:"spots"` // spots use cases related settings
}

// Spots contains the configuration settings for the spots use cases.
type Spots struct {
	// SerializableRegistration asks the registration checks and
	// insertion to be performed in a SERIALIZABLE transaction.
	SerializableRegistration *bool `yaml:"serializable-registration"`
}

// NewUseCase instantiates a new spots use case based on the settings
// in the s struct.
func (s Spots) NewUseCase(
	p repo.Pool, r repo.Spots,
) (*spotsuc.UseCase, error) {
	opts := make([]spotsuc.Option, 0, 1)
	if s.SerializableRegistration != nil && *s.SerializableRegistration {
		opts = append(opts, spotsuc.WithSerializableRegistration())
	}
	return spotsuc.New(p, r, opts...)
}

// ConnectionPool creates a spots store connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(ctx context.Context) (repo.Pool, error) {
	return c.Database.ConnectionPool(ctx)
}

// NewSpotsRepo instantiates the spots repository of the configured
// database driver.
func (c *Config) NewSpotsRepo() repo.Spots {
	return c.Database.NewSpotsRepo()
}

// NewSpotsUseCase instantiates a new spots use case based on the
// settings in the c struct.
func (c *Config) NewSpotsUseCase(
	p repo.Pool, r repo.Spots,
) (*spotsuc.UseCase, error) {
	return c.Usecases.Spots.NewUseCase(p, r)
}

// Load reads the path configuration file and parses it (see Parse).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse unmarshals the data byte slice as a Config instance. Extra
// items in the data will be ignored and missing items will take their
// default values. Thereafter, the PCWEB_* environment variables
// override their relevant settings and the resulting Config will be
// validated and normalized.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := cleanenv.ReadEnv(c); err != nil {
		return nil, fmt.Errorf("reading environment variables: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates all settings and fills the missing
// optional settings with their default values.
func (c *Config) ValidateAndNormalize() error {
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Gin.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating gin settings: %w", err)
	}
	if err := c.Logging.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating logging settings: %w", err)
	}
	settings.Nil2Zero(&c.Usecases.Spots.SerializableRegistration)
	return nil
}

// EnvDescription describes the environment variables which may
// override the configuration settings.
func EnvDescription() (string, error) {
	header := "Environment variables:"
	return cleanenv.GetDescription(&Config{}, &header)
}
