// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momeni/parking-control/pkg/core/cerr"
	"github.com/momeni/parking-control/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool is a PostgreSQL connections pool which is managed by GORM.
type Pool struct {
	*gorm.DB
}

// NewPool connects to the url PostgreSQL database and tests the
// connection by acquiring one connection from the pool.
// GORM warnings (including the slow queries) are written to the
// default slog logger.
func NewPool(ctx context.Context, url string) (*Pool, error) {
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	gdb = gdb.Session(&gorm.Session{
		Logger: logger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
				// Set to false in order to log with replaced vars
				ParameterizedQueries: true,
			}),
	})
	pool := &Pool{DB: gdb}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn acquires a connection and passes it to f. Failing to acquire
// a connection is reported as a cerr.Unavailable error, while errors
// of f are returned unchanged.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	acquired := false
	err := p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		acquired = true
		cc := &Conn{DB: c}
		return f(ctx, cc)
	})
	if err != nil && !acquired {
		return cerr.Unavailable(fmt.Errorf("acquiring connection: %w", err))
	}
	return err
}

func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
