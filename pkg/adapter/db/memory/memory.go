// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memory implements the repo.Pool and repo.Spots interfaces
// on top of an in-process table. It is used for development (when the
// configured database driver is "memory") and by the unit tests of
// the use cases.
//
// Transactions take an exclusive lock on the table and work on a copy
// of its rows which replaces the table rows on commit, so they are
// serializable. Statements which run on a Conn (outside a transaction)
// lock the table for their own duration only.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/momeni/parking-control/pkg/core/cerr"
	"github.com/momeni/parking-control/pkg/core/repo"
)

// ErrClosed is reported when a closed Pool is asked for a connection.
var ErrClosed = errors.New("memory pool is closed")

// Pool is an in-memory repo.Pool. Its zero value is not usable, use
// the NewPool function instead.
type Pool struct {
	mu     sync.Mutex // protects t and closed
	t      *table
	closed bool
}

// NewPool creates a Pool with an empty spots table.
func NewPool() *Pool {
	return &Pool{t: newTable()}
}

// Conn passes a connection to f. The context error (if any) is
// reported before calling f.
func (p *Pool) Conn(ctx context.Context, f repo.ConnHandler) error {
	if err := ctx.Err(); err != nil {
		return cerr.Unavailable(fmt.Errorf("acquiring connection: %w", err))
	}
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return cerr.Unavailable(ErrClosed)
	}
	return f(ctx, &Conn{p: p})
}

// Close marks p as closed. Its rows are kept, but no connection may
// be acquired anymore.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// lock acquires the table and returns it with its unlock function.
func (p *Pool) lock() (*table, func()) {
	p.mu.Lock()
	return p.t, p.mu.Unlock
}

// Conn is an in-memory repo.Conn.
type Conn struct {
	p *Pool
}

// Tx runs f in a transaction. Rows are copied for f, and the copy
// replaces the table rows only if f returns nil.
func (c *Conn) Tx(ctx context.Context, f repo.TxHandler) (err error) {
	t, unlock := c.p.lock()
	defer unlock()
	tx := &Tx{t: t.clone()}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panicked: %v", r)
			return
		}
		if err != nil {
			err = fmt.Errorf("handler: %w", err)
			return
		}
		c.p.t = tx.t
	}()
	return f(ctx, tx)
}

// SerializableTx is the same as Tx since all in-memory transactions
// are serialized by the table lock.
func (c *Conn) SerializableTx(ctx context.Context, f repo.TxHandler) error {
	return c.Tx(ctx, f)
}

func (c *Conn) IsConn() {
}

// Tx is an in-memory repo.Tx.
type Tx struct {
	t *table
}

func (tx *Tx) IsTx() {
}
