// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// TxHandler is called with a transaction which is committed if the
// handler returns nil and is rolled back otherwise.
type TxHandler func(context.Context, Tx) error

// Conn represents a database connection.
// It is unsafe to be used concurrently.
type Conn interface {
	// Tx begins a transaction with the default isolation level of
	// the store and runs handler in it.
	Tx(ctx context.Context, handler TxHandler) error

	// SerializableTx is like Tx, but asks for the SERIALIZABLE
	// isolation level, so concurrent check-then-insert sequences
	// may not interleave.
	SerializableTx(ctx context.Context, handler TxHandler) error

	// IsConn method prevents a non-Conn object (such as a Tx) to
	// mistakenly implement the Conn interface.
	IsConn()
}
