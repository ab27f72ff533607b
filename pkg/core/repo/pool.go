// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo contains the interfaces which the use cases expect from
// the persistence adapters. A Pool hands out connections, a Conn may
// begin transactions, and each entity repository (like Spots) turns a
// Conn or a Tx into a queryer which runs that entity queries on it.
// Use cases only depend on these interfaces, so a PostgreSQL or an
// in-memory store may be chosen by the configuration settings.
package repo

import "context"

// ConnHandler is called with a connection which is acquired from a
// Pool and released as soon as the handler returns.
type ConnHandler func(context.Context, Conn) error

// Pool represents a connections pool.
type Pool interface {
	// Conn acquires a connection, passes it to handler, and releases
	// it afterwards. Errors of handler are returned as is.
	Conn(ctx context.Context, handler ConnHandler) error

	// Close releases all connections of the pool.
	Close() error
}
