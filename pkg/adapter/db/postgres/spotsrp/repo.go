// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package spotsrp implements the repo.Spots interface for a PostgreSQL
// database. Queries are written once as generic functions over the
// postgres.Queryer constraint and are exposed for connections and
// transactions by the connQueryer and txQueryer types.
package spotsrp

import (
	"context"

	"github.com/momeni/parking-control/pkg/adapter/db/postgres"
	"github.com/momeni/parking-control/pkg/core/model"
	"github.com/momeni/parking-control/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (spots *Repo) Conn(c repo.Conn) repo.SpotsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) ExistsByLicensePlate(ctx context.Context, plate string) (bool, error) {
	return ExistsByLicensePlate(ctx, cq.Conn, plate)
}

func (cq connQueryer) ExistsBySpotNumber(ctx context.Context, number string) (bool, error) {
	return ExistsBySpotNumber(ctx, cq.Conn, number)
}

func (cq connQueryer) ExistsByApartmentAndBlock(ctx context.Context, apartment, block string) (bool, error) {
	return ExistsByApartmentAndBlock(ctx, cq.Conn, apartment, block)
}

func (cq connQueryer) Create(ctx context.Context, s *model.Spot) (*model.Spot, error) {
	return Create(ctx, cq.Conn, s)
}

func (cq connQueryer) List(ctx context.Context) ([]model.Spot, error) {
	return List(ctx, cq.Conn)
}

func (cq connQueryer) Get(ctx context.Context, id int64) (*model.Spot, error) {
	return Get(ctx, cq.Conn, id)
}

func (cq connQueryer) Update(ctx context.Context, s *model.Spot) (*model.Spot, error) {
	return Update(ctx, cq.Conn, s)
}

func (cq connQueryer) Delete(ctx context.Context, s *model.Spot) error {
	return Delete(ctx, cq.Conn, s)
}

type txQueryer struct {
	*postgres.Tx
}

func (spots *Repo) Tx(tx repo.Tx) repo.SpotsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) ExistsByLicensePlate(ctx context.Context, plate string) (bool, error) {
	return ExistsByLicensePlate(ctx, tq.Tx, plate)
}

func (tq txQueryer) ExistsBySpotNumber(ctx context.Context, number string) (bool, error) {
	return ExistsBySpotNumber(ctx, tq.Tx, number)
}

func (tq txQueryer) ExistsByApartmentAndBlock(ctx context.Context, apartment, block string) (bool, error) {
	return ExistsByApartmentAndBlock(ctx, tq.Tx, apartment, block)
}

func (tq txQueryer) Create(ctx context.Context, s *model.Spot) (*model.Spot, error) {
	return Create(ctx, tq.Tx, s)
}

func (tq txQueryer) List(ctx context.Context) ([]model.Spot, error) {
	return List(ctx, tq.Tx)
}

func (tq txQueryer) Get(ctx context.Context, id int64) (*model.Spot, error) {
	return Get(ctx, tq.Tx, id)
}

func (tq txQueryer) Update(ctx context.Context, s *model.Spot) (*model.Spot, error) {
	return Update(ctx, tq.Tx, s)
}

func (tq txQueryer) Delete(ctx context.Context, s *model.Spot) error {
	return Delete(ctx, tq.Tx, s)
}
