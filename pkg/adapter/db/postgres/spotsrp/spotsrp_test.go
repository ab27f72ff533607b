// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package spotsrp_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/momeni/parking-control/internal/test/dbcontainer"
	"github.com/momeni/parking-control/pkg/adapter/db/postgres"
	"github.com/momeni/parking-control/pkg/adapter/db/postgres/spotsrp"
	"github.com/momeni/parking-control/pkg/core/cerr"
	"github.com/momeni/parking-control/pkg/core/model"
	"github.com/momeni/parking-control/pkg/core/repo"
	"github.com/momeni/parking-control/pkg/core/usecase/spotsuc"
	"github.com/stretchr/testify/suite"
)

type IntegrationSpotsTestSuite struct {
	suite.Suite

	Ctx  context.Context
	Pg   *sqltestutil.PostgresContainer
	Pool *postgres.Pool
	Repo *spotsrp.Repo
}

func TestIntegrationSpotsTestSuite(t *testing.T) {
	ctx := context.Background()
	pg, pool, dfrs, ok := dbcontainer.New(ctx, 60*time.Second, t)
	for _, f := range dfrs {
		defer f()
	}
	if !ok {
		return // errors are already logged
	}
	suite.Run(t, &IntegrationSpotsTestSuite{
		Ctx:  ctx,
		Pg:   pg,
		Pool: pool,
		Repo: spotsrp.New(),
	})
}

// SetupTest empties the spots table, so each test starts from the
// first spot ID.
func (ists *IntegrationSpotsTestSuite) SetupTest() {
	err := ists.Pool.Conn(ists.Ctx, func(ctx context.Context, c repo.Conn) error {
		_, err := c.(*postgres.Conn).Exec(
			ctx, "TRUNCATE spots RESTART IDENTITY",
		)
		return err
	})
	ists.Require().NoError(err, "failed to truncate spots table")
}

func sampleSpot(suffix string) *model.Spot {
	return &model.Spot{
		SpotNumber:      "A" + suffix,
		LicensePlate:    "ABC1D" + suffix,
		Brand:           "Fiat",
		Model:           "Uno",
		Color:           "red",
		ResponsibleName: "Maria Silva",
		Apartment:       "10" + suffix,
		Block:           "B",
		Email:           "maria@example.com",
		NationalID:      "529.982.247-25",
		RegisteredAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (ists *IntegrationSpotsTestSuite) inTx(
	f func(ctx context.Context, q repo.SpotsTxQueryer) error,
) error {
	return ists.Pool.Conn(ists.Ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return f(ctx, ists.Repo.Tx(tx))
		})
	})
}

func (ists *IntegrationSpotsTestSuite) create(s *model.Spot) *model.Spot {
	var created *model.Spot
	err := ists.inTx(func(ctx context.Context, q repo.SpotsTxQueryer) error {
		var err error
		created, err = q.Create(ctx, s)
		return err
	})
	ists.Require().NoError(err, "failed to create spot")
	return created
}

func (ists *IntegrationSpotsTestSuite) TestRoundTrip() {
	s := ists.create(sampleSpot("1"))
	ists.Equal(int64(1), s.ID)

	err := ists.Pool.Conn(ists.Ctx, func(ctx context.Context, c repo.Conn) error {
		q := ists.Repo.Conn(c)
		got, err := q.Get(ctx, s.ID)
		ists.Require().NoError(err)
		ists.Equal(s, got)

		found, err := q.ExistsByLicensePlate(ctx, "ABC1D1")
		ists.Require().NoError(err)
		ists.True(found)
		found, err = q.ExistsBySpotNumber(ctx, "A2")
		ists.Require().NoError(err)
		ists.False(found)
		found, err = q.ExistsByApartmentAndBlock(ctx, "101", "B")
		ists.Require().NoError(err)
		ists.True(found)
		found, err = q.ExistsByApartmentAndBlock(ctx, "101", "C")
		ists.Require().NoError(err)
		ists.False(found)

		missing, err := q.Get(ctx, 99)
		ists.Nil(missing)
		return err
	})
	ists.NoError(err)
}

func (ists *IntegrationSpotsTestSuite) TestUniqueConstraints() {
	ists.create(sampleSpot("1"))
	for _, tc := range []struct {
		name     string
		modify   func(s *model.Spot)
		expected error
	}{
		{"plate", func(s *model.Spot) { s.LicensePlate = "ABC1D1" }, model.ErrDuplicateLicensePlate},
		{"number", func(s *model.Spot) { s.SpotNumber = "A1" }, model.ErrDuplicateSpotNumber},
		{"apartment/block", func(s *model.Spot) { s.Apartment = "101" }, model.ErrDuplicateApartmentBlock},
	} {
		ists.Run(tc.name, func() {
			s := sampleSpot("2")
			tc.modify(s)
			err := ists.inTx(func(ctx context.Context, q repo.SpotsTxQueryer) error {
				_, err := q.Create(ctx, s)
				return err
			})
			ists.ErrorIs(err, tc.expected)
		})
	}
}

func (ists *IntegrationSpotsTestSuite) TestValueTooLong() {
	s := sampleSpot("1")
	s.Brand = strings.Repeat("b", model.MaxVehicleFieldLen+1)
	err := ists.inTx(func(ctx context.Context, q repo.SpotsTxQueryer) error {
		_, err := q.Create(ctx, s)
		return err
	})
	ists.ErrorIs(err, model.ErrValueTooLong)
	var ce *cerr.Error
	ists.Require().ErrorAs(err, &ce)
	ists.Equal(http.StatusBadRequest, ce.HTTPStatusCode)
}

func (ists *IntegrationSpotsTestSuite) TestUpdateAndDelete() {
	s := ists.create(sampleSpot("1"))
	other := ists.create(sampleSpot("2"))
	err := ists.inTx(func(ctx context.Context, q repo.SpotsTxQueryer) error {
		fields := *s
		fields.Color = "black"
		updated, err := q.Update(ctx, &fields)
		ists.Require().NoError(err)
		ists.Equal(&fields, updated)

		fields.LicensePlate = other.LicensePlate
		_, err = q.Update(ctx, &fields)
		return err
	})
	ists.ErrorIs(err, model.ErrDuplicateLicensePlate)

	err = ists.inTx(func(ctx context.Context, q repo.SpotsTxQueryer) error {
		missing := *s
		missing.ID = 99
		_, err := q.Update(ctx, &missing)
		ists.ErrorIs(err, model.ErrSpotNotFound)
		ists.ErrorIs(q.Delete(ctx, &missing), model.ErrSpotNotFound)
		return q.Delete(ctx, s)
	})
	ists.Require().NoError(err)

	err = ists.Pool.Conn(ists.Ctx, func(ctx context.Context, c repo.Conn) error {
		ss, err := ists.Repo.Conn(c).List(ctx)
		ists.Require().NoError(err)
		ists.Require().Len(ss, 1)
		ists.Equal(other.ID, ss[0].ID)
		return nil
	})
	ists.NoError(err)
}

func (ists *IntegrationSpotsTestSuite) TestUseCase() {
	uc, err := spotsuc.New(
		ists.Pool, ists.Repo, spotsuc.WithSerializableRegistration(),
	)
	ists.Require().NoError(err)
	s, err := uc.Register(ists.Ctx, sampleSpot("1"))
	ists.Require().NoError(err)
	ists.Equal(time.UTC, s.RegisteredAt.Location())

	_, err = uc.Register(ists.Ctx, sampleSpot("1"))
	ists.ErrorIs(err, model.ErrDuplicateLicensePlate)
	var ce *cerr.Error
	ists.Require().ErrorAs(err, &ce)
	ists.Equal(http.StatusConflict, ce.HTTPStatusCode)

	fields := sampleSpot("1")
	fields.Color = "blue"
	updated, err := uc.Update(ists.Ctx, s.ID, fields)
	ists.Require().NoError(err)
	ists.True(s.RegisteredAt.Equal(updated.RegisteredAt))

	ists.NoError(uc.Delete(ists.Ctx, s.ID))
	_, err = uc.Get(ists.Ctx, s.ID)
	ists.ErrorIs(err, model.ErrSpotNotFound)
}
