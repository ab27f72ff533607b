// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memory_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/momeni/parking-control/pkg/adapter/db/memory"
	"github.com/momeni/parking-control/pkg/core/cerr"
	"github.com/momeni/parking-control/pkg/core/model"
	"github.com/momeni/parking-control/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spot(plate, number, apartment string) *model.Spot {
	return &model.Spot{
		LicensePlate: plate,
		SpotNumber:   number,
		Apartment:    apartment,
		Block:        "A",
	}
}

// inTx runs f in a transaction of a fresh connection of p.
func inTx(p *memory.Pool, f func(ctx context.Context, q repo.SpotsQueryer) error) error {
	r := memory.NewSpotsRepo()
	return p.Conn(context.Background(), func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return f(ctx, r.Tx(tx))
		})
	})
}

func list(t *testing.T, p *memory.Pool) []model.Spot {
	t.Helper()
	var ss []model.Spot
	r := memory.NewSpotsRepo()
	err := p.Conn(context.Background(), func(ctx context.Context, c repo.Conn) error {
		var err error
		ss, err = r.Conn(c).List(ctx)
		return err
	})
	require.NoError(t, err)
	return ss
}

func TestCommitAndRollback(t *testing.T) {
	p := memory.NewPool()
	err := inTx(p, func(ctx context.Context, q repo.SpotsQueryer) error {
		_, err := q.Create(ctx, spot("AAA1111", "1", "11"))
		return err
	})
	require.NoError(t, err)
	assert.Len(t, list(t, p), 1)

	errAbort := errors.New("abort")
	err = inTx(p, func(ctx context.Context, q repo.SpotsQueryer) error {
		if _, err := q.Create(ctx, spot("BBB2222", "2", "22")); err != nil {
			return err
		}
		found, err := q.ExistsByLicensePlate(ctx, "BBB2222")
		require.NoError(t, err)
		assert.True(t, found, "tx must see its own rows")
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)
	assert.Len(t, list(t, p), 1, "aborted rows must be discarded")

	err = inTx(p, func(ctx context.Context, q repo.SpotsQueryer) error {
		_, err := q.Create(ctx, spot("CCC3333", "3", "33"))
		require.NoError(t, err)
		panic("boom")
	})
	assert.Error(t, err)
	assert.Len(t, list(t, p), 1, "panicking tx must be rolled back")
}

func TestConstraints(t *testing.T) {
	p := memory.NewPool()
	var first *model.Spot
	err := inTx(p, func(ctx context.Context, q repo.SpotsQueryer) error {
		var err error
		first, err = q.Create(ctx, spot("AAA1111", "1", "11"))
		return err
	})
	require.NoError(t, err)

	for _, tc := range []struct {
		s        *model.Spot
		expected error
	}{
		{spot("AAA1111", "1", "11"), model.ErrDuplicateLicensePlate},
		{spot("BBB2222", "1", "11"), model.ErrDuplicateSpotNumber},
		{spot("BBB2222", "2", "11"), model.ErrDuplicateApartmentBlock},
	} {
		err := inTx(p, func(ctx context.Context, q repo.SpotsQueryer) error {
			_, err := q.Create(ctx, tc.s)
			return err
		})
		assert.ErrorIs(t, err, tc.expected)
	}

	err = inTx(p, func(ctx context.Context, q repo.SpotsQueryer) error {
		s := *first
		s.Color = "green"
		_, err := q.Update(ctx, &s)
		return err
	})
	assert.NoError(t, err, "a row does not collide with itself")
}

func TestColumnWidths(t *testing.T) {
	p := memory.NewPool()
	var first *model.Spot
	err := inTx(p, func(ctx context.Context, q repo.SpotsQueryer) error {
		s := spot("AAA1111", "1", "11")
		s.Brand = strings.Repeat("b", model.MaxVehicleFieldLen)
		var err error
		first, err = q.Create(ctx, s)
		return err
	})
	require.NoError(t, err, "values may fill their columns")

	for name, f := range map[string]func(ctx context.Context, q repo.SpotsQueryer) error{
		"create": func(ctx context.Context, q repo.SpotsQueryer) error {
			s := spot("BBB2222", "2", "22")
			s.Brand = strings.Repeat("b", model.MaxVehicleFieldLen+1)
			_, err := q.Create(ctx, s)
			return err
		},
		"update": func(ctx context.Context, q repo.SpotsQueryer) error {
			s := *first
			s.SpotNumber = strings.Repeat("9", model.MaxSpotNumberLen+1)
			_, err := q.Update(ctx, &s)
			return err
		},
	} {
		err := inTx(p, f)
		assert.ErrorIs(t, err, model.ErrValueTooLong, name)
		var ce *cerr.Error
		require.ErrorAs(t, err, &ce, name)
		assert.Equal(t, http.StatusBadRequest, ce.HTTPStatusCode, name)
	}
	assert.Len(t, list(t, p), 1)
}

func TestGetMissingIsNotAnError(t *testing.T) {
	p := memory.NewPool()
	err := inTx(p, func(ctx context.Context, q repo.SpotsQueryer) error {
		s, err := q.Get(ctx, 1)
		assert.Nil(t, s)
		return err
	})
	assert.NoError(t, err)
}

func TestMissingRows(t *testing.T) {
	p := memory.NewPool()
	err := inTx(p, func(ctx context.Context, q repo.SpotsQueryer) error {
		s := spot("AAA1111", "1", "11")
		s.ID = 3
		_, err := q.Update(ctx, s)
		assert.ErrorIs(t, err, model.ErrSpotNotFound)
		return q.Delete(ctx, s)
	})
	assert.ErrorIs(t, err, model.ErrSpotNotFound)
}

func TestClosedPool(t *testing.T) {
	p := memory.NewPool()
	require.NoError(t, p.Close())
	called := false
	err := p.Conn(context.Background(), func(context.Context, repo.Conn) error {
		called = true
		return nil
	})
	assert.False(t, called)
	assert.ErrorIs(t, err, memory.ErrClosed)
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusServiceUnavailable, ce.HTTPStatusCode)
}
