// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/parking-control/pkg/adapter/db/postgres"
	"github.com/momeni/parking-control/pkg/core/cerr"
	"github.com/momeni/parking-control/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, postgres.MapError(nil))

	for constraint, expected := range map[string]error{
		postgres.SpotsLicensePlateKey:   model.ErrDuplicateLicensePlate,
		postgres.SpotsSpotNumberKey:     model.ErrDuplicateSpotNumber,
		postgres.SpotsApartmentBlockKey: model.ErrDuplicateApartmentBlock,
	} {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: constraint}
		err := postgres.MapError(fmt.Errorf("insert: %w", pgErr))
		assert.ErrorIs(t, err, expected, "constraint=%s", constraint)
		assert.ErrorIs(t, err, pgErr, "driver error must be kept")
	}

	pgErr := &pgconn.PgError{Code: "22001"}
	err := postgres.MapError(fmt.Errorf("insert: %w", pgErr))
	assert.ErrorIs(t, err, model.ErrValueTooLong)
	assert.ErrorIs(t, err, pgErr)
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusBadRequest, ce.HTTPStatusCode)

	for _, err := range []error{
		&pgconn.PgError{Code: "23505", ConstraintName: "spots_pkey"},
		&pgconn.PgError{Code: "57P01"},
		errors.New("connection reset by peer"),
	} {
		mapped := postgres.MapError(err)
		var ce *cerr.Error
		require.ErrorAs(t, mapped, &ce)
		assert.Equal(t, http.StatusServiceUnavailable, ce.HTTPStatusCode)
		assert.ErrorIs(t, mapped, err)
	}
}
