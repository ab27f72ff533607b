// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package spotsuc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/momeni/parking-control/pkg/core/model"
	"github.com/momeni/parking-control/pkg/core/usecase/spotsuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGateway answers the existence queries from its flags and fails
// all queries with err if it is not nil.
type fakeGateway struct {
	plate, number, apartmentBlock bool
	err                           error
	calls                         []string
}

func (g *fakeGateway) ExistsByLicensePlate(context.Context, string) (bool, error) {
	g.calls = append(g.calls, "plate")
	return g.plate, g.err
}

func (g *fakeGateway) ExistsBySpotNumber(context.Context, string) (bool, error) {
	g.calls = append(g.calls, "number")
	return g.number, g.err
}

func (g *fakeGateway) ExistsByApartmentAndBlock(context.Context, string, string) (bool, error) {
	g.calls = append(g.calls, "apartment/block")
	return g.apartmentBlock, g.err
}

func (g *fakeGateway) Create(context.Context, *model.Spot) (*model.Spot, error) {
	panic("validator must not create spots")
}

func (g *fakeGateway) List(context.Context) ([]model.Spot, error) {
	panic("validator must not list spots")
}

func (g *fakeGateway) Get(context.Context, int64) (*model.Spot, error) {
	panic("validator must not get spots")
}

func (g *fakeGateway) Update(context.Context, *model.Spot) (*model.Spot, error) {
	panic("validator must not update spots")
}

func (g *fakeGateway) Delete(context.Context, *model.Spot) error {
	panic("validator must not delete spots")
}

func TestValidateForCreateFirstViolationWins(t *testing.T) {
	for _, tc := range []struct {
		name     string
		gw       fakeGateway
		expected error
		calls    []string
	}{
		{
			name:  "no violation",
			gw:    fakeGateway{},
			calls: []string{"plate", "number", "apartment/block"},
		},
		{
			name:     "all violated",
			gw:       fakeGateway{plate: true, number: true, apartmentBlock: true},
			expected: model.ErrDuplicateLicensePlate,
			calls:    []string{"plate"},
		},
		{
			name:     "number and apartment/block",
			gw:       fakeGateway{number: true, apartmentBlock: true},
			expected: model.ErrDuplicateSpotNumber,
			calls:    []string{"plate", "number"},
		},
		{
			name:     "plate and apartment/block",
			gw:       fakeGateway{plate: true, apartmentBlock: true},
			expected: model.ErrDuplicateLicensePlate,
			calls:    []string{"plate"},
		},
		{
			name:     "apartment/block only",
			gw:       fakeGateway{apartmentBlock: true},
			expected: model.ErrDuplicateApartmentBlock,
			calls:    []string{"plate", "number", "apartment/block"},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			gw := tc.gw
			err := spotsuc.NewValidator(&gw).ValidateForCreate(
				context.Background(), sampleSpot("1"),
			)
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
			}
			assert.Equal(t, tc.calls, gw.calls, "unexpected queries")
		})
	}
}

func TestValidateForCreateGatewayFailure(t *testing.T) {
	errDown := errors.New("store is down")
	gw := &fakeGateway{plate: true, err: errDown}
	err := spotsuc.NewValidator(gw).ValidateForCreate(
		context.Background(), sampleSpot("1"),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, errDown)
	assert.NotErrorIs(t, err, model.ErrDuplicateLicensePlate)
}

func TestPrepareForUpdateKeepsIdentity(t *testing.T) {
	registered := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	existing := sampleSpot("1")
	existing.ID = 5
	existing.RegisteredAt = registered

	fields := sampleSpot("2")
	fields.ID = 9
	fields.RegisteredAt = time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	fields.LicensePlate = existing.LicensePlate // collides on purpose
	fields.Brand = "Volkswagen"
	fields.Model = "Gol"
	fields.Color = "silver"
	fields.ResponsibleName = "Joao Souza"
	fields.Block = "C"
	fields.Email = "joao@example.com"
	fields.NationalID = "111.444.777-35"

	expected := *fields
	expected.ID = 5
	expected.RegisteredAt = registered

	s := spotsuc.PrepareForUpdate(existing, fields)
	assert.Equal(t, &expected, s)
	assert.Equal(t, int64(9), fields.ID, "fields must not be modified")
}
