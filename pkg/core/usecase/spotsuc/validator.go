// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package spotsuc

import (
	"context"
	"fmt"

	"github.com/momeni/parking-control/pkg/core/model"
	"github.com/momeni/parking-control/pkg/core/repo"
)

// Validator checks the registration uniqueness rules of a candidate
// spot against the current contents of a spots store.
// The checks are read-only and are not atomic with respect to a later
// Create call, unless both are performed in one serializable
// transaction. The store-level unique constraints remain the actual
// enforcement point and the Validator only provides the early and more
// descriptive rejections.
type Validator struct {
	q repo.SpotsQueryer
}

// NewValidator instantiates a Validator which queries the q gateway.
func NewValidator(q repo.SpotsQueryer) Validator {
	return Validator{q: q}
}

// ValidateForCreate returns nil if candidate may be registered.
// Otherwise, it returns the first violated rule, checking the license
// plate, the spot number, and the apartment/block pair in this order.
// Only one of model.ErrDuplicateLicensePlate, ErrDuplicateSpotNumber,
// or ErrDuplicateApartmentBlock is returned even if several rules are
// violated. Gateway errors are returned after wrapping.
func (v Validator) ValidateForCreate(
	ctx context.Context, candidate *model.Spot,
) error {
	found, err := v.q.ExistsByLicensePlate(ctx, candidate.LicensePlate)
	if err != nil {
		return fmt.Errorf("checking license plate: %w", err)
	}
	if found {
		return model.ErrDuplicateLicensePlate
	}
	found, err = v.q.ExistsBySpotNumber(ctx, candidate.SpotNumber)
	if err != nil {
		return fmt.Errorf("checking spot number: %w", err)
	}
	if found {
		return model.ErrDuplicateSpotNumber
	}
	found, err = v.q.ExistsByApartmentAndBlock(
		ctx, candidate.Apartment, candidate.Block,
	)
	if err != nil {
		return fmt.Errorf("checking apartment/block: %w", err)
	}
	if found {
		return model.ErrDuplicateApartmentBlock
	}
	return nil
}

// PrepareForUpdate builds the replacement of the existing spot.
// All fields are copied from the fields argument, but the ID and
// RegisteredAt which are carried over from existing.
//
// The uniqueness rules are not checked again, so resubmitting the
// current plate of a spot is accepted. A collision with another spot
// is not detected here either; only the store-level constraints may
// reject it.
// TODO: decide with the building administration whether updates must
// run ValidateForCreate against the other spots too.
func PrepareForUpdate(existing, fields *model.Spot) *model.Spot {
	s := *fields
	s.ID = existing.ID
	s.RegisteredAt = existing.RegisteredAt
	return &s
}
