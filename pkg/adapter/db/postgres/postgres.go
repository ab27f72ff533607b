// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres adapts a PostgreSQL database (accessed through GORM
// and the pgx driver) to the repo.Pool, repo.Conn, and repo.Tx
// interfaces. Entity repositories live in sub-packages (like spotsrp)
// and the schema is maintained by the migration sub-package.
package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/parking-control/pkg/core/cerr"
	"github.com/momeni/parking-control/pkg/core/model"
)

// These constants are the names of the unique constraints of the
// spots table, as created by the migration package.
const (
	SpotsLicensePlateKey   = "spots_license_plate_key"
	SpotsSpotNumberKey     = "spots_spot_number_key"
	SpotsApartmentBlockKey = "spots_apartment_block_key"
)

// These SQLSTATE codes are reported for unique_violation and
// string_data_right_truncation errors.
const (
	uniqueViolation = "23505"
	valueTooLong    = "22001"
)

// MapError translates err which is returned by the database driver.
// Violations of the spots unique constraints are replaced by their
// corresponding model.ErrDuplicate* errors, so the same errors are
// reported by the registration validator and the database. All other
// errors are wrapped as cerr.Unavailable since they may not be
// recovered by the callers. Values which do not fit in their columns
// are wrapped as cerr.BadRequest. A nil err is returned as nil.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == valueTooLong {
		return cerr.BadRequest(
			fmt.Errorf("%w: %w", model.ErrValueTooLong, err),
		)
	}
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case SpotsLicensePlateKey:
			return fmt.Errorf("%w: %w", model.ErrDuplicateLicensePlate, err)
		case SpotsSpotNumberKey:
			return fmt.Errorf("%w: %w", model.ErrDuplicateSpotNumber, err)
		case SpotsApartmentBlockKey:
			return fmt.Errorf("%w: %w", model.ErrDuplicateApartmentBlock, err)
		}
	}
	return cerr.Unavailable(err)
}
