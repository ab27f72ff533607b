// Copyright (c) 2023 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by ORM
// libraries) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
package model

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"
)

// Spot models a parking spot which is registered for one apartment of
// a residential building (identified by its apartment and block) and
// one vehicle (identified by its license plate). Each spot has a person
// who is responsible for it.
//
// The json tags follow the established wire format of the parking
// control REST APIs. For the database representation of a Spot, see
// the unexported gSpot struct in the
// pkg/adapter/db/postgres/spotsrp/query.go file.
type Spot struct {
	// ID is assigned by the store when a spot is created and never
	// changes afterwards.
	ID int64 `json:"id"`

	SpotNumber      string `json:"parkingSpotNumber"`
	LicensePlate    string `json:"licensePlateCar"`
	Brand           string `json:"brandCar"`
	Model           string `json:"modelCar"`
	Color           string `json:"colorCar"`
	ResponsibleName string `json:"responsibleName"`
	Apartment       string `json:"apartment"`
	Block           string `json:"block"`
	Email           string `json:"email"`
	NationalID      string `json:"cpf"`

	// RegisteredAt is the UTC registration time. It is set once by the
	// registration use case and is preserved by all updates.
	RegisteredAt time.Time `json:"registrationDate"`
}

// These limits are the maximum number of characters of the Spot
// fields. They match the widths of the spots table columns.
const (
	MaxLicensePlateLen    = 7
	MaxSpotNumberLen      = 32
	MaxVehicleFieldLen    = 70 // brand, model, and color
	MaxResponsibleNameLen = 130
	MaxApartmentLen       = 30 // apartment and block
	MaxEmailLen           = 254
	MaxNationalIDLen      = 14
)

// ErrValueTooLong indicates that a field has more characters than its
// column may store.
var ErrValueTooLong = errors.New("value is too long for its field")

// CheckLengths returns an error wrapping ErrValueTooLong and naming
// the first field of s which is longer than its limit, or nil.
func (s *Spot) CheckLengths() error {
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"parkingSpotNumber", s.SpotNumber, MaxSpotNumberLen},
		{"licensePlateCar", s.LicensePlate, MaxLicensePlateLen},
		{"brandCar", s.Brand, MaxVehicleFieldLen},
		{"modelCar", s.Model, MaxVehicleFieldLen},
		{"colorCar", s.Color, MaxVehicleFieldLen},
		{"responsibleName", s.ResponsibleName, MaxResponsibleNameLen},
		{"apartment", s.Apartment, MaxApartmentLen},
		{"block", s.Block, MaxApartmentLen},
		{"email", s.Email, MaxEmailLen},
		{"cpf", s.NationalID, MaxNationalIDLen},
	} {
		if utf8.RuneCountInString(f.value) > f.max {
			return fmt.Errorf("%w: %s", ErrValueTooLong, f.name)
		}
	}
	return nil
}

// These errors report the registration uniqueness rules violations.
// Only one of them is reported for each registration attempt, checking
// the license plate, spot number, and apartment/block rules in order.
var (
	ErrDuplicateLicensePlate = errors.New(
		"license plate of this vehicle is already registered",
	)
	ErrDuplicateSpotNumber = errors.New(
		"parking spot is already in use",
	)
	ErrDuplicateApartmentBlock = errors.New(
		"parking spot is already registered for this apartment/block",
	)
)

// ErrSpotNotFound indicates that no parking spot could be found with
// the asked ID. Callers know about that ID, so it is not included.
var ErrSpotNotFound = errors.New("parking spot could not be found")

// LogValue implements slog.LogValuer, so a Spot may be logged without
// exposing the personal information of its responsible person.
func (s *Spot) LogValue() slog.Value {
	if s == nil {
		return slog.StringValue("nil-spot")
	}
	return slog.GroupValue(
		slog.Int64("id", s.ID),
		slog.String("number", s.SpotNumber),
		slog.String("plate", s.LicensePlate),
		slog.String("apartment", s.Apartment),
		slog.String("block", s.Block),
	)
}
