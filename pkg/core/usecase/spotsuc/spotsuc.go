// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package spotsuc contains the parking spots UseCase which supports the
// spots related use cases:
//  1. Registering a spot after checking its uniqueness rules,
//  2. Listing all spots or getting one of them,
//  3. Updating a spot while preserving its ID and registration time,
//  4. Deleting a spot.
package spotsuc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/momeni/parking-control/pkg/core/cerr"
	"github.com/momeni/parking-control/pkg/core/log"
	"github.com/momeni/parking-control/pkg/core/model"
	"github.com/momeni/parking-control/pkg/core/repo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/momeni/parking-control/pkg/core/usecase/spotsuc"

// UseCase represents a parking spots use case. It holds a database
// connection pool, the spots repository instance (to be guided with
// the DB pool), and the spots use case specific settings.
type UseCase struct {
	pool    repo.Pool
	spotsrp repo.Spots

	now          func() time.Time
	tracer       trace.Tracer
	serializable bool
}

// New instantiates a spots use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(p repo.Pool, s repo.Spots, opts ...Option) (*UseCase, error) {
	uc := &UseCase{pool: p, spotsrp: s}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.tracer == nil {
		uc.tracer = otel.Tracer(tracerName)
	}
	return uc, nil
}

// Register use case admits the candidate spot if none of the
// registration uniqueness rules are violated (see
// Validator.ValidateForCreate) and stores it with a fresh ID and the
// current UTC time as its registration time. The ID and RegisteredAt
// fields of candidate are ignored. Checks and insertion are performed
// in one transaction which is serializable if the use case is
// configured WithSerializableRegistration.
// A violated rule is reported as a conflict error wrapping one of the
// model.ErrDuplicate* errors.
func (spots *UseCase) Register(
	ctx context.Context, candidate *model.Spot,
) (s *model.Spot, err error) {
	ctx, span := spots.tracer.Start(ctx, "spotsuc.Register")
	defer func() { endSpan(span, err) }()

	err = spots.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return spots.registrationTx(c)(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := spots.spotsrp.Tx(tx)
			if err := NewValidator(q).ValidateForCreate(ctx, candidate); err != nil {
				return err
			}
			fresh := *candidate
			fresh.ID = 0
			fresh.RegisteredAt = spots.now().UTC()
			var err error
			s, err = q.Create(ctx, &fresh)
			return err
		})
	})
	if err != nil {
		err = classify(err)
		if rejected(err) {
			log.Info(ctx, "spot registration rejected",
				log.Valuer("candidate", candidate), log.Err("err", err),
			)
		} else {
			log.Error(ctx, "spot registration failed",
				log.Valuer("candidate", candidate), log.Err("err", err),
			)
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int64("spot.id", s.ID))
	log.Info(ctx, "spot registered", log.Valuer("spot", s))
	return s, nil
}

func (spots *UseCase) registrationTx(c repo.Conn) func(context.Context, repo.TxHandler) error {
	if spots.serializable {
		return c.SerializableTx
	}
	return c.Tx
}

// List use case returns all registered spots, ordered by their IDs.
func (spots *UseCase) List(ctx context.Context) (ss []model.Spot, err error) {
	ctx, span := spots.tracer.Start(ctx, "spotsuc.List")
	defer func() { endSpan(span, err) }()

	err = spots.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		var err error
		ss, err = spots.spotsrp.Conn(c).List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ss, nil
}

// Get use case returns the spot with the given id or a not found error.
func (spots *UseCase) Get(ctx context.Context, id int64) (s *model.Spot, err error) {
	ctx, span := spots.tracer.Start(ctx, "spotsuc.Get",
		trace.WithAttributes(attribute.Int64("spot.id", id)),
	)
	defer func() { endSpan(span, err) }()

	err = spots.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		var err error
		s, err = spots.spotsrp.Conn(c).Get(ctx, id)
		if err == nil && s == nil {
			err = model.ErrSpotNotFound
		}
		return err
	})
	if err != nil {
		return nil, classify(err)
	}
	return s, nil
}

// Update use case replaces all fields of the id spot with the given
// fields, but its ID and registration time (see PrepareForUpdate).
// The registration uniqueness rules are not checked again.
func (spots *UseCase) Update(
	ctx context.Context, id int64, fields *model.Spot,
) (s *model.Spot, err error) {
	ctx, span := spots.tracer.Start(ctx, "spotsuc.Update",
		trace.WithAttributes(attribute.Int64("spot.id", id)),
	)
	defer func() { endSpan(span, err) }()

	err = spots.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := spots.spotsrp.Tx(tx)
			existing, err := q.Get(ctx, id)
			switch {
			case err != nil:
				return err
			case existing == nil:
				return model.ErrSpotNotFound
			}
			s, err = q.Update(ctx, PrepareForUpdate(existing, fields))
			return err
		})
	})
	if err != nil {
		return nil, classify(err)
	}
	log.Info(ctx, "spot updated", log.Valuer("spot", s))
	return s, nil
}

// Delete use case removes the id spot or returns a not found error.
func (spots *UseCase) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := spots.tracer.Start(ctx, "spotsuc.Delete",
		trace.WithAttributes(attribute.Int64("spot.id", id)),
	)
	defer func() { endSpan(span, err) }()

	var s *model.Spot
	err = spots.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := spots.spotsrp.Tx(tx)
			var err error
			s, err = q.Get(ctx, id)
			switch {
			case err != nil:
				return err
			case s == nil:
				return model.ErrSpotNotFound
			}
			return q.Delete(ctx, s)
		})
	})
	if err != nil {
		return classify(err)
	}
	log.Info(ctx, "spot deleted", log.Valuer("spot", s))
	return nil
}

// classify wraps the domain errors which are found in the err chain
// by their relevant cerr.Error, so they may be serialized by the
// adapters layer. Other errors are returned as is.
func classify(err error) error {
	for _, dup := range []error{
		model.ErrDuplicateLicensePlate,
		model.ErrDuplicateSpotNumber,
		model.ErrDuplicateApartmentBlock,
	} {
		if errors.Is(err, dup) {
			return cerr.Conflict(dup)
		}
	}
	if errors.Is(err, model.ErrSpotNotFound) {
		return cerr.NotFound(model.ErrSpotNotFound)
	}
	return err
}

// rejected reports if err blames the candidate spot, rather than the
// store, for a failed registration.
func rejected(err error) bool {
	var ce *cerr.Error
	if !errors.As(err, &ce) {
		return false
	}
	return ce.HTTPStatusCode == http.StatusConflict ||
		ce.HTTPStatusCode == http.StatusBadRequest
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
