// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package spotsuc

import (
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Option is a functional option for the spots use case.
type Option func(uc *UseCase) error

// WithClock option configures a spots UseCase instance in order to
// take the registration times from the now function instead of the
// time.Now function. This option may be passed to the New() function.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}

// WithSerializableRegistration option asks the Register use case to
// run its uniqueness checks and insertion in a SERIALIZABLE
// transaction, so two concurrent registrations of the same plate,
// spot number, or apartment/block may not both pass the checks.
func WithSerializableRegistration() Option {
	return func(uc *UseCase) error {
		uc.serializable = true
		return nil
	}
}

// WithTracer option replaces the default tracer, which is obtained
// from the global OpenTelemetry tracer provider.
func WithTracer(t trace.Tracer) Option {
	return func(uc *UseCase) error {
		if t == nil {
			return errors.New("tracer is nil")
		}
		if uc.tracer != nil {
			return errors.New("tracer is already configured")
		}
		uc.tracer = t
		return nil
	}
}
