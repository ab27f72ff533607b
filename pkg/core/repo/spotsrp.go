package repo

import (
	"context"

	"github.com/momeni/parking-control/pkg/core/model"
)

type SpotsConnQueryer interface {
	SpotsQueryer
}

type SpotsTxQueryer interface {
	SpotsQueryer
}

// SpotsQueryer is the parking spots record store gateway.
// Failures of the underlying store are reported as errors which wrap
// a *cerr.Error with the service unavailable status code. Violations
// of the store-level uniqueness constraints are reported with the same
// model.ErrDuplicate* errors which the registration validator uses.
type SpotsQueryer interface {
	ExistsByLicensePlate(ctx context.Context, plate string) (bool, error)
	ExistsBySpotNumber(ctx context.Context, number string) (bool, error)
	ExistsByApartmentAndBlock(ctx context.Context, apartment, block string) (bool, error)

	// Create inserts s (ignoring its ID) and returns the stored spot
	// with its assigned ID.
	Create(ctx context.Context, s *model.Spot) (*model.Spot, error)

	// List returns all spots ordered by their IDs.
	List(ctx context.Context) ([]model.Spot, error)

	// Get returns the spot with the given id, or nil (and a nil error)
	// if no such spot exists.
	Get(ctx context.Context, id int64) (*model.Spot, error)

	// Update replaces all columns of the spot which is identified by
	// s.ID. A missing spot is reported by model.ErrSpotNotFound.
	Update(ctx context.Context, s *model.Spot) (*model.Spot, error)

	// Delete removes the spot which is identified by s.ID. A missing
	// spot is reported by model.ErrSpotNotFound.
	Delete(ctx context.Context, s *model.Spot) error
}

type Spots interface {
	Conn(Conn) SpotsConnQueryer
	Tx(Tx) SpotsTxQueryer
}
