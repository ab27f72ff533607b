package memory

import (
	"context"

	"github.com/momeni/parking-control/pkg/core/cerr"
	"github.com/momeni/parking-control/pkg/core/model"
	"github.com/momeni/parking-control/pkg/core/repo"
)

// SpotsRepo is an in-memory repo.Spots which may be used with the
// connections and transactions of a memory Pool.
type SpotsRepo struct {
}

func NewSpotsRepo() *SpotsRepo {
	return &SpotsRepo{}
}

func (spots *SpotsRepo) Conn(c repo.Conn) repo.SpotsConnQueryer {
	cc := c.(*Conn)
	return queryer{acquire: cc.p.lock}
}

func (spots *SpotsRepo) Tx(tx repo.Tx) repo.SpotsTxQueryer {
	tt := tx.(*Tx)
	return queryer{acquire: func() (*table, func()) {
		return tt.t, func() {}
	}}
}

// queryer runs each query on the table which is returned by acquire,
// releasing it afterwards. A Conn queryer locks the pool table, while
// a Tx queryer uses the (already locked) transaction rows.
type queryer struct {
	acquire func() (*table, func())
}

func (q queryer) exists(ctx context.Context, pred func(s *model.Spot) bool) (bool, error) {
	if err := alive(ctx); err != nil {
		return false, err
	}
	t, release := q.acquire()
	defer release()
	return t.any(pred), nil
}

func (q queryer) ExistsByLicensePlate(ctx context.Context, plate string) (bool, error) {
	return q.exists(ctx, func(s *model.Spot) bool {
		return s.LicensePlate == plate
	})
}

func (q queryer) ExistsBySpotNumber(ctx context.Context, number string) (bool, error) {
	return q.exists(ctx, func(s *model.Spot) bool {
		return s.SpotNumber == number
	})
}

func (q queryer) ExistsByApartmentAndBlock(ctx context.Context, apartment, block string) (bool, error) {
	return q.exists(ctx, func(s *model.Spot) bool {
		return s.Apartment == apartment && s.Block == block
	})
}

func (q queryer) Create(ctx context.Context, s *model.Spot) (*model.Spot, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	t, release := q.acquire()
	defer release()
	return t.create(s)
}

func (q queryer) List(ctx context.Context) ([]model.Spot, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	t, release := q.acquire()
	defer release()
	return t.list(), nil
}

func (q queryer) Get(ctx context.Context, id int64) (*model.Spot, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	t, release := q.acquire()
	defer release()
	return t.get(id), nil
}

func (q queryer) Update(ctx context.Context, s *model.Spot) (*model.Spot, error) {
	if err := alive(ctx); err != nil {
		return nil, err
	}
	t, release := q.acquire()
	defer release()
	return t.update(s)
}

func (q queryer) Delete(ctx context.Context, s *model.Spot) error {
	if err := alive(ctx); err != nil {
		return err
	}
	t, release := q.acquire()
	defer release()
	return t.delete(s.ID)
}

// alive reports the ctx error as a store failure, like a database
// driver which gives up a canceled query.
func alive(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return cerr.Unavailable(err)
	}
	return nil
}
