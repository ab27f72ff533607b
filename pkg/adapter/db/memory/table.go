package memory

import (
	"sort"

	"github.com/momeni/parking-control/pkg/core/cerr"
	"github.com/momeni/parking-control/pkg/core/model"
)

// table keeps the spots rows and mirrors the columns widths and the
// unique constraints of the PostgreSQL spots table.
type table struct {
	lastID int64
	rows   map[int64]model.Spot
}

func newTable() *table {
	return &table{rows: make(map[int64]model.Spot)}
}

func (t *table) clone() *table {
	t2 := &table{lastID: t.lastID, rows: make(map[int64]model.Spot, len(t.rows))}
	for id, s := range t.rows {
		t2.rows[id] = s
	}
	return t2
}

func (t *table) any(pred func(s *model.Spot) bool) bool {
	for _, s := range t.rows {
		if pred(&s) {
			return true
		}
	}
	return false
}

// conflict returns the first unique constraint which s violates
// (ignoring the row with the same ID) or nil. Constraints are checked
// in the registration rules order.
func (t *table) conflict(s *model.Spot) error {
	others := func(pred func(r *model.Spot) bool) bool {
		return t.any(func(r *model.Spot) bool {
			return r.ID != s.ID && pred(r)
		})
	}
	switch {
	case others(func(r *model.Spot) bool {
		return r.LicensePlate == s.LicensePlate
	}):
		return model.ErrDuplicateLicensePlate
	case others(func(r *model.Spot) bool {
		return r.SpotNumber == s.SpotNumber
	}):
		return model.ErrDuplicateSpotNumber
	case others(func(r *model.Spot) bool {
		return r.Apartment == s.Apartment && r.Block == s.Block
	}):
		return model.ErrDuplicateApartmentBlock
	}
	return nil
}

func (t *table) create(s *model.Spot) (*model.Spot, error) {
	r := *s
	r.ID = 0
	if err := r.CheckLengths(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	if err := t.conflict(&r); err != nil {
		return nil, err
	}
	t.lastID++
	r.ID = t.lastID
	t.rows[r.ID] = r
	return &r, nil
}

func (t *table) list() []model.Spot {
	ss := make([]model.Spot, 0, len(t.rows))
	for _, s := range t.rows {
		ss = append(ss, s)
	}
	sort.Slice(ss, func(i, j int) bool {
		return ss[i].ID < ss[j].ID
	})
	return ss
}

func (t *table) get(id int64) *model.Spot {
	s, ok := t.rows[id]
	if !ok {
		return nil
	}
	return &s
}

func (t *table) update(s *model.Spot) (*model.Spot, error) {
	if _, ok := t.rows[s.ID]; !ok {
		return nil, model.ErrSpotNotFound
	}
	if err := s.CheckLengths(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	if err := t.conflict(s); err != nil {
		return nil, err
	}
	r := *s
	t.rows[r.ID] = r
	return &r, nil
}

func (t *table) delete(id int64) error {
	if _, ok := t.rows[id]; !ok {
		return model.ErrSpotNotFound
	}
	delete(t.rows, id)
	return nil
}
