package spotsrp

import (
	"context"
	"fmt"
	"time"

	"github.com/momeni/parking-control/pkg/adapter/db/postgres"
	"github.com/momeni/parking-control/pkg/core/model"
	"gorm.io/gorm/clause"
)

type gSpot struct {
	ID              int64 `gorm:"primaryKey;autoIncrement"`
	SpotNumber      string
	LicensePlate    string
	Brand           string
	Model           string
	Color           string
	ResponsibleName string
	Apartment       string
	Block           string
	Email           string
	NationalID      string `gorm:"column:cpf"`
	RegisteredAt    time.Time
}

func (gs *gSpot) TableName() string {
	return "spots"
}

func (gs *gSpot) ToModel() *model.Spot {
	return &model.Spot{
		ID:              gs.ID,
		SpotNumber:      gs.SpotNumber,
		LicensePlate:    gs.LicensePlate,
		Brand:           gs.Brand,
		Model:           gs.Model,
		Color:           gs.Color,
		ResponsibleName: gs.ResponsibleName,
		Apartment:       gs.Apartment,
		Block:           gs.Block,
		Email:           gs.Email,
		NationalID:      gs.NationalID,
		RegisteredAt:    gs.RegisteredAt.UTC(),
	}
}

func fromModel(s *model.Spot) *gSpot {
	return &gSpot{
		ID:              s.ID,
		SpotNumber:      s.SpotNumber,
		LicensePlate:    s.LicensePlate,
		Brand:           s.Brand,
		Model:           s.Model,
		Color:           s.Color,
		ResponsibleName: s.ResponsibleName,
		Apartment:       s.Apartment,
		Block:           s.Block,
		Email:           s.Email,
		NationalID:      s.NationalID,
		RegisteredAt:    s.RegisteredAt,
	}
}

func exists[Q postgres.Queryer](ctx context.Context, q Q, query string, args ...any) (bool, error) {
	var found bool
	err := q.GORM(ctx).Raw(
		"SELECT EXISTS (SELECT 1 FROM spots WHERE "+query+")", args...,
	).Scan(&found).Error
	if err != nil {
		return false, postgres.MapError(fmt.Errorf("query: %w", err))
	}
	return found, nil
}

func ExistsByLicensePlate[Q postgres.Queryer](ctx context.Context, q Q, plate string) (bool, error) {
	return exists(ctx, q, "license_plate=?", plate)
}

func ExistsBySpotNumber[Q postgres.Queryer](ctx context.Context, q Q, number string) (bool, error) {
	return exists(ctx, q, "spot_number=?", number)
}

func ExistsByApartmentAndBlock[Q postgres.Queryer](ctx context.Context, q Q, apartment, block string) (bool, error) {
	return exists(ctx, q, "apartment=? AND block=?", apartment, block)
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, s *model.Spot) (*model.Spot, error) {
	gs := fromModel(s)
	gs.ID = 0
	if err := q.GORM(ctx).Create(gs).Error; err != nil {
		return nil, postgres.MapError(fmt.Errorf("insert: %w", err))
	}
	return gs.ToModel(), nil
}

func List[Q postgres.Queryer](ctx context.Context, q Q) ([]model.Spot, error) {
	var gss []gSpot
	if err := q.GORM(ctx).Order("id").Find(&gss).Error; err != nil {
		return nil, postgres.MapError(fmt.Errorf("query: %w", err))
	}
	ss := make([]model.Spot, 0, len(gss))
	for i := range gss {
		ss = append(ss, *gss[i].ToModel())
	}
	return ss, nil
}

func Get[Q postgres.Queryer](ctx context.Context, q Q, id int64) (*model.Spot, error) {
	var gss []gSpot
	err := q.GORM(ctx).Where("id=?", id).Limit(1).Find(&gss).Error
	if err != nil {
		return nil, postgres.MapError(fmt.Errorf("query: %w", err))
	}
	if len(gss) == 0 {
		return nil, nil
	}
	return gss[0].ToModel(), nil
}

func Update[Q postgres.Queryer](ctx context.Context, q Q, s *model.Spot) (*model.Spot, error) {
	var gss []gSpot
	gdb := q.GORM(ctx).Model(&gss).Clauses(clause.Returning{}).Select(
		"spot_number", "license_plate", "brand", "model", "color",
		"responsible_name", "apartment", "block", "email", "cpf",
		"registered_at",
	).Where(
		"id=?", s.ID,
	).Updates(*fromModel(s))
	if err := gdb.Error; err != nil {
		return nil, postgres.MapError(fmt.Errorf("update: %w", err))
	}
	if n := len(gss); n != 1 {
		return nil, fmt.Errorf(
			"expected one row, but got %d: %w", n, model.ErrSpotNotFound,
		)
	}
	return gss[0].ToModel(), nil
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, s *model.Spot) error {
	gdb := q.GORM(ctx).Where("id=?", s.ID).Delete(&gSpot{})
	if err := gdb.Error; err != nil {
		return postgres.MapError(fmt.Errorf("delete: %w", err))
	}
	if n := gdb.RowsAffected; n != 1 {
		return fmt.Errorf(
			"expected one row, but got %d: %w", n, model.ErrSpotNotFound,
		)
	}
	return nil
}
