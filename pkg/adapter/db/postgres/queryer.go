package postgres

import (
	"context"

	"gorm.io/gorm"
)

// Queryer is satisfied by both of *Conn and *Tx types, so repository
// packages may implement their queries once (as generic functions)
// and run them on a connection or in a transaction.
type Queryer interface {
	*Conn | *Tx
	GORM(ctx context.Context) *gorm.DB
}
