package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// BeginTransaction opens a read-write transaction for history writes that
// must land together with their trim.
func (dbr *DBRepository) BeginTransaction(ctx context.Context) (tx *sqlx.Tx, err error) {

	return dbr.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelDefault})

}
