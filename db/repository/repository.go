package repository

import "github.com/jmoiron/sqlx"

// DBRepository is the agent's local cache of notification history and
// cleanup policies. Queries are written with ? and rebound per driver.
type DBRepository struct {
	db *sqlx.DB
}

func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{
		db: db,
	}
}
