package store

import (
	"database/sql"

	"github.com/medescala/shiftsync/internal/logger"
	"github.com/medescala/shiftsync/migrations"
)

type DB struct {
	*sql.DB
	logger *logger.Logger
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
