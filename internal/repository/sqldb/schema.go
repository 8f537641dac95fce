package sqldb

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Схема совместима и с Postgres, и с SQLite
var schema = []string{
	`CREATE TABLE IF NOT EXISTS calibrations (
		id            TEXT PRIMARY KEY,
		name          TEXT NOT NULL,
		document      TEXT NOT NULL,
		average_error DOUBLE PRECISION NOT NULL DEFAULT 0,
		max_error     DOUBLE PRECISION NOT NULL DEFAULT 0,
		point_count   INTEGER NOT NULL DEFAULT 0,
		active        BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_calibrations_created_at ON calibrations (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_calibrations_active ON calibrations (active)`,
}

// Migrate создаёт таблицы, если их нет
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
