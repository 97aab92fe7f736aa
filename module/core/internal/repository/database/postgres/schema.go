package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `CREATE TABLE IF NOT EXISTS region_entries (
	id BIGSERIAL PRIMARY KEY,
	region TEXT NOT NULL,
	message TEXT NOT NULL,
	source TEXT NOT NULL,
	foreground BOOLEAN NOT NULL,
	notification_scheduled BOOLEAN NOT NULL,
	occurred_at TIMESTAMPTZ NOT NULL
)`

// Migrate creates the journal table when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate region_entries: %w", err)
	}
	return nil
}
