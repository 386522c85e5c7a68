package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createReadingsTable = `
	CREATE TABLE IF NOT EXISTS readings (
		id BIGSERIAL PRIMARY KEY,
		received_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		device_id TEXT NOT NULL,
		water_level_mm INTEGER,
		bucket_tips INTEGER,
		raw_payload JSON
	)
`

// InitSchema ensures the readings table exists. It runs on every process
// start; existing tables and rows are never dropped or altered.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, createReadingsTable); err != nil {
		return fmt.Errorf("failed to create readings table: %w", err)
	}
	return nil
}
