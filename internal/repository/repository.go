package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/keys-i/CreekLink/internal/db"
)

// ErrStorage marks persistence failures. Callers match it with errors.Is;
// the layer itself performs no retries.
var ErrStorage = errors.New("storage error")

// Repository handles database operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertReading stores one uplink reading in a single transaction. The
// database assigns id and received_at; the returned entity carries both.
func (r *Repository) InsertReading(ctx context.Context, deviceID string, waterLevelMM, bucketTips *int32, rawPayload []byte) (*db.Reading, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to begin transaction: %w", ErrStorage, err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO readings (device_id, water_level_mm, bucket_tips, raw_payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, received_at
	`

	reading := &db.Reading{
		DeviceID:     deviceID,
		WaterLevelMM: waterLevelMM,
		BucketTips:   bucketTips,
		RawPayload:   rawPayload,
	}

	err = tx.QueryRow(ctx, query, deviceID, waterLevelMM, bucketTips, rawPayload).Scan(
		&reading.ID,
		&reading.ReceivedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to insert reading: %w", ErrStorage, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: failed to commit transaction: %w", ErrStorage, err)
	}

	return reading, nil
}

// GetReading reads one stored reading back by id.
func (r *Repository) GetReading(ctx context.Context, id int64) (*db.Reading, error) {
	query := `
		SELECT id, received_at, device_id, water_level_mm, bucket_tips, raw_payload
		FROM readings
		WHERE id = $1
	`

	var reading db.Reading
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&reading.ID,
		&reading.ReceivedAt,
		&reading.DeviceID,
		&reading.WaterLevelMM,
		&reading.BucketTips,
		&reading.RawPayload,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query reading: %w", ErrStorage, err)
	}

	return &reading, nil
}
