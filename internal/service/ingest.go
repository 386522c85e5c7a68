package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/keys-i/CreekLink/internal/db"
	"github.com/keys-i/CreekLink/internal/logging"
	"github.com/keys-i/CreekLink/internal/mq"
	"github.com/keys-i/CreekLink/internal/uplink"
	"go.uber.org/zap"
)

// ErrInvalidJSON marks webhook bodies that are not parseable JSON. The HTTP
// layer maps it to a 400 response.
var ErrInvalidJSON = errors.New("invalid json")

// ReadingStore persists uplink readings.
type ReadingStore interface {
	InsertReading(ctx context.Context, deviceID string, waterLevelMM, bucketTips *int32, rawPayload []byte) (*db.Reading, error)
}

// Notifier evaluates threshold alerts for stored readings.
type Notifier interface {
	MaybeSendThresholdAlert(ctx context.Context, deviceID string, waterLevelMM *int32) error
}

// EventPublisher announces stored readings to downstream consumers.
type EventPublisher interface {
	PublishStoredReading(ctx context.Context, event mq.StoredReadingEvent) error
}

// Result is the acknowledgment returned for one stored uplink.
type Result struct {
	Status   string `json:"status"`
	DeviceID string `json:"device_id"`
}

// IngestService handles the uplink processing path: parse, extract, store,
// publish, alert.
type IngestService struct {
	store     ReadingStore
	notifier  Notifier
	publisher EventPublisher
	logger    *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(store ReadingStore, notifier Notifier, publisher EventPublisher, logger *zap.Logger) *IngestService {
	return &IngestService{
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// Ingest processes one uplink webhook body. The reading is stored first; a
// failed event publish is logged and swallowed, but a failed alert delivery
// propagates even though the row is already durable, so the caller reports
// a server error.
func (s *IngestService) Ingest(ctx context.Context, body []byte) (*Result, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	fields := uplink.Extract(payload)

	reqLogger := logging.WithRequestID(s.logger, uuid.New().String())
	reqLogger.Info("processing uplink",
		zap.String("device_id", fields.DeviceID),
		zap.Int("body_size", len(body)),
	)

	reading, err := s.store.InsertReading(ctx, fields.DeviceID, fields.WaterLevelMM, fields.BucketTips, body)
	if err != nil {
		reqLogger.Error("failed to store reading", zap.Error(err))
		return nil, err
	}

	event := mq.StoredReadingEvent{
		ReadingID:    reading.ID,
		DeviceID:     reading.DeviceID,
		WaterLevelMM: reading.WaterLevelMM,
		BucketTips:   reading.BucketTips,
		ReceivedAt:   reading.ReceivedAt,
	}
	if err := s.publisher.PublishStoredReading(ctx, event); err != nil {
		// The reading is already committed; downstream feeds are best-effort.
		reqLogger.Error("failed to publish stored reading event", zap.Error(err))
	}

	if err := s.notifier.MaybeSendThresholdAlert(ctx, fields.DeviceID, fields.WaterLevelMM); err != nil {
		reqLogger.Error("failed to deliver threshold alert",
			zap.Error(err),
			zap.Int64("reading_id", reading.ID),
		)
		return nil, err
	}

	reqLogger.Info("uplink stored", zap.Int64("reading_id", reading.ID))

	return &Result{Status: "stored", DeviceID: fields.DeviceID}, nil
}
