package logging

import (
	"go.uber.org/zap"
)

// NewLogger creates the structured production logger. Every entry carries
// the service name so log aggregation can tell ingest instances apart.
func NewLogger(serviceName string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]interface{}{
		"service": serviceName,
	}
	return cfg.Build()
}

// WithRequestID returns a logger scoped to one inbound uplink request.
func WithRequestID(logger *zap.Logger, requestID string) *zap.Logger {
	return logger.With(zap.String("request_id", requestID))
}
