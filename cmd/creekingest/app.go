package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/keys-i/CreekLink/internal/alert"
	"github.com/keys-i/CreekLink/internal/api"
	"github.com/keys-i/CreekLink/internal/config"
	"github.com/keys-i/CreekLink/internal/db"
	"github.com/keys-i/CreekLink/internal/mq"
	"github.com/keys-i/CreekLink/internal/repository"
	"github.com/keys-i/CreekLink/internal/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func startServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	logger *zap.Logger,
	pool *db.Pool,
	server *api.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := db.InitSchema(ctx, pool); err != nil {
				return err
			}
			logger.Info("readings schema ready")

			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server exited", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown failed", zap.Error(err))
				return err
			}
			logger.Info("http server stopped gracefully")
			return nil
		},
	})
}

// ProvideDBPool creates the database connection pool
func ProvideDBPool(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (*db.Pool, error) {
	return db.NewPool(lc, logger, cfg.Database.URL)
}

// ProvideRepository creates a new repository instance
func ProvideRepository(pool *db.Pool) *repository.Repository {
	return repository.NewRepository(pool)
}

// ProvideAlertSender creates the SMTP delivery backend
func ProvideAlertSender(cfg *config.Config) *alert.SMTPSender {
	return alert.NewSMTPSender(cfg.SMTP)
}

// ProvideNotifier creates the threshold alert notifier
func ProvideNotifier(cfg *config.Config, sender *alert.SMTPSender) *alert.Notifier {
	return alert.NewNotifier(cfg.Alert, cfg.SMTP, sender)
}

// ProvideMQConnection connects to RabbitMQ when the event feed is enabled;
// otherwise the publisher runs disabled and no connection is made.
func ProvideMQConnection(lc fx.Lifecycle, logger *zap.Logger, cfg *config.Config) (*mq.Connection, error) {
	if !cfg.AMQP.Enabled() {
		logger.Info("stored-reading event feed disabled (AMQP_URL not set)")
		return nil, nil
	}
	return mq.NewConnection(lc, logger, cfg.AMQP.URL)
}

// ProvidePublisher creates the stored-reading event publisher
func ProvidePublisher(lc fx.Lifecycle, conn *mq.Connection, cfg *config.Config, logger *zap.Logger) (*mq.Publisher, error) {
	publisher, err := mq.NewPublisher(conn, cfg.AMQP.Exchange, cfg.AMQP.RoutingKey, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return publisher.Close()
		},
	})
	return publisher, nil
}

// ProvideIngestService creates the uplink ingest service
func ProvideIngestService(
	repo *repository.Repository,
	notifier *alert.Notifier,
	publisher *mq.Publisher,
	logger *zap.Logger,
) *service.IngestService {
	return service.NewIngestService(repo, notifier, publisher, logger)
}

// ProvideHTTPServer creates the ingest HTTP server
func ProvideHTTPServer(cfg *config.Config, svc *service.IngestService, logger *zap.Logger) *api.Server {
	return api.NewServer(cfg.HTTPAddr, svc, logger)
}
