package main

import (
	"github.com/keys-i/CreekLink/internal/config"
	"github.com/keys-i/CreekLink/internal/logging"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.ServiceName)
}
