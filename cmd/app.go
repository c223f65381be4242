package cmd

import (
	"fmt"

	"r2-explorer/core/config"
	"r2-explorer/core/credentials"
	"r2-explorer/core/logger"
	"r2-explorer/feature/explorer"

	"go.uber.org/zap"
)

// app bundles what every command needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *explorer.Service
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := credentials.New(cfg.Credentials, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	logg.Debug("Credential store opened", zap.String("path", store.Path()))

	svc := explorer.NewService(store, explorer.NewClientFactory(cfg.Storage), cfg.Storage.CacheClients, logg)
	return &app{cfg: cfg, logger: logg, service: svc}, nil
}
