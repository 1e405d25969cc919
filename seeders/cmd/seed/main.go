package main

import (
	"context"

	"go.uber.org/zap"

	"procurement-system/pkg/config"
	"procurement-system/pkg/database/postgresql"
	applogger "procurement-system/pkg/logger"
	"procurement-system/seeders"
)

func main() {
	logger := applogger.NewLogger()
	defer logger.Sync()

	cfg := config.New()

	if err := postgresql.Migrate(cfg.Postgres.DSN); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer pool.Close()

	if err := seeders.Run(context.Background(), pool, cfg, logger); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("seeding complete")
}
