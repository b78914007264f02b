package main

import (
	"github.com/joho/godotenv"
	"github.com/taskhive-dev/taskhive/db"
	"github.com/taskhive-dev/taskhive/internal/auth"
	"github.com/taskhive-dev/taskhive/internal/config"
	"github.com/taskhive-dev/taskhive/internal/router"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	defer func() {
		if err := logger.Sync(); err != nil {
			zap.L().Debug("failed to sync logger", zap.Error(err))
		}
	}()

	cfg := config.Load()

	if err := auth.InitJWTSecret(); err != nil {
		logger.Fatal("failed to initialize JWT secret", zap.Error(err))
	}

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.MigrateDatabase(); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	r := router.NewRouter(cfg, logger)

	addr := ":" + cfg.Port
	logger.Info("starting server", zap.String("addr", addr), zap.String("env", cfg.Env))

	if err := r.Run(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
