package main

import (
	"github.com/buildrun-tech/unihub/backend/internal/config"
	"github.com/buildrun-tech/unihub/backend/internal/models"
	"github.com/buildrun-tech/unihub/backend/internal/services"
	"github.com/buildrun-tech/unihub/backend/internal/utils"
	"github.com/buildrun-tech/unihub/backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// appServices holds the shared dependencies built at startup.
type appServices struct {
	cache        services.Cache
	logScheduler *cron.Cron
}

// bootstrap initializes all application dependencies: database, cache, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	services.InitSystemLogger(models.GetDB())
	logScheduler := services.StartLogCleanupScheduler(models.GetDB())

	return &appServices{
		cache:        services.NewCache(&cfg.Cache),
		logScheduler: logScheduler,
	}
}

// shutdown gracefully stops background work.
func (s *appServices) shutdown() {
	if s.logScheduler != nil {
		s.logScheduler.Stop()
	}
	if s.cache != nil {
		s.cache.Stop()
	}
	logger.Info().Msg("All schedulers stopped")
}
