package infra

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"linkbio/internal/config"
	"linkbio/internal/models/db_models"
	"linkbio/pkg/logger"
)

// NewPostgres opens the pool, migrates when enabled and closes it on shutdown.
func NewPostgres(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (*gorm.DB, error) {
	if cfg.PostgresURL == "" {
		return nil, errors.New("POSTGRES_URL is required")
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		Logger:         logger.NewGormLogger(log, gormLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		log.Error("postgres connect failed", zap.Error(err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if cfg.DBAutoMigrate {
		if err := db.AutoMigrate(db_models.All()...); err != nil {
			log.Error("auto migrate failed", zap.Error(err))
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return ClosePostgresql(db, log)
		},
	})
	return db, nil
}

func ClosePostgresql(db *gorm.DB, log *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("postgres handle unavailable", zap.Error(err))
		return err
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("postgres close failed", zap.Error(err))
		return err
	}
	log.Info("postgres connection closed")
	return nil
}

func gormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
