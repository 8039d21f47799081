package config_fx

import (
	"go.uber.org/fx"

	"linkbio/internal/config"
	"linkbio/pkg/clock"
	"linkbio/pkg/logger"
)

var Module = fx.Provide(
	config.Load,
	provideLoggerConfig,
	logger.New,
	provideClock,
)

func provideLoggerConfig(cfg config.Config) logger.Config {
	return logger.Config{
		ServiceName: cfg.AppName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	}
}

func provideClock() clock.Clock {
	return clock.SystemClock{}
}
