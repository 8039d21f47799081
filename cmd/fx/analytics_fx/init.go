package analytics_fx

import (
	"go.uber.org/fx"

	"linkbio/internal/repositories"
	"linkbio/internal/services"
)

var Module = fx.Provide(
	repositories.NewAnalyticsRepository,
	services.NewAnalyticsService,
)
