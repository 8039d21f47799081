package template_fx

import (
	"go.uber.org/fx"

	"linkbio/internal/repositories"
	"linkbio/internal/services"
)

var Module = fx.Provide(
	repositories.NewTagRepository,
	repositories.NewTemplateRepository,
	services.NewTemplateService,
)
