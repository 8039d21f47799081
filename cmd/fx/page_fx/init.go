package page_fx

import (
	"go.uber.org/fx"

	"linkbio/internal/repositories"
	"linkbio/internal/services"
)

// Module provides pages and the content that hangs off them.
var Module = fx.Provide(
	repositories.NewPageRepository,
	repositories.NewLinkRepository,
	repositories.NewAudioRepository,
	repositories.NewBlockRepository,
	services.NewPageService,
	services.NewLinkService,
	services.NewAudioService,
	services.NewBlockService,
)
