package scheduler_fx

import (
	"go.uber.org/fx"

	"linkbio/internal/scheduler"
)

var Module = fx.Options(
	fx.Provide(scheduler.NewSweeper),
	fx.Invoke(scheduler.Register),
)
