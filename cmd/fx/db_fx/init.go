package db_fx

import (
	"go.uber.org/fx"

	"linkbio/internal/infra"
)

var Module = fx.Provide(
	infra.NewPostgres,
	infra.NewRedis,
)
