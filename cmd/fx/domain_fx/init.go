package domain_fx

import (
	"go.uber.org/fx"

	"linkbio/internal/infra"
	"linkbio/internal/repositories"
	"linkbio/internal/services"
)

var Module = fx.Provide(
	repositories.NewDomainRepository,
	infra.NewDNSResolver,
	services.NewDomainService,
)
