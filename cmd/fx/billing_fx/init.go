package billing_fx

import (
	"go.uber.org/fx"

	"linkbio/internal/infra"
	"linkbio/internal/services"
)

var Module = fx.Provide(
	infra.NewStripeGateway,
	services.NewBillingService,
)
