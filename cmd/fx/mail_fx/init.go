package mail_fx

import (
	"go.uber.org/fx"

	"linkbio/internal/services"
)

var Module = fx.Provide(services.NewSMTPMailService)
