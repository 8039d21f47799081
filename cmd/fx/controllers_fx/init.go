package controllers_fx

import (
	"go.uber.org/fx"

	"linkbio/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewAuthController),
	fx.Provide(controllers.NewUserController),
	fx.Provide(controllers.NewPageController),
	fx.Provide(controllers.NewLinkController),
	fx.Provide(controllers.NewAudioController),
	fx.Provide(controllers.NewBlockController),
	fx.Provide(controllers.NewTemplateController),
	fx.Provide(controllers.NewDomainController),
	fx.Provide(controllers.NewAnalyticsController),
	fx.Provide(controllers.NewBillingController),
	fx.Provide(controllers.NewUploadController),
	fx.Provide(controllers.NewPublicController),
)
