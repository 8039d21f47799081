package auth_fx

import (
	"go.uber.org/fx"

	"linkbio/internal/config"
	"linkbio/internal/infra"
	"linkbio/internal/repositories"
	"linkbio/internal/services"
	"linkbio/pkg/utils"
)

var Module = fx.Provide(
	repositories.NewUserRepository,
	repositories.NewAccountRepository,
	repositories.NewVerificationTokenRepository,
	provideTokenIssuer,
	infra.NewDiscordClient,
	services.NewAuthService,
	services.NewUserService,
)

func provideTokenIssuer(cfg config.Config) *utils.TokenIssuer {
	return utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
}
