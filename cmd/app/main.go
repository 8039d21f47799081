package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"linkbio/cmd/fx/analytics_fx"
	"linkbio/cmd/fx/auth_fx"
	"linkbio/cmd/fx/billing_fx"
	"linkbio/cmd/fx/config_fx"
	"linkbio/cmd/fx/controllers_fx"
	"linkbio/cmd/fx/db_fx"
	"linkbio/cmd/fx/domain_fx"
	"linkbio/cmd/fx/mail_fx"
	"linkbio/cmd/fx/memcache_fx"
	"linkbio/cmd/fx/page_fx"
	"linkbio/cmd/fx/scheduler_fx"
	"linkbio/cmd/fx/template_fx"
	"linkbio/cmd/fx/upload_fx"
	"linkbio/internal/api/controllers"
	"linkbio/internal/config"
	"linkbio/internal/models/db_models"
	"linkbio/internal/repositories"
	"linkbio/pkg/identity"
	"linkbio/pkg/logger"
	"linkbio/pkg/metrics"
	"linkbio/pkg/middleware"
	"linkbio/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		auth_fx.Module,
		page_fx.Module,
		template_fx.Module,
		domain_fx.Module,
		analytics_fx.Module,
		billing_fx.Module,
		upload_fx.Module,
		scheduler_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, domains repositories.DomainRepository, log *zap.Logger) {
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.DomainRouter(engine, cfg.AppDomain, domains, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return err
			}
			log.Info("starting HTTP server", zap.String("addr", server.Addr))
			go func() {
				if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}

type routerParams struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	Issuer *utils.TokenIssuer
	Users  repositories.UserRepository
	Redis  *redis.Client `optional:"true"`

	Auth      *controllers.AuthController
	User      *controllers.UserController
	Page      *controllers.PageController
	Link      *controllers.LinkController
	Audio     *controllers.AudioController
	Block     *controllers.BlockController
	Template  *controllers.TemplateController
	Domain    *controllers.DomainController
	Analytics *controllers.AnalyticsController
	Billing   *controllers.BillingController
	Upload    *controllers.UploadController
	Public    *controllers.PublicController
}

func ProvideRouter(p routerParams) *gin.Engine {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(logger.GinMiddleware(p.Log))
	r.Use(metrics.GinMiddleware())
	r.Use(middleware.CORSMiddleware(p.Config.FrontendURL))

	RegisterRoutes(r, p)
	return r
}

// storedUser resolves token subjects against the users table.
func storedUser(users repositories.UserRepository) middleware.UserLookup {
	return func(ctx context.Context, userID uuid.UUID) (*identity.Identity, error) {
		user, err := users.FindByID(ctx, userID)
		if err != nil || user == nil {
			return nil, err
		}
		id := &identity.Identity{UserID: user.ID, Name: user.Name, Role: user.Role}
		if user.Email != nil {
			id.Email = *user.Email
		}
		return id, nil
	}
}

func RegisterRoutes(r *gin.Engine, p routerParams) {
	limiter := middleware.NewLimiter(p.Redis, p.Config.RateLimitPerMinute)
	authLimit := middleware.RateLimitMiddleware(limiter, "auth", p.Log)
	publicLimit := middleware.RateLimitMiddleware(limiter, "public", p.Log)
	lookup := storedUser(p.Users)
	requireAuth := middleware.JWTAuthMiddleware(p.Issuer, lookup, p.Log)
	optionalAuth := middleware.OptionalJWTMiddleware(p.Issuer, lookup, p.Log)
	requirePremium := middleware.RoleMiddleware(db_models.RolePremium)

	r.GET("/health", func(c *gin.Context) {
		utils.RespondSuccess(c, gin.H{"status": "ok"}, "")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")

	authGroup := api.Group("/auth", authLimit)
	authGroup.POST("/register", p.Auth.Register)
	authGroup.POST("/login", p.Auth.Login)
	authGroup.POST("/verify-email", p.Auth.VerifyEmail)
	authGroup.POST("/resend-code", p.Auth.ResendCode)
	authGroup.GET("/discord", p.Auth.DiscordLogin)
	authGroup.GET("/discord/callback", p.Auth.DiscordCallback)

	users := api.Group("/users/me", requireAuth)
	users.GET("", p.User.GetMe)
	users.PATCH("", p.User.UpdateProfile)
	users.DELETE("", p.User.DeleteMe)
	users.PATCH("/email", p.User.UpdateEmail)
	users.PATCH("/password", p.User.UpdatePassword)
	users.DELETE("/discord", p.User.UnlinkDiscord)

	pages := api.Group("/pages", requireAuth)
	pages.GET("", p.Page.ListPages)
	pages.POST("", p.Page.CreatePage)
	pages.GET("/me", p.Page.GetMyPage)
	pages.GET("/:pageId", p.Page.GetPage)
	pages.PATCH("/:pageId", p.Page.UpdatePage)
	pages.DELETE("/:pageId", p.Page.DeletePage)
	pages.GET("/:pageId/links", p.Link.ListLinks)
	pages.POST("/:pageId/links", p.Link.CreateLink)
	pages.PUT("/:pageId/links/reorder", p.Link.ReorderLinks)
	pages.GET("/:pageId/audios", p.Audio.ListAudios)
	pages.POST("/:pageId/audios", p.Audio.CreateAudio)
	pages.PUT("/:pageId/audios/reorder", p.Audio.ReorderAudios)
	pages.GET("/:pageId/blocks", p.Block.ListBlocks)
	pages.POST("/:pageId/blocks", p.Block.CreateBlock)
	pages.PUT("/:pageId/blocks/reorder", p.Block.ReorderBlocks)

	links := api.Group("/links", requireAuth)
	links.PATCH("/:linkId", p.Link.UpdateLink)
	links.DELETE("/:linkId", p.Link.DeleteLink)

	audios := api.Group("/audios", requireAuth)
	audios.PATCH("/:audioId", p.Audio.UpdateAudio)
	audios.DELETE("/:audioId", p.Audio.DeleteAudio)
	audios.POST("/:audioId/activate", p.Audio.ActivateAudio)

	blocks := api.Group("/blocks", requireAuth)
	blocks.PATCH("/:blockId", p.Block.UpdateBlock)
	blocks.DELETE("/:blockId", p.Block.DeleteBlock)

	templates := api.Group("/templates")
	templates.GET("", optionalAuth, p.Template.ListTemplates)
	templates.GET("/recent", optionalAuth, p.Template.ListRecent)
	templates.GET("/tags", p.Template.PopularTags)
	templates.GET("/mine", requireAuth, p.Template.ListMine)
	templates.GET("/favorites", requireAuth, p.Template.ListFavorites)
	templates.GET("/:id", optionalAuth, p.Template.GetTemplate)
	templates.POST("", requireAuth, p.Template.CreateTemplate)
	templates.POST("/:id/apply", requireAuth, p.Template.ApplyTemplate)
	templates.POST("/:id/favorite", requireAuth, p.Template.Favorite)
	templates.DELETE("/:id/favorite", requireAuth, p.Template.Unfavorite)
	templates.DELETE("/:id", requireAuth, p.Template.DeleteTemplate)

	domains := api.Group("/domains", requireAuth, requirePremium)
	domains.GET("", p.Domain.GetDomain)
	domains.POST("", p.Domain.AddDomain)
	domains.DELETE("", p.Domain.RemoveDomain)
	domains.POST("/verify", p.Domain.VerifyDomain)

	api.GET("/analytics", requireAuth, p.Analytics.GetAnalytics)

	api.POST("/billing/checkout", requireAuth, p.Billing.CreateCheckout)
	api.POST("/billing/webhook", p.Billing.HandleWebhook)

	api.POST("/uploads/signed-url", requireAuth, p.Upload.CreateSignedURL)

	r.GET("/redirect/:linkId", publicLimit, p.Public.Redirect)
	r.GET("/:slug", publicLimit, p.Public.GetPublicPage)
}
