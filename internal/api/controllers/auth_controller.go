package controllers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkbio/internal/config"
	"linkbio/internal/models/request_models"
	"linkbio/internal/models/response_models"
	"linkbio/internal/services"
	"linkbio/pkg/logger"
	"linkbio/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	frontendURL string
	log         *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, cfg config.Config, log *zap.Logger) *AuthController {
	return &AuthController{authService: authService, frontendURL: cfg.FrontendURL, log: log}
}

// Register godoc
// @Summary Register a new user
// @Description Creates the user and mails a verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.RegisterRequest true "Registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/auth/register [post]
func (a *AuthController) Register(c *gin.Context) {
	var req request_models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := a.authService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, response_models.NewUserResponse(user, false),
		"Usuário criado. Enviamos um código de verificação para o seu email.")
}

// Login godoc
// @Summary Login with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/login [post]
func (a *AuthController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := a.authService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Login successful")
}

// VerifyEmail godoc
// @Summary Confirm an email with the mailed code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.VerifyEmailRequest true "Verification payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/auth/verify-email [post]
func (a *AuthController) VerifyEmail(c *gin.Context) {
	var req request_models.VerifyEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := a.authService.VerifyEmail(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Email verificado com sucesso.")
}

// ResendCode godoc
// @Summary Mail a fresh verification code
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.ResendCodeRequest true "Email"
// @Success 200 {object} utils.APIResponse
// @Router /api/auth/resend-code [post]
func (a *AuthController) ResendCode(c *gin.Context) {
	var req request_models.ResendCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := a.authService.ResendVerificationCode(c.Request.Context(), req.Email); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Se o email existir, um novo código foi enviado.")
}

// DiscordLogin redirects the browser to Discord's consent screen.
// @Tags Auth
// @Router /api/auth/discord [get]
func (a *AuthController) DiscordLogin(c *gin.Context) {
	target, err := a.authService.DiscordLoginURL()
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// DiscordCallback finishes the OAuth flow and hands the token to the frontend.
// @Tags Auth
// @Router /api/auth/discord/callback [get]
func (a *AuthController) DiscordCallback(c *gin.Context) {
	token, err := a.authService.DiscordCallback(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		logger.WithContext(c.Request.Context(), a.log).Warn("discord login failed", zap.Error(err))
		c.Redirect(http.StatusFound, a.frontendURL+"/login?error=discord_login_failed")
		return
	}
	c.Redirect(http.StatusFound, a.frontendURL+"/auth/callback?token="+url.QueryEscape(token))
}
