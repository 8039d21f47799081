package controllers

import (
	"github.com/gin-gonic/gin"

	"linkbio/internal/models/request_models"
	"linkbio/internal/services"
	"linkbio/pkg/utils"
)

type UserController struct {
	userService services.UserServiceInterface
}

func NewUserController(userService services.UserServiceInterface) *UserController {
	return &UserController{userService: userService}
}

// GetMe godoc
// @Summary Current user profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /api/users/me [get]
func (u *UserController) GetMe(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	user, err := u.userService.GetMe(c.Request.Context(), id.UserID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, user, "")
}

// UpdateProfile godoc
// @Summary Update name and avatar
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} utils.APIResponse
// @Router /api/users/me [patch]
func (u *UserController) UpdateProfile(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req request_models.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := u.userService.UpdateProfile(c.Request.Context(), id.UserID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, user, "Perfil atualizado.")
}

// UpdateEmail godoc
// @Summary Change the login email; a new verification code is mailed
// @Tags Users
// @Accept json
// @Security BearerAuth
// @Param request body request_models.UpdateEmailRequest true "New email and current password"
// @Success 200 {object} utils.APIResponse
// @Router /api/users/me/email [patch]
func (u *UserController) UpdateEmail(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req request_models.UpdateEmailRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := u.userService.UpdateEmail(c.Request.Context(), id.UserID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Email atualizado. Verifique sua caixa de entrada.")
}

// UpdatePassword godoc
// @Summary Set or change the password
// @Tags Users
// @Accept json
// @Security BearerAuth
// @Param request body request_models.UpdatePasswordRequest true "Passwords"
// @Success 200 {object} utils.APIResponse
// @Router /api/users/me/password [patch]
func (u *UserController) UpdatePassword(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req request_models.UpdatePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := u.userService.UpdatePassword(c.Request.Context(), id.UserID, req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Senha atualizada.")
}

// UnlinkDiscord godoc
// @Summary Remove the linked Discord account
// @Tags Users
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /api/users/me/discord [delete]
func (u *UserController) UnlinkDiscord(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	user, err := u.userService.UnlinkDiscord(c.Request.Context(), id.UserID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, user, "Conta do Discord desvinculada.")
}

// DeleteMe godoc
// @Summary Delete the account and everything it owns
// @Tags Users
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /api/users/me [delete]
func (u *UserController) DeleteMe(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	if err := u.userService.DeleteMe(c.Request.Context(), id.UserID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Conta excluída.")
}
