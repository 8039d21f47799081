package controllers

import (
	"github.com/gin-gonic/gin"

	"linkbio/internal/models/request_models"
	"linkbio/internal/services"
	"linkbio/pkg/utils"
)

type UploadController struct {
	uploadService services.UploadServiceInterface
}

func NewUploadController(uploadService services.UploadServiceInterface) *UploadController {
	return &UploadController{uploadService: uploadService}
}

// CreateSignedURL godoc
// @Summary Presigned PUT url for a media upload (valid 5 minutes)
// @Tags Uploads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.SignedURLRequest true "File metadata"
// @Success 200 {object} utils.APIResponse
// @Router /api/uploads/signed-url [post]
func (u *UploadController) CreateSignedURL(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req request_models.SignedURLRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := u.uploadService.CreateSignedURL(c.Request.Context(), id.UserID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "")
}
