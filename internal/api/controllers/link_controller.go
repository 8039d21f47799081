package controllers

import (
	"github.com/gin-gonic/gin"

	"linkbio/internal/models/request_models"
	"linkbio/internal/services"
	"linkbio/pkg/utils"
)

type LinkController struct {
	linkService services.LinkServiceInterface
}

func NewLinkController(linkService services.LinkServiceInterface) *LinkController {
	return &LinkController{linkService: linkService}
}

// ListLinks godoc
// @Summary Links of an owned page in display order
// @Tags Links
// @Produce json
// @Security BearerAuth
// @Param pageId path string true "Page id"
// @Success 200 {object} utils.APIResponse
// @Router /api/pages/{pageId}/links [get]
func (l *LinkController) ListLinks(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	pageID, ok := uuidParam(c, "pageId", utils.ErrPageNotFound)
	if !ok {
		return
	}

	links, err := l.linkService.ListByPage(c.Request.Context(), id.UserID, pageID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, links, "")
}

// CreateLink godoc
// @Summary Append a link; a future scheduledAt keeps it inactive until then
// @Tags Links
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pageId path string true "Page id"
// @Param request body request_models.CreateLinkRequest true "Link"
// @Success 201 {object} utils.APIResponse
// @Router /api/pages/{pageId}/links [post]
func (l *LinkController) CreateLink(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	pageID, ok := uuidParam(c, "pageId", utils.ErrPageNotFound)
	if !ok {
		return
	}
	var req request_models.CreateLinkRequest
	if !bindJSON(c, &req) {
		return
	}

	link, err := l.linkService.Create(c.Request.Context(), id.UserID, pageID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, link, "Link criado.")
}

// UpdateLink godoc
// @Summary Partially update a link
// @Tags Links
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param linkId path string true "Link id"
// @Param request body request_models.LinkPatch true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Router /api/links/{linkId} [patch]
func (l *LinkController) UpdateLink(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	linkID, ok := uuidParam(c, "linkId", utils.ErrLinkNotFound)
	if !ok {
		return
	}
	var patch request_models.LinkPatch
	if !bindJSON(c, &patch) {
		return
	}

	link, err := l.linkService.Update(c.Request.Context(), id.UserID, linkID, patch)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, link, "Link atualizado.")
}

// DeleteLink godoc
// @Summary Delete a link
// @Tags Links
// @Security BearerAuth
// @Param linkId path string true "Link id"
// @Success 200 {object} utils.APIResponse
// @Router /api/links/{linkId} [delete]
func (l *LinkController) DeleteLink(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	linkID, ok := uuidParam(c, "linkId", utils.ErrLinkNotFound)
	if !ok {
		return
	}

	if err := l.linkService.Delete(c.Request.Context(), id.UserID, linkID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Link excluído.")
}

// ReorderLinks godoc
// @Summary Rewrite link order; every id must belong to the page
// @Tags Links
// @Accept json
// @Security BearerAuth
// @Param pageId path string true "Page id"
// @Param request body request_models.ReorderRequest true "New positions"
// @Success 200 {object} utils.APIResponse
// @Router /api/pages/{pageId}/links/reorder [put]
func (l *LinkController) ReorderLinks(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	pageID, ok := uuidParam(c, "pageId", utils.ErrPageNotFound)
	if !ok {
		return
	}
	var req request_models.ReorderRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := l.linkService.Reorder(c.Request.Context(), id.UserID, pageID, req.Items); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Ordem atualizada.")
}
