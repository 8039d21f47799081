package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"linkbio/internal/models/request_models"
	"linkbio/internal/services"
	"linkbio/pkg/utils"
)

const defaultPagesPerRequest = 10

type PageController struct {
	pageService services.PageServiceInterface
}

func NewPageController(pageService services.PageServiceInterface) *PageController {
	return &PageController{pageService: pageService}
}

// ListPages godoc
// @Summary List the caller's pages
// @Tags Pages
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size (1-100)"
// @Param search query string false "Title or slug filter"
// @Success 200 {object} utils.APIResponse
// @Router /api/pages [get]
func (p *PageController) ListPages(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	page, limit, err := utils.ParsePagination(c, defaultPagesPerRequest)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	pages, err := p.pageService.ListMyPages(c.Request.Context(), id.UserID, page, limit, strings.TrimSpace(c.Query("search")))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, pages, "")
}

// CreatePage godoc
// @Summary Create a page with a chosen slug
// @Tags Pages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CreatePageRequest true "Slug and title"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/pages [post]
func (p *PageController) CreatePage(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req request_models.CreatePageRequest
	if !bindJSON(c, &req) {
		return
	}

	page, err := p.pageService.CreatePage(c.Request.Context(), id, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, page, "Página criada.")
}

// GetMyPage godoc
// @Summary The caller's first page, created on demand
// @Tags Pages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /api/pages/me [get]
func (p *PageController) GetMyPage(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	page, err := p.pageService.GetOrCreateMyPage(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "")
}

// GetPage godoc
// @Summary One owned page with its links, audios and blocks
// @Tags Pages
// @Produce json
// @Security BearerAuth
// @Param pageId path string true "Page id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/pages/{pageId} [get]
func (p *PageController) GetPage(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	pageID, ok := uuidParam(c, "pageId", utils.ErrPageNotFound)
	if !ok {
		return
	}

	page, err := p.pageService.GetMyPage(c.Request.Context(), id.UserID, pageID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "")
}

// UpdatePage godoc
// @Summary Partially update a page; null clears nullable fields
// @Tags Pages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param pageId path string true "Page id"
// @Param request body request_models.PagePatch true "Fields to change"
// @Success 200 {object} utils.APIResponse
// @Router /api/pages/{pageId} [patch]
func (p *PageController) UpdatePage(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	pageID, ok := uuidParam(c, "pageId", utils.ErrPageNotFound)
	if !ok {
		return
	}
	var patch request_models.PagePatch
	if !bindJSON(c, &patch) {
		return
	}

	page, err := p.pageService.UpdatePage(c.Request.Context(), id.UserID, pageID, patch)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "Página atualizada.")
}

// DeletePage godoc
// @Summary Delete an owned page
// @Tags Pages
// @Security BearerAuth
// @Param pageId path string true "Page id"
// @Success 200 {object} utils.APIResponse
// @Router /api/pages/{pageId} [delete]
func (p *PageController) DeletePage(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	pageID, ok := uuidParam(c, "pageId", utils.ErrPageNotFound)
	if !ok {
		return
	}

	if err := p.pageService.DeletePage(c.Request.Context(), id.UserID, pageID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Página excluída.")
}
