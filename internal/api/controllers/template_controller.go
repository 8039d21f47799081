package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"linkbio/internal/models/request_models"
	"linkbio/internal/services"
	"linkbio/pkg/identity"
	"linkbio/pkg/utils"
)

type TemplateController struct {
	templateService services.TemplateServiceInterface
}

func NewTemplateController(templateService services.TemplateServiceInterface) *TemplateController {
	return &TemplateController{templateService: templateService}
}

// viewer is uuid.Nil for anonymous requests.
func viewer(c *gin.Context) uuid.UUID {
	if id, ok := identity.FromGin(c); ok {
		return id.UserID
	}
	return uuid.Nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ListTemplates godoc
// @Summary Browse public templates
// @Tags Templates
// @Produce json
// @Param search query string false "Name filter"
// @Param creatorName query string false "Creator name filter"
// @Param tags query string false "Comma separated tags"
// @Param sortBy query string false "popular, newest or oldest"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} utils.APIResponse
// @Router /api/templates [get]
func (t *TemplateController) ListTemplates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	query := request_models.ListTemplatesQuery{
		Search:      strings.TrimSpace(c.Query("search")),
		CreatorName: strings.TrimSpace(c.Query("creatorName")),
		Tags:        splitCSV(c.Query("tags")),
		SortBy:      c.DefaultQuery("sortBy", "popular"),
		Page:        page,
		Limit:       limit,
	}

	result, err := t.templateService.ListPublic(c.Request.Context(), viewer(c), query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, "")
}

// @Summary Newest public templates
// @Tags Templates
// @Router /api/templates/recent [get]
func (t *TemplateController) ListRecent(c *gin.Context) {
	templates, err := t.templateService.ListRecent(c.Request.Context(), viewer(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, templates, "")
}

// @Summary Most used tags
// @Tags Templates
// @Router /api/templates/tags [get]
func (t *TemplateController) PopularTags(c *gin.Context) {
	tags, err := t.templateService.PopularTags(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, tags, "")
}

// GetTemplate godoc
// @Summary One template; private ones only for their creator
// @Tags Templates
// @Produce json
// @Param id path string true "Template id"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/templates/{id} [get]
func (t *TemplateController) GetTemplate(c *gin.Context) {
	templateID, ok := uuidParam(c, "id", utils.ErrTemplateNotFound)
	if !ok {
		return
	}

	template, err := t.templateService.GetByID(c.Request.Context(), viewer(c), templateID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, template, "")
}

func (t *TemplateController) ListMine(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	templates, err := t.templateService.ListMine(c.Request.Context(), id.UserID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, templates, "")
}

func (t *TemplateController) ListFavorites(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	templates, err := t.templateService.ListFavorites(c.Request.Context(), id.UserID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, templates, "")
}

// CreateTemplate godoc
// @Summary Publish a snapshot of an owned page as a template
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.CreateTemplateRequest true "Template"
// @Success 201 {object} utils.APIResponse
// @Router /api/templates [post]
func (t *TemplateController) CreateTemplate(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req request_models.CreateTemplateRequest
	if !bindJSON(c, &req) {
		return
	}

	template, err := t.templateService.Create(c.Request.Context(), id.UserID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, template, "Template criado.")
}

// ApplyTemplate godoc
// @Summary Copy a template's look onto an owned page
// @Tags Templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template id"
// @Param request body request_models.ApplyTemplateRequest true "Target page"
// @Success 200 {object} utils.APIResponse
// @Router /api/templates/{id}/apply [post]
func (t *TemplateController) ApplyTemplate(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	templateID, ok := uuidParam(c, "id", utils.ErrTemplateNotFound)
	if !ok {
		return
	}
	var req request_models.ApplyTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	pageID, err := uuid.Parse(req.PageID)
	if err != nil {
		utils.HandleServiceError(c, utils.ErrPageNotFound)
		return
	}

	page, err := t.templateService.Apply(c.Request.Context(), id.UserID, templateID, pageID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, page, "Template aplicado.")
}

func (t *TemplateController) Favorite(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	templateID, ok := uuidParam(c, "id", utils.ErrTemplateNotFound)
	if !ok {
		return
	}

	if err := t.templateService.Favorite(c.Request.Context(), id.UserID, templateID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Template favoritado.")
}

func (t *TemplateController) Unfavorite(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	templateID, ok := uuidParam(c, "id", utils.ErrTemplateNotFound)
	if !ok {
		return
	}

	if err := t.templateService.Unfavorite(c.Request.Context(), id.UserID, templateID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Template removido dos favoritos.")
}

func (t *TemplateController) DeleteTemplate(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	templateID, ok := uuidParam(c, "id", utils.ErrTemplateNotFound)
	if !ok {
		return
	}

	if err := t.templateService.Delete(c.Request.Context(), id.UserID, templateID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Template excluído.")
}
