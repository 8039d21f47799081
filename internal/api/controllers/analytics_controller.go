package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"linkbio/internal/services"
	"linkbio/pkg/utils"
)

type AnalyticsController struct {
	analyticsService services.AnalyticsServiceInterface
}

func NewAnalyticsController(analyticsService services.AnalyticsServiceInterface) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// GetAnalytics godoc
// @Summary Views, clicks and top lists for the caller's pages
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param period query string false "7d, 30d (default), 90d or all"
// @Param pageId query string false "Restrict to one page"
// @Success 200 {object} utils.APIResponse
// @Router /api/analytics [get]
func (a *AnalyticsController) GetAnalytics(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	var pageID *uuid.UUID
	if raw := c.Query("pageId"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			utils.HandleServiceError(c, utils.ErrPageNotFound)
			return
		}
		pageID = &parsed
	}

	report, err := a.analyticsService.GetForUser(c.Request.Context(), id.UserID, c.Query("period"), pageID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, report, "")
}
