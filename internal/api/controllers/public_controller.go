package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"linkbio/internal/services"
	"linkbio/pkg/utils"
)

// PublicController serves the unauthenticated page and redirect routes.
type PublicController struct {
	pageService      services.PageServiceInterface
	linkService      services.LinkServiceInterface
	analyticsService services.AnalyticsServiceInterface
}

func NewPublicController(
	pageService services.PageServiceInterface,
	linkService services.LinkServiceInterface,
	analyticsService services.AnalyticsServiceInterface,
) *PublicController {
	return &PublicController{pageService: pageService, linkService: linkService, analyticsService: analyticsService}
}

func visitorCountry(c *gin.Context) string {
	if country := c.GetHeader("CF-IPCountry"); country != "" {
		return country
	}
	return c.GetHeader("X-Vercel-IP-Country")
}

// GetPublicPage godoc
// @Summary Public page by slug; records a view
// @Tags Public
// @Produce json
// @Param slug path string true "Page slug"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /{slug} [get]
func (p *PublicController) GetPublicPage(c *gin.Context) {
	page, err := p.pageService.GetPublicPage(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	p.analyticsService.TrackView(c.Request.Context(), page.ID, c.GetHeader("Referer"), visitorCountry(c))
	utils.RespondSuccess(c, page, "")
}

// Redirect godoc
// @Summary Follow a link; records a click
// @Tags Public
// @Param linkId path string true "Link id"
// @Success 302
// @Failure 404 {object} utils.APIResponse
// @Router /redirect/{linkId} [get]
func (p *PublicController) Redirect(c *gin.Context) {
	linkID, ok := uuidParam(c, "linkId", utils.WithMessage(utils.ErrLinkNotFound, "Link não encontrado."))
	if !ok {
		return
	}

	link, err := p.linkService.Resolve(c.Request.Context(), linkID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	p.analyticsService.TrackClick(c.Request.Context(), link, c.GetHeader("Referer"), visitorCountry(c))
	c.Redirect(http.StatusFound, link.URL)
}
