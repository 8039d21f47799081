package controllers

import (
	"github.com/gin-gonic/gin"

	"linkbio/internal/models/request_models"
	"linkbio/internal/services"
	"linkbio/pkg/utils"
)

// DomainController serves the premium custom-domain routes.
type DomainController struct {
	domainService services.DomainServiceInterface
}

func NewDomainController(domainService services.DomainServiceInterface) *DomainController {
	return &DomainController{domainService: domainService}
}

func (d *DomainController) GetDomain(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	domain, err := d.domainService.Get(c.Request.Context(), id.UserID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, domain, "")
}

// AddDomain godoc
// @Summary Attach a custom domain (one per user)
// @Tags Domains
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.AddDomainRequest true "Domain"
// @Success 201 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/domains [post]
func (d *DomainController) AddDomain(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}
	var req request_models.AddDomainRequest
	if !bindJSON(c, &req) {
		return
	}

	domain, err := d.domainService.Add(c.Request.Context(), id.UserID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondCreated(c, domain, "Domínio adicionado. Configure o registro CNAME e verifique.")
}

func (d *DomainController) RemoveDomain(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	if err := d.domainService.Remove(c.Request.Context(), id.UserID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Domínio removido.")
}

// VerifyDomain godoc
// @Summary Check the CNAME record; failures are reported in data.message
// @Tags Domains
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /api/domains/verify [post]
func (d *DomainController) VerifyDomain(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	result, err := d.domainService.Verify(c.Request.Context(), id.UserID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, result, result.Message)
}
