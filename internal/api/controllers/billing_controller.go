package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"linkbio/internal/services"
	"linkbio/pkg/utils"
)

const maxWebhookBody = 64 << 10

type BillingController struct {
	billingService services.BillingServiceInterface
}

func NewBillingController(billingService services.BillingServiceInterface) *BillingController {
	return &BillingController{billingService: billingService}
}

// CreateCheckout godoc
// @Summary Start a Stripe checkout for the Premium plan
// @Tags Billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Router /api/billing/checkout [post]
func (b *BillingController) CreateCheckout(c *gin.Context) {
	id, ok := caller(c)
	if !ok {
		return
	}

	checkout, err := b.billingService.CreateCheckout(c.Request.Context(), id.UserID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, checkout, "")
}

// HandleWebhook godoc
// @Summary Stripe webhook receiver
// @Tags Billing
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/billing/webhook [post]
func (b *BillingController) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := b.billingService.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, gin.H{"received": true}, "")
}
