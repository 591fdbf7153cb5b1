package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"phongtro/internal/models/request_models"
	"phongtro/internal/services"
	"phongtro/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentServiceInterface
}

func NewPaymentController(paymentService services.PaymentServiceInterface) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// CreateTopUp godoc
// @Summary Create a wallet top-up checkout
// @Description Returns a payment URL; the wallet is credited once the gateway confirms
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreateTopUpRequest true "Top-up payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wallet/topup [post]
func (p *PaymentController) CreateTopUp(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var req request_models.CreateTopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	checkout, err := p.paymentService.CreateTopUp(c.Request.Context(), accountID, req.Amount)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, checkout, "Checkout URL created successfully")
}

func (p *PaymentController) HandleWebhook(c *gin.Context) {
	p.paymentService.HandleWebhook(c)
}
