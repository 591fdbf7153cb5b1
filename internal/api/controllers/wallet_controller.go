package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"phongtro/internal/models/response_models"
	"phongtro/internal/services"
	"phongtro/pkg/utils"
)

type WalletController struct {
	walletService services.WalletServiceInterface
}

func NewWalletController(walletService services.WalletServiceInterface) *WalletController {
	return &WalletController{
		walletService: walletService,
	}
}

// GetWallet godoc
// @Summary Get the current account's wallet balance
// @Tags Wallet
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wallet [get]
func (w *WalletController) GetWallet(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	wallet, err := w.walletService.EnsureWallet(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.WalletResponse{
		ID:      wallet.ID,
		Balance: wallet.Balance,
	}, "")
}

// ListTransactions godoc
// @Summary List the current account's wallet ledger entries
// @Tags Wallet
// @Produce json
// @Param limit query int false "Max entries"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /wallet/transactions [get]
func (w *WalletController) ListTransactions(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "limit must be a number")
		return
	}

	entries, err := w.walletService.ListTransactions(c.Request.Context(), accountID, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	out := make([]response_models.WalletTransactionResponse, 0, len(entries))
	for i := range entries {
		out = append(out, response_models.WalletTransactionResponseFrom(&entries[i]))
	}

	utils.RespondSuccess(c, out, "")
}
