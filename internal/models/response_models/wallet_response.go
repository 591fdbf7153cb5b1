package response_models

import (
	"github.com/google/uuid"

	"phongtro/internal/models/db_models"
	"phongtro/pkg/utils"
)

type WalletResponse struct {
	ID      uuid.UUID `json:"id"`
	Balance int64     `json:"balance"`
}

type WalletTransactionResponse struct {
	ID        uuid.UUID  `json:"id"`
	PostID    *uuid.UUID `json:"post_id,omitempty"`
	Amount    int64      `json:"amount"`
	Kind      string     `json:"kind"`
	Message   string     `json:"message"`
	CreatedAt string     `json:"created_at"`
}

func WalletTransactionResponseFrom(entry *db_models.WalletTransaction) WalletTransactionResponse {
	return WalletTransactionResponse{
		ID:        entry.ID,
		PostID:    entry.PostID,
		Amount:    entry.Amount,
		Kind:      string(entry.Kind),
		Message:   entry.Message,
		CreatedAt: utils.FormatRFC3339VN(utils.FromUnixSecondsVN(entry.CreatedAt)),
	}
}

type CreateTopUpResponse struct {
	OrderCode  int64  `json:"order_code"`
	Amount     int64  `json:"amount"`
	PaymentURL string `json:"payment_url"`
	Provider   string `json:"provider"`
}
