package request_models

type CreateTopUpRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}
