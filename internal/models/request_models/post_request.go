package request_models

type CreatePostRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Address     string  `json:"address" binding:"required"`
	RentPrice   int64    `json:"rent_price" binding:"required,gt=0"`
	AreaSqm     float64  `json:"area_sqm" binding:"gte=0"`
	Amenities   []string `json:"amenities"`

	Tier         string `json:"tier" binding:"required"`
	DurationDays int    `json:"duration_days"` // ignored for STANDARD

	AutoRenew             bool `json:"auto_renew"`
	AutoRenewIntervalDays int  `json:"auto_renew_interval_days"`

	// Optional client token for safe retries; one key charges at most once.
	IdempotencyKey string `json:"idempotency_key"`
}

type ChangePlanRequest struct {
	Tier           string `json:"tier" binding:"required"`
	DurationDays   int    `json:"duration_days"`
	IdempotencyKey string `json:"idempotency_key"`
}

type ExtendPlanRequest struct {
	AdditionalDays int    `json:"additional_days" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

type SetAutoRenewRequest struct {
	Enabled      bool `json:"enabled"`
	IntervalDays int  `json:"interval_days"` // 7, 14 or 30; required when enabling
}

type RejectPostRequest struct {
	Reason string `json:"reason" binding:"required"`
}
