package response_models

import (
	"github.com/google/uuid"

	"phongtro/internal/models/db_models"
	"phongtro/pkg/utils"
)

type PostResponse struct {
	ID          uuid.UUID `json:"id"`
	AccountID   uuid.UUID `json:"account_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Address     string    `json:"address"`
	RentPrice   int64     `json:"rent_price"`
	AreaSqm     float64   `json:"area_sqm"`
	Amenities   []string  `json:"amenities,omitempty"`

	Status string `json:"status"`
	Tier   string `json:"tier"`
	IsPaid bool   `json:"is_paid"`

	FeaturedStartDate string `json:"featured_start_date,omitempty"`
	FeaturedEndDate   string `json:"featured_end_date,omitempty"`
	FeaturedActive    bool   `json:"featured_active"`

	AutoRenew             bool `json:"auto_renew"`
	AutoRenewIntervalDays int  `json:"auto_renew_interval_days"`

	IsAutoApproved bool    `json:"is_auto_approved"`
	RejectedReason *string `json:"rejected_reason,omitempty"`
	IsAvailable    bool    `json:"is_available"`

	Version int64 `json:"version"`
}

func PostResponseFrom(post *db_models.Post, now int64) PostResponse {
	out := PostResponse{
		ID:                    post.ID,
		AccountID:             post.AccountID,
		Title:                 post.Title,
		Description:           post.Description,
		Address:               post.Address,
		RentPrice:             post.RentPrice,
		AreaSqm:               post.AreaSqm,
		Amenities:             post.Amenities,
		Status:                string(post.Status),
		Tier:                  string(post.Tier),
		IsPaid:                post.IsPaid,
		FeaturedActive:        post.FeaturedActive(now),
		AutoRenew:             post.AutoRenew,
		AutoRenewIntervalDays: post.AutoRenewIntervalDays,
		IsAutoApproved:        post.IsAutoApproved,
		RejectedReason:        post.RejectedReason,
		IsAvailable:           post.IsAvailable,
		Version:               post.Version,
	}

	if post.FeaturedStartDate != nil {
		out.FeaturedStartDate = utils.FormatRFC3339VN(utils.FromUnixSecondsVN(*post.FeaturedStartDate))
	}
	if post.FeaturedEndDate != nil {
		out.FeaturedEndDate = utils.FormatRFC3339VN(utils.FromUnixSecondsVN(*post.FeaturedEndDate))
	}

	return out
}

type CostPreviewResponse struct {
	Tier         string `json:"tier"`
	DurationDays int    `json:"duration_days"`
	Cost         int64  `json:"cost"`
}
