package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PostStatus string

const (
	PostStatusDraft    PostStatus = "draft"
	PostStatusPending  PostStatus = "pending"
	PostStatusApproved PostStatus = "approved"
	PostStatusRejected PostStatus = "rejected"
)

type Post struct {
	BaseModel
	AccountID uuid.UUID `gorm:"index"`

	Title       string
	Description *string
	Address     string
	RentPrice   int64 // VND per month
	AreaSqm     float64

	// e.g. "may lanh", "gac lung", "cho de xe"
	Amenities pq.StringArray `gorm:"type:text[]"`

	Status PostStatus `gorm:"type:post_status;index;default:'pending'"`
	Tier   PostTier   `gorm:"type:post_tier;index;default:'STANDARD'"`
	IsPaid bool       `gorm:"default:false"`

	// Featured window, unix seconds. Set only while IsPaid and Tier is a VIP tier.
	FeaturedStartDate *int64
	FeaturedEndDate   *int64 `gorm:"index"`

	AutoRenew             bool `gorm:"default:false"`
	AutoRenewIntervalDays int  `gorm:"default:30"`

	IsAutoApproved bool `gorm:"default:false"`
	ApprovedAt     *int64
	RejectedReason *string

	IsAvailable bool `gorm:"default:true"`

	// Optimistic lock, bumped on every tier/date mutation.
	Version int64 `gorm:"default:1"`

	Account Account `gorm:"foreignKey:AccountID"`
}

// FeaturedActive reports whether the paid window still covers now.
// Expiry does not change Status, only display and renewal eligibility.
func (p *Post) FeaturedActive(now int64) bool {
	return p.IsPaid && p.Tier.IsFeatured() &&
		p.FeaturedEndDate != nil && now < *p.FeaturedEndDate
}

// RenewalDue reports whether the auto-renew path should charge this post
// at or before cutoff (scan time plus lookahead).
func (p *Post) RenewalDue(cutoff int64) bool {
	return p.AutoRenew && p.IsPaid && p.Tier.IsFeatured() &&
		p.FeaturedEndDate != nil && *p.FeaturedEndDate <= cutoff
}
