package services

import (
	"phongtro/internal/models/db_models"
)

// ApprovalGate decides whether a post skips manual review. Paying for a
// VIP tier buys an immediate trust-gate bypass; free posts always queue
// for an admin. The rule is binary on purpose: no other attribute of the
// post participates.
type ApprovalGate struct{}

func NewApprovalGate() *ApprovalGate {
	return &ApprovalGate{}
}

func (g *ApprovalGate) Decide(post *db_models.Post, now int64) {
	if post.IsPaid && post.Tier.IsFeatured() {
		post.Status = db_models.PostStatusApproved
		post.IsAutoApproved = true
		post.ApprovedAt = &now
		return
	}

	post.Status = db_models.PostStatusPending
	post.IsAutoApproved = false
}
