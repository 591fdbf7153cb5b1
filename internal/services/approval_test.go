package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phongtro/internal/models/db_models"
)

func TestApprovalGate_PaidVipAutoApproves(t *testing.T) {
	gate := NewApprovalGate()
	now := int64(1700000000)

	post := &db_models.Post{Tier: db_models.TierVip2, IsPaid: true}
	gate.Decide(post, now)

	assert.Equal(t, db_models.PostStatusApproved, post.Status)
	assert.True(t, post.IsAutoApproved)
	require.NotNil(t, post.ApprovedAt)
	assert.Equal(t, now, *post.ApprovedAt)
}

func TestApprovalGate_FreeTierQueuesForReview(t *testing.T) {
	gate := NewApprovalGate()

	post := &db_models.Post{Tier: db_models.TierStandard, IsPaid: false}
	gate.Decide(post, 1700000000)

	assert.Equal(t, db_models.PostStatusPending, post.Status)
	assert.False(t, post.IsAutoApproved)
	assert.Nil(t, post.ApprovedAt)
}

// A VIP tier without settled payment never bypasses review, and a paid
// STANDARD combination (which the engine never produces) does not either.
// The rule is binary on paid && featured.
func TestApprovalGate_Divergence(t *testing.T) {
	gate := NewApprovalGate()
	now := int64(1700000000)

	cases := []struct {
		tier     db_models.PostTier
		isPaid   bool
		wantAuto bool
	}{
		{db_models.TierVipNoiBat, true, true},
		{db_models.TierVip1, true, true},
		{db_models.TierVip1, false, false},
		{db_models.TierStandard, true, false},
		{db_models.TierStandard, false, false},
	}

	for _, tc := range cases {
		post := &db_models.Post{Tier: tc.tier, IsPaid: tc.isPaid}
		gate.Decide(post, now)

		assert.Equal(t, tc.wantAuto, post.IsAutoApproved, "tier=%s paid=%v", tc.tier, tc.isPaid)

		// isAutoApproved == true implies isPaid && tier != STANDARD
		if post.IsAutoApproved {
			assert.True(t, post.IsPaid)
			assert.True(t, post.Tier.IsFeatured())
		}
	}
}
