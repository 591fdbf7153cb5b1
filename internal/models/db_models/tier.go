package db_models

type PostTier string

const (
	TierVipNoiBat PostTier = "VIP_NOI_BAT"
	TierVip1      PostTier = "VIP_1"
	TierVip2      PostTier = "VIP_2"
	TierVip3      PostTier = "VIP_3"
	TierStandard  PostTier = "STANDARD"
)

// AllTiers is ordered by display priority, highest first.
var AllTiers = []PostTier{TierVipNoiBat, TierVip1, TierVip2, TierVip3, TierStandard}

func (t PostTier) Valid() bool {
	switch t {
	case TierVipNoiBat, TierVip1, TierVip2, TierVip3, TierStandard:
		return true
	}
	return false
}

// IsFeatured reports whether the tier is a paid VIP tier.
func (t PostTier) IsFeatured() bool {
	return t.Valid() && t != TierStandard
}
