package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"phongtro/internal/infra"
	"phongtro/internal/models/db_models"
	"phongtro/internal/models/request_models"
	"phongtro/internal/models/response_models"
	"phongtro/internal/repositories"
	"phongtro/pkg/utils"
)

// Policy cap on purchasable duration. The calculator itself does not
// clamp; this is a product limit, not a pricing invariant.
const maxPlanDays = 365

type PostServiceInterface interface {
	CreatePost(ctx context.Context, accountID uuid.UUID, req request_models.CreatePostRequest) (*response_models.PostResponse, error)
	GetPost(ctx context.Context, id uuid.UUID) (*response_models.PostResponse, error)
	ListApprovedPosts(ctx context.Context, page, pageSize int) ([]response_models.PostResponse, error)
	ListMyPosts(ctx context.Context, accountID uuid.UUID) ([]response_models.PostResponse, error)

	PreviewCost(tier string, days int) (*response_models.CostPreviewResponse, error)
	ListPlans() []response_models.TierPlan

	ChangePlan(ctx context.Context, accountID, postID uuid.UUID, req request_models.ChangePlanRequest) (*response_models.PostResponse, error)
	ExtendPlan(ctx context.Context, accountID, postID uuid.UUID, req request_models.ExtendPlanRequest) (*response_models.PostResponse, error)
	SetAutoRenew(ctx context.Context, accountID, postID uuid.UUID, req request_models.SetAutoRenewRequest) (*response_models.PostResponse, error)
	ToggleAvailability(ctx context.Context, accountID, postID uuid.UUID) (*response_models.PostResponse, error)

	// Renew is the scheduler path: the Extend debit using the post's own
	// auto-renew interval as duration, keyed by the expiring window so the
	// same window cannot be charged twice.
	Renew(ctx context.Context, postID uuid.UUID) error

	AdminApprove(ctx context.Context, postID uuid.UUID) (*response_models.PostResponse, error)
	AdminReject(ctx context.Context, postID uuid.UUID, reason string) (*response_models.PostResponse, error)
}

type postService struct {
	posts     repositories.IPostRepository
	wallets   WalletServiceInterface
	pricing   PricingServiceInterface
	gate      *ApprovalGate
	txManager infra.TxManager
}

func NewPostService(
	posts repositories.IPostRepository,
	wallets WalletServiceInterface,
	pricing PricingServiceInterface,
	gate *ApprovalGate,
	txManager infra.TxManager,
) PostServiceInterface {
	return &postService{
		posts:     posts,
		wallets:   wallets,
		pricing:   pricing,
		gate:      gate,
		txManager: txManager,
	}
}

func validRenewInterval(days int) bool {
	return days == 7 || days == 14 || days == 30
}

func (p *postService) CreatePost(ctx context.Context, accountID uuid.UUID, req request_models.CreatePostRequest) (*response_models.PostResponse, error) {

	tier := db_models.PostTier(req.Tier)
	if !tier.Valid() {
		return nil, utils.ErrInvalidTier
	}

	now := utils.NowUnixSeconds()

	post := &db_models.Post{
		BaseModel:             db_models.BaseModel{ID: uuid.New()},
		AccountID:             accountID,
		Title:                 req.Title,
		Description:           req.Description,
		Address:               req.Address,
		RentPrice:             req.RentPrice,
		AreaSqm:               req.AreaSqm,
		Amenities:             req.Amenities,
		Status:                db_models.PostStatusDraft,
		Tier:                  tier,
		IsAvailable:           true,
		AutoRenewIntervalDays: 30,
		Version:               1,
	}

	if req.AutoRenew && tier.IsFeatured() {
		if !validRenewInterval(req.AutoRenewIntervalDays) {
			return nil, utils.ErrInvalidInterval
		}
		post.AutoRenew = true
		post.AutoRenewIntervalDays = req.AutoRenewIntervalDays
	}

	// Free tier: no wallet interaction, queued for manual review.
	if !tier.IsFeatured() {
		p.gate.Decide(post, now)
		if err := p.posts.Create(ctx, nil, post); err != nil {
			return nil, utils.ErrDatabaseError
		}
		resp := response_models.PostResponseFrom(post, now)
		return &resp, nil
	}

	days := req.DurationDays
	cost, err := p.pricing.Cost(tier, days)
	if err != nil {
		return nil, err
	}
	if days > maxPlanDays {
		return nil, utils.ErrInvalidDuration
	}

	ok, gap, err := p.wallets.Authorize(ctx, accountID, cost)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &utils.InsufficientFundsError{Required: cost, Balance: cost - gap}
	}

	referenceKey := req.IdempotencyKey
	if referenceKey == "" {
		referenceKey = "create:" + post.ID.String()
	}

	// The debit and the post row are one atomic unit: an insufficient
	// balance on the re-check, or any ledger failure, leaves no post.
	err = p.txManager.Do(ctx, func(tx *gorm.DB) error {
		message := fmt.Sprintf("Featured plan %s for %d days", tier, days)
		if _, err := p.wallets.Debit(ctx, tx, accountID, cost, message, referenceKey, &post.ID); err != nil {
			return err
		}

		post.IsPaid = true
		start := now
		end := now + int64(days)*utils.SecondsPerDay
		post.FeaturedStartDate = &start
		post.FeaturedEndDate = &end

		p.gate.Decide(post, now)

		return p.posts.Create(ctx, tx, post)
	})
	if err != nil {
		return nil, err
	}

	resp := response_models.PostResponseFrom(post, now)
	return &resp, nil
}

func (p *postService) loadOwned(ctx context.Context, accountID, postID uuid.UUID) (*db_models.Post, error) {
	post, err := p.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if post == nil {
		return nil, utils.ErrPostNotFound
	}
	if post.AccountID != accountID {
		return nil, utils.ErrNotPostOwner
	}
	return post, nil
}

func (p *postService) GetPost(ctx context.Context, id uuid.UUID) (*response_models.PostResponse, error) {
	post, err := p.posts.GetByID(ctx, id)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if post == nil {
		return nil, utils.ErrPostNotFound
	}

	resp := response_models.PostResponseFrom(post, utils.NowUnixSeconds())
	return &resp, nil
}

func (p *postService) ListApprovedPosts(ctx context.Context, page, pageSize int) ([]response_models.PostResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	now := utils.NowUnixSeconds()
	posts, err := p.posts.ListApproved(ctx, now, page, pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, response_models.PostResponseFrom(&posts[i], now))
	}
	return out, nil
}

func (p *postService) ListMyPosts(ctx context.Context, accountID uuid.UUID) ([]response_models.PostResponse, error) {
	posts, err := p.posts.ListByOwner(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	now := utils.NowUnixSeconds()
	out := make([]response_models.PostResponse, 0, len(posts))
	for i := range posts {
		out = append(out, response_models.PostResponseFrom(&posts[i], now))
	}
	return out, nil
}

func (p *postService) PreviewCost(tier string, days int) (*response_models.CostPreviewResponse, error) {
	t := db_models.PostTier(tier)
	cost, err := p.pricing.Cost(t, days)
	if err != nil {
		return nil, err
	}

	return &response_models.CostPreviewResponse{
		Tier:         tier,
		DurationDays: days,
		Cost:         cost,
	}, nil
}

func (p *postService) ListPlans() []response_models.TierPlan {
	table := p.pricing.Table()

	out := make([]response_models.TierPlan, 0, len(table))
	for tier, pricing := range table {
		out = append(out, response_models.TierPlan{
			Tier:         string(tier),
			DailyPrice:   pricing.DailyPrice,
			WeeklyPrice:  pricing.WeeklyPrice,
			MonthlyPrice: pricing.MonthlyPrice,
			Priority:     pricing.Priority,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

func (p *postService) ChangePlan(ctx context.Context, accountID, postID uuid.UUID, req request_models.ChangePlanRequest) (*response_models.PostResponse, error) {

	post, err := p.loadOwned(ctx, accountID, postID)
	if err != nil {
		return nil, err
	}

	tier := db_models.PostTier(req.Tier)
	if !tier.Valid() {
		return nil, utils.ErrInvalidTier
	}

	now := utils.NowUnixSeconds()

	// Downgrade to STANDARD: free, the paid window is dropped and the
	// post queues for manual review again.
	if !tier.IsFeatured() {
		post.Tier = tier
		post.IsPaid = false
		post.FeaturedStartDate = nil
		post.FeaturedEndDate = nil
		post.AutoRenew = false
		p.gate.Decide(post, now)

		if err := p.posts.SaveVersioned(ctx, nil, post); err != nil {
			return nil, err
		}
		resp := response_models.PostResponseFrom(post, now)
		return &resp, nil
	}

	days := req.DurationDays
	// The new plan is charged in full; no proration credit for unused
	// time on the old tier.
	cost, err := p.pricing.Cost(tier, days)
	if err != nil {
		return nil, err
	}
	if days > maxPlanDays {
		return nil, utils.ErrInvalidDuration
	}

	ok, gap, err := p.wallets.Authorize(ctx, accountID, cost)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &utils.InsufficientFundsError{Required: cost, Balance: cost - gap}
	}

	referenceKey := req.IdempotencyKey
	if referenceKey == "" {
		referenceKey = fmt.Sprintf("plan:%s:%s", post.ID, uuid.New())
	}

	err = p.txManager.Do(ctx, func(tx *gorm.DB) error {
		message := fmt.Sprintf("Plan change to %s for %d days", tier, days)
		if _, err := p.wallets.Debit(ctx, tx, accountID, cost, message, referenceKey, &post.ID); err != nil {
			return err
		}

		post.Tier = tier
		post.IsPaid = true
		start := now
		end := now + int64(days)*utils.SecondsPerDay
		post.FeaturedStartDate = &start
		post.FeaturedEndDate = &end

		p.gate.Decide(post, now)

		return p.posts.SaveVersioned(ctx, tx, post)
	})
	if err != nil {
		return nil, err
	}

	resp := response_models.PostResponseFrom(post, now)
	return &resp, nil
}

func (p *postService) ExtendPlan(ctx context.Context, accountID, postID uuid.UUID, req request_models.ExtendPlanRequest) (*response_models.PostResponse, error) {

	post, err := p.loadOwned(ctx, accountID, postID)
	if err != nil {
		return nil, err
	}

	if !post.IsPaid || !post.Tier.IsFeatured() || post.FeaturedEndDate == nil {
		return nil, utils.ErrFeaturedWindowMissing
	}

	days := req.AdditionalDays
	cost, err := p.pricing.Cost(post.Tier, days)
	if err != nil {
		return nil, err
	}
	if days > maxPlanDays {
		return nil, utils.ErrInvalidDuration
	}

	ok, gap, err := p.wallets.Authorize(ctx, accountID, cost)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &utils.InsufficientFundsError{Required: cost, Balance: cost - gap}
	}

	referenceKey := req.IdempotencyKey
	if referenceKey == "" {
		referenceKey = fmt.Sprintf("extend:%s:%s", post.ID, uuid.New())
	}

	err = p.txManager.Do(ctx, func(tx *gorm.DB) error {
		message := fmt.Sprintf("Extend plan %s by %d days", post.Tier, days)
		if _, err := p.wallets.Debit(ctx, tx, accountID, cost, message, referenceKey, &post.ID); err != nil {
			return err
		}

		// Additive: the window grows from its current end, it is not
		// reset from now.
		end := *post.FeaturedEndDate + int64(days)*utils.SecondsPerDay
		post.FeaturedEndDate = &end

		return p.posts.SaveVersioned(ctx, tx, post)
	})
	if err != nil {
		return nil, err
	}

	resp := response_models.PostResponseFrom(post, utils.NowUnixSeconds())
	return &resp, nil
}

func (p *postService) Renew(ctx context.Context, postID uuid.UUID) error {
	post, err := p.posts.GetByID(ctx, postID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if post == nil {
		return utils.ErrPostNotFound
	}

	if !post.AutoRenew || !post.IsPaid || !post.Tier.IsFeatured() || post.FeaturedEndDate == nil {
		return utils.ErrFeaturedWindowMissing
	}

	days := post.AutoRenewIntervalDays
	if !validRenewInterval(days) {
		days = 30
	}

	cost, err := p.pricing.Cost(post.Tier, days)
	if err != nil {
		return err
	}

	windowStart := *post.FeaturedEndDate
	referenceKey := fmt.Sprintf("renew:%s:%d", post.ID, windowStart)

	return p.txManager.Do(ctx, func(tx *gorm.DB) error {
		message := fmt.Sprintf("Auto renew %s for %d days", post.Tier, days)
		if _, err := p.wallets.Debit(ctx, tx, post.AccountID, cost, message, referenceKey, &post.ID); err != nil {
			return err
		}

		end := windowStart + int64(days)*utils.SecondsPerDay
		post.FeaturedEndDate = &end

		return p.posts.SaveVersioned(ctx, tx, post)
	})
}

func (p *postService) SetAutoRenew(ctx context.Context, accountID, postID uuid.UUID, req request_models.SetAutoRenewRequest) (*response_models.PostResponse, error) {

	post, err := p.loadOwned(ctx, accountID, postID)
	if err != nil {
		return nil, err
	}

	if req.Enabled {
		if !validRenewInterval(req.IntervalDays) {
			return nil, utils.ErrInvalidInterval
		}
		post.AutoRenew = true
		post.AutoRenewIntervalDays = req.IntervalDays
	} else {
		post.AutoRenew = false
	}

	if err := p.posts.SaveVersioned(ctx, nil, post); err != nil {
		return nil, err
	}

	resp := response_models.PostResponseFrom(post, utils.NowUnixSeconds())
	return &resp, nil
}

func (p *postService) ToggleAvailability(ctx context.Context, accountID, postID uuid.UUID) (*response_models.PostResponse, error) {

	post, err := p.loadOwned(ctx, accountID, postID)
	if err != nil {
		return nil, err
	}

	// Orthogonal to status, tier and payment state.
	post.IsAvailable = !post.IsAvailable

	if err := p.posts.SaveVersioned(ctx, nil, post); err != nil {
		return nil, err
	}

	resp := response_models.PostResponseFrom(post, utils.NowUnixSeconds())
	return &resp, nil
}

func (p *postService) AdminApprove(ctx context.Context, postID uuid.UUID) (*response_models.PostResponse, error) {
	post, err := p.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if post == nil {
		return nil, utils.ErrPostNotFound
	}
	if post.Status != db_models.PostStatusPending {
		return nil, utils.ErrPostNotPending
	}

	now := utils.NowUnixSeconds()
	post.Status = db_models.PostStatusApproved
	post.IsAutoApproved = false
	post.ApprovedAt = &now

	if err := p.posts.SaveVersioned(ctx, nil, post); err != nil {
		return nil, err
	}

	resp := response_models.PostResponseFrom(post, now)
	return &resp, nil
}

func (p *postService) AdminReject(ctx context.Context, postID uuid.UUID, reason string) (*response_models.PostResponse, error) {
	if reason == "" {
		return nil, utils.ErrRejectReasonRequired
	}

	post, err := p.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if post == nil {
		return nil, utils.ErrPostNotFound
	}
	if post.Status != db_models.PostStatusPending {
		return nil, utils.ErrPostNotPending
	}

	now := utils.NowUnixSeconds()
	post.Status = db_models.PostStatusRejected
	post.RejectedReason = &reason

	if err := p.posts.SaveVersioned(ctx, nil, post); err != nil {
		return nil, err
	}

	resp := response_models.PostResponseFrom(post, now)
	return &resp, nil
}
