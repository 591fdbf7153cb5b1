package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"phongtro/internal/models/db_models"
	"phongtro/pkg/utils"
)

type IPostRepository interface {
	Create(ctx context.Context, tx *gorm.DB, post *db_models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*db_models.Post, error)
	ListApproved(ctx context.Context, now int64, page, pageSize int) ([]db_models.Post, error)
	ListByOwner(ctx context.Context, accountID uuid.UUID) ([]db_models.Post, error)

	// SaveVersioned persists the mutable plan/review fields guarded by the
	// optimistic version column. Returns ErrConcurrentModification when the
	// row moved on since the post was loaded.
	SaveVersioned(ctx context.Context, tx *gorm.DB, post *db_models.Post) error

	ListDueForRenewal(ctx context.Context, cutoff int64) ([]db_models.Post, error)

	CountAll(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status db_models.PostStatus) (int64, error)
	CountApproved(ctx context.Context, autoApproved bool) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) IPostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) base(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *postRepository) Create(ctx context.Context, tx *gorm.DB, post *db_models.Post) error {
	return r.base(tx).WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Post, error) {
	var post db_models.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &post, nil
}

// Display priority: VIP tiers rank above STANDARD only while their paid
// window still covers now; lapsed windows fall back to STANDARD visibility.
const tierRankExpr = `CASE WHEN is_paid AND featured_end_date IS NOT NULL AND featured_end_date > ? THEN
	CASE tier
		WHEN 'VIP_NOI_BAT' THEN 1
		WHEN 'VIP_1' THEN 2
		WHEN 'VIP_2' THEN 3
		WHEN 'VIP_3' THEN 4
		ELSE 5
	END
	ELSE 5 END ASC, created_at DESC`

func (r *postRepository) ListApproved(ctx context.Context, now int64, page, pageSize int) ([]db_models.Post, error) {
	var posts []db_models.Post
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_available = TRUE", db_models.PostStatusApproved).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: tierRankExpr, Vars: []interface{}{now}},
		}).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error

	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) ListByOwner(ctx context.Context, accountID uuid.UUID) ([]db_models.Post, error) {
	var posts []db_models.Post
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&posts).Error

	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) SaveVersioned(ctx context.Context, tx *gorm.DB, post *db_models.Post) error {
	res := r.base(tx).WithContext(ctx).
		Model(&db_models.Post{}).
		Where("id = ? AND version = ?", post.ID, post.Version).
		Updates(map[string]interface{}{
			"status":                   post.Status,
			"tier":                     post.Tier,
			"is_paid":                  post.IsPaid,
			"featured_start_date":      post.FeaturedStartDate,
			"featured_end_date":        post.FeaturedEndDate,
			"auto_renew":               post.AutoRenew,
			"auto_renew_interval_days": post.AutoRenewIntervalDays,
			"is_auto_approved":         post.IsAutoApproved,
			"approved_at":              post.ApprovedAt,
			"rejected_reason":          post.RejectedReason,
			"is_available":             post.IsAvailable,
			"version":                  post.Version + 1,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrConcurrentModification
	}

	post.Version++
	return nil
}

func (r *postRepository) ListDueForRenewal(ctx context.Context, cutoff int64) ([]db_models.Post, error) {
	var posts []db_models.Post
	err := r.db.WithContext(ctx).
		Where("auto_renew = TRUE AND is_paid = TRUE AND tier <> ? AND featured_end_date IS NOT NULL AND featured_end_date <= ?",
			db_models.TierStandard, cutoff).
		Order("featured_end_date ASC").
		Find(&posts).Error

	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db_models.Post{}).Count(&count).Error
	return count, err
}

func (r *postRepository) CountByStatus(ctx context.Context, status db_models.PostStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db_models.Post{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *postRepository) CountApproved(ctx context.Context, autoApproved bool) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&db_models.Post{}).
		Where("status = ? AND is_auto_approved = ?", db_models.PostStatusApproved, autoApproved).
		Count(&count).Error
	return count, err
}
