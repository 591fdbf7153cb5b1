package services

import (
	"context"

	"phongtro/internal/models/db_models"
	"phongtro/internal/models/response_models"
	"phongtro/internal/repositories"
	"phongtro/pkg/utils"
)

// StatsService derives revenue/efficiency metrics for admin reporting.
// Pure aggregation, recomputed on demand; nothing here mutates state.
type StatsServiceInterface interface {
	GetRevenueStats(ctx context.Context) (*response_models.RevenueStatsResponse, error)
}

type statsService struct {
	posts   repositories.IPostRepository
	wallets repositories.IWalletRepository
}

func NewStatsService(posts repositories.IPostRepository, wallets repositories.IWalletRepository) StatsServiceInterface {
	return &statsService{posts: posts, wallets: wallets}
}

func (s *statsService) GetRevenueStats(ctx context.Context) (*response_models.RevenueStatsResponse, error) {
	total, err := s.posts.CountAll(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	byStatus := make(map[string]int64, 4)
	for _, status := range []db_models.PostStatus{
		db_models.PostStatusDraft,
		db_models.PostStatusPending,
		db_models.PostStatusApproved,
		db_models.PostStatusRejected,
	} {
		count, err := s.posts.CountByStatus(ctx, status)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		byStatus[string(status)] = count
	}

	autoApproved, err := s.posts.CountApproved(ctx, true)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	manualApproved, err := s.posts.CountApproved(ctx, false)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	revenue, autoRevenue, err := s.wallets.RevenueTotals(ctx)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.RevenueStatsResponse{
		TotalPosts:          total,
		CountByStatus:       byStatus,
		AutoApprovedCount:   autoApproved,
		ManualApprovedCount: manualApproved,
		TotalRevenue:        revenue,
		AutoApprovedRevenue: autoRevenue,
	}, nil
}
