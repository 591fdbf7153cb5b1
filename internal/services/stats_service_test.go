package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"phongtro/internal/models/db_models"
)

// fakeWalletRepo only needs to answer RevenueTotals for the stats
// aggregation; the ledger paths are covered by fakeWalletLedger.
type fakeWalletRepo struct {
	total        int64
	autoApproved int64
}

func (f *fakeWalletRepo) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error) {
	return nil, nil
}

func (f *fakeWalletRepo) CreateForAccount(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error) {
	return nil, nil
}

func (f *fakeWalletRepo) Debit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
	message, referenceKey string, postID *uuid.UUID) (*db_models.WalletTransaction, error) {
	return nil, nil
}

func (f *fakeWalletRepo) Credit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
	kind db_models.TransactionKind, message, referenceKey string) (*db_models.WalletTransaction, error) {
	return nil, nil
}

func (f *fakeWalletRepo) ListTransactions(ctx context.Context, walletID uuid.UUID, limit int) ([]db_models.WalletTransaction, error) {
	return nil, nil
}

func (f *fakeWalletRepo) SumTransactions(ctx context.Context, walletID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeWalletRepo) RevenueTotals(ctx context.Context) (int64, int64, error) {
	return f.total, f.autoApproved, nil
}

func TestGetRevenueStats_SplitsApprovalPaths(t *testing.T) {
	posts := newFakePostRepo()
	wallet := newFakeWalletLedger()
	postSvc := NewPostService(posts, wallet, NewPricingService(DefaultPricingTable()), NewApprovalGate(), fakeTxManager{})

	paidOwner := uuid.New()
	wallet.setBalance(paidOwner, 5000000)

	// Two paid posts auto-approve, one free post gets approved manually,
	// one free post stays pending.
	_, err := postSvc.CreatePost(context.Background(), paidOwner, createRequest("VIP_1", 30))
	require.NoError(t, err)
	_, err = postSvc.CreatePost(context.Background(), paidOwner, createRequest("VIP_3", 30))
	require.NoError(t, err)

	manual, err := postSvc.CreatePost(context.Background(), uuid.New(), createRequest("STANDARD", 0))
	require.NoError(t, err)
	_, err = postSvc.AdminApprove(context.Background(), manual.ID)
	require.NoError(t, err)

	_, err = postSvc.CreatePost(context.Background(), uuid.New(), createRequest("STANDARD", 0))
	require.NoError(t, err)

	statsSvc := NewStatsService(posts, &fakeWalletRepo{total: 1600000, autoApproved: 1600000})

	stats, err := statsSvc.GetRevenueStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalPosts)
	assert.Equal(t, int64(3), stats.CountByStatus[string(db_models.PostStatusApproved)])
	assert.Equal(t, int64(1), stats.CountByStatus[string(db_models.PostStatusPending)])
	assert.Zero(t, stats.CountByStatus[string(db_models.PostStatusRejected)])

	assert.Equal(t, int64(2), stats.AutoApprovedCount)
	assert.Equal(t, int64(1), stats.ManualApprovedCount)

	assert.Equal(t, int64(1600000), stats.TotalRevenue)
	assert.Equal(t, int64(1600000), stats.AutoApprovedRevenue)
}

func TestGetRevenueStats_EmptySystem(t *testing.T) {
	statsSvc := NewStatsService(newFakePostRepo(), &fakeWalletRepo{})

	stats, err := statsSvc.GetRevenueStats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalPosts)
	assert.Zero(t, stats.AutoApprovedCount)
	assert.Zero(t, stats.TotalRevenue)
}
