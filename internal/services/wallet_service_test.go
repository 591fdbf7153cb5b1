package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"phongtro/internal/models/db_models"
	"phongtro/pkg/utils"
)

// memWalletRepo is a stateful repository fake mirroring the database
// guarantees the service relies on: lazy wallet rows, a balance kept in
// lockstep with the entries, and unique reference keys.
type memWalletRepo struct {
	wallets   map[uuid.UUID]*db_models.Wallet
	entries   map[uuid.UUID][]db_models.WalletTransaction
	refKeys   map[string]bool
	lastLimit int
}

func newMemWalletRepo() *memWalletRepo {
	return &memWalletRepo{
		wallets: make(map[uuid.UUID]*db_models.Wallet),
		entries: make(map[uuid.UUID][]db_models.WalletTransaction),
		refKeys: make(map[string]bool),
	}
}

func (r *memWalletRepo) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error) {
	wallet, ok := r.wallets[accountID]
	if !ok {
		return nil, nil
	}
	copied := *wallet
	return &copied, nil
}

func (r *memWalletRepo) CreateForAccount(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error) {
	wallet := &db_models.Wallet{
		BaseModel: db_models.BaseModel{ID: uuid.New()},
		AccountID: accountID,
	}
	r.wallets[accountID] = wallet
	copied := *wallet
	return &copied, nil
}

func (r *memWalletRepo) Debit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
	message, referenceKey string, postID *uuid.UUID) (*db_models.WalletTransaction, error) {

	wallet, ok := r.wallets[accountID]
	if !ok {
		return nil, utils.ErrWalletNotFound
	}
	if referenceKey != "" && r.refKeys[referenceKey] {
		return nil, utils.ErrDuplicateReference
	}
	if wallet.Balance < amount {
		return nil, &utils.InsufficientFundsError{Required: amount, Balance: wallet.Balance}
	}
	if referenceKey != "" {
		r.refKeys[referenceKey] = true
	}

	entry := db_models.WalletTransaction{
		BaseModel: db_models.BaseModel{ID: uuid.New()},
		WalletID:  wallet.ID,
		PostID:    postID,
		Amount:    -amount,
		Kind:      db_models.TxnKindPayment,
		Message:   message,
	}
	r.entries[wallet.ID] = append(r.entries[wallet.ID], entry)
	wallet.Balance -= amount
	return &entry, nil
}

func (r *memWalletRepo) Credit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
	kind db_models.TransactionKind, message, referenceKey string) (*db_models.WalletTransaction, error) {

	wallet, ok := r.wallets[accountID]
	if !ok {
		return nil, utils.ErrWalletNotFound
	}
	if referenceKey != "" && r.refKeys[referenceKey] {
		return nil, utils.ErrDuplicateReference
	}
	if referenceKey != "" {
		r.refKeys[referenceKey] = true
	}

	signed := amount
	if kind == db_models.TxnKindWithdraw {
		signed = -amount
	}
	entry := db_models.WalletTransaction{
		BaseModel: db_models.BaseModel{ID: uuid.New()},
		WalletID:  wallet.ID,
		Amount:    signed,
		Kind:      kind,
		Message:   message,
	}
	r.entries[wallet.ID] = append(r.entries[wallet.ID], entry)
	wallet.Balance += signed
	return &entry, nil
}

func (r *memWalletRepo) ListTransactions(ctx context.Context, walletID uuid.UUID, limit int) ([]db_models.WalletTransaction, error) {
	r.lastLimit = limit
	out := r.entries[walletID]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memWalletRepo) SumTransactions(ctx context.Context, walletID uuid.UUID) (int64, error) {
	var sum int64
	for _, entry := range r.entries[walletID] {
		sum += entry.Amount
	}
	return sum, nil
}

func (r *memWalletRepo) RevenueTotals(ctx context.Context) (int64, int64, error) {
	return 0, 0, nil
}

func TestEnsureWallet_CreatesLazily(t *testing.T) {
	repo := newMemWalletRepo()
	svc := NewWalletService(repo)
	accountID := uuid.New()

	wallet, err := svc.EnsureWallet(context.Background(), accountID)
	require.NoError(t, err)
	assert.Zero(t, wallet.Balance)

	again, err := svc.EnsureWallet(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, wallet.ID, again.ID, "second ensure returns the same wallet")
}

func TestGetWallet_MissingIsAnError(t *testing.T) {
	svc := NewWalletService(newMemWalletRepo())

	_, err := svc.GetWallet(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrWalletNotFound)
}

func TestAuthorize_GapMath(t *testing.T) {
	repo := newMemWalletRepo()
	svc := NewWalletService(repo)
	accountID := uuid.New()

	// No wallet row yet: authorizes like a zero balance.
	ok, gap, err := svc.Authorize(context.Background(), accountID, 380000)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(380000), gap)

	_, err = svc.EnsureWallet(context.Background(), accountID)
	require.NoError(t, err)
	_, err = svc.Credit(context.Background(), nil, accountID, 300000,
		db_models.TxnKindDeposit, "Nap vi", "topup-1")
	require.NoError(t, err)

	ok, gap, err = svc.Authorize(context.Background(), accountID, 380000)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(80000), gap)

	ok, gap, err = svc.Authorize(context.Background(), accountID, 300000)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, gap)
}

func TestDebitAndCredit_Validation(t *testing.T) {
	repo := newMemWalletRepo()
	svc := NewWalletService(repo)
	accountID := uuid.New()

	_, err := svc.Debit(context.Background(), nil, accountID, 0, "x", "", nil)
	assert.ErrorIs(t, err, utils.ErrInvalidAmount)

	_, err = svc.Debit(context.Background(), nil, accountID, -500, "x", "", nil)
	assert.ErrorIs(t, err, utils.ErrInvalidAmount)

	_, err = svc.Credit(context.Background(), nil, accountID, 0,
		db_models.TxnKindDeposit, "x", "")
	assert.ErrorIs(t, err, utils.ErrInvalidAmount)

	// Payment entries are only written by Debit, never by Credit.
	_, err = svc.Credit(context.Background(), nil, accountID, 1000,
		db_models.TxnKindPayment, "x", "")
	assert.Error(t, err)
}

func TestDebit_ReferenceKeySettlesOnce(t *testing.T) {
	repo := newMemWalletRepo()
	svc := NewWalletService(repo)
	accountID := uuid.New()

	_, err := svc.EnsureWallet(context.Background(), accountID)
	require.NoError(t, err)
	_, err = svc.Credit(context.Background(), nil, accountID, 1000000,
		db_models.TxnKindDeposit, "Nap vi", "topup-1")
	require.NoError(t, err)

	_, err = svc.Debit(context.Background(), nil, accountID, 190000, "Goi VIP_1", "charge-1", nil)
	require.NoError(t, err)

	_, err = svc.Debit(context.Background(), nil, accountID, 190000, "Goi VIP_1", "charge-1", nil)
	assert.ErrorIs(t, err, utils.ErrDuplicateReference)

	wallet, err := svc.GetWallet(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(810000), wallet.Balance)

	sum, err := repo.SumTransactions(context.Background(), wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, wallet.Balance, sum, "balance equals the sum of ledger entries")
}

func TestListTransactions_DefaultsTheLimit(t *testing.T) {
	repo := newMemWalletRepo()
	svc := NewWalletService(repo)
	accountID := uuid.New()

	_, err := svc.EnsureWallet(context.Background(), accountID)
	require.NoError(t, err)

	_, err = svc.ListTransactions(context.Background(), accountID, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)

	_, err = svc.ListTransactions(context.Background(), accountID, 1000)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)

	_, err = svc.ListTransactions(context.Background(), accountID, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, repo.lastLimit)
}
