package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"phongtro/internal/models/db_models"
	"phongtro/internal/repositories"
	"phongtro/pkg/utils"
)

type WalletServiceInterface interface {
	// EnsureWallet returns the account's wallet, creating an empty one on
	// first use.
	EnsureWallet(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error)

	GetWallet(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error)

	// Authorize is the read-only affordability check: ok iff the balance
	// covers amount. gap is how much is missing when it does not.
	Authorize(ctx context.Context, accountID uuid.UUID, amount int64) (ok bool, gap int64, err error)

	// Debit charges amount from the wallet inside tx (or its own
	// transaction when tx is nil). referenceKey makes the logical
	// operation idempotent.
	Debit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
		message, referenceKey string, postID *uuid.UUID) (*db_models.WalletTransaction, error)

	Credit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
		kind db_models.TransactionKind, message, referenceKey string) (*db_models.WalletTransaction, error)

	ListTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]db_models.WalletTransaction, error)
}

type walletService struct {
	walletRepo repositories.IWalletRepository
}

func NewWalletService(walletRepo repositories.IWalletRepository) WalletServiceInterface {
	return &walletService{walletRepo: walletRepo}
}

func (w *walletService) EnsureWallet(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error) {
	wallet, err := w.walletRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if wallet != nil {
		return wallet, nil
	}

	wallet, err = w.walletRepo.CreateForAccount(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return wallet, nil
}

func (w *walletService) GetWallet(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error) {
	wallet, err := w.walletRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if wallet == nil {
		return nil, utils.ErrWalletNotFound
	}
	return wallet, nil
}

func (w *walletService) Authorize(ctx context.Context, accountID uuid.UUID, amount int64) (bool, int64, error) {
	wallet, err := w.walletRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return false, 0, utils.ErrDatabaseError
	}

	// A missing wallet authorizes like an empty one; it is created lazily
	// on the first top-up.
	var balance int64
	if wallet != nil {
		balance = wallet.Balance
	}

	if balance >= amount {
		return true, 0, nil
	}
	return false, amount - balance, nil
}

func (w *walletService) Debit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
	message, referenceKey string, postID *uuid.UUID) (*db_models.WalletTransaction, error) {

	if amount <= 0 {
		return nil, utils.ErrInvalidAmount
	}

	return w.walletRepo.Debit(ctx, tx, accountID, amount, message, referenceKey, postID)
}

func (w *walletService) Credit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
	kind db_models.TransactionKind, message, referenceKey string) (*db_models.WalletTransaction, error) {

	if amount <= 0 {
		return nil, utils.ErrInvalidAmount
	}
	if kind != db_models.TxnKindDeposit && kind != db_models.TxnKindWithdraw {
		return nil, utils.ErrDatabaseError
	}

	return w.walletRepo.Credit(ctx, tx, accountID, amount, kind, message, referenceKey)
}

func (w *walletService) ListTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]db_models.WalletTransaction, error) {
	wallet, err := w.GetWallet(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	entries, err := w.walletRepo.ListTransactions(ctx, wallet.ID, limit)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return entries, nil
}
