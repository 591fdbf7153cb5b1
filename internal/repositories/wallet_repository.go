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

type IWalletRepository interface {
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error)
	CreateForAccount(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error)

	// Debit appends a payment ledger entry and decrements the balance in
	// one database transaction, re-checking the balance under a row lock.
	// amount is positive; the entry is recorded with a negative amount.
	Debit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
		message, referenceKey string, postID *uuid.UUID) (*db_models.WalletTransaction, error)

	// Credit appends a deposit (positive) or withdraw (negative) entry and
	// adjusts the balance accordingly, same pairing guarantee as Debit.
	Credit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
		kind db_models.TransactionKind, message, referenceKey string) (*db_models.WalletTransaction, error)

	ListTransactions(ctx context.Context, walletID uuid.UUID, limit int) ([]db_models.WalletTransaction, error)
	SumTransactions(ctx context.Context, walletID uuid.UUID) (int64, error)

	// RevenueTotals sums featured-plan payment entries, overall and for
	// auto-approved posts.
	RevenueTotals(ctx context.Context) (total int64, autoApproved int64, err error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) IWalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) base(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *walletRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error) {
	var wallet db_models.Wallet
	err := r.db.WithContext(ctx).First(&wallet, "account_id = ?", accountID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &wallet, nil
}

func (r *walletRepository) CreateForAccount(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error) {
	wallet := &db_models.Wallet{AccountID: accountID, Balance: 0}
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		return nil, err
	}
	return wallet, nil
}

func (r *walletRepository) Debit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
	message, referenceKey string, postID *uuid.UUID) (*db_models.WalletTransaction, error) {

	var entry *db_models.WalletTransaction
	err := r.base(tx).WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		var wallet db_models.Wallet
		if err := dbtx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&wallet, "account_id = ?", accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrWalletNotFound
			}
			return err
		}

		if wallet.Balance < amount {
			return &utils.InsufficientFundsError{Required: amount, Balance: wallet.Balance}
		}

		entry = &db_models.WalletTransaction{
			WalletID: wallet.ID,
			PostID:   postID,
			Amount:   -amount,
			Kind:     db_models.TxnKindPayment,
			Message:  message,
		}
		if referenceKey != "" {
			entry.ReferenceKey = &referenceKey
		}

		if err := dbtx.Create(entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ErrDuplicateReference
			}
			return utils.ErrLedgerWriteFailure
		}

		if err := dbtx.Model(&wallet).
			Update("balance", gorm.Expr("balance - ?", amount)).Error; err != nil {
			return utils.ErrLedgerWriteFailure
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *walletRepository) Credit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
	kind db_models.TransactionKind, message, referenceKey string) (*db_models.WalletTransaction, error) {

	signed := amount
	if kind == db_models.TxnKindWithdraw {
		signed = -amount
	}

	var entry *db_models.WalletTransaction
	err := r.base(tx).WithContext(ctx).Transaction(func(dbtx *gorm.DB) error {
		var wallet db_models.Wallet
		if err := dbtx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&wallet, "account_id = ?", accountID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrWalletNotFound
			}
			return err
		}

		if signed < 0 && wallet.Balance+signed < 0 {
			return &utils.InsufficientFundsError{Required: -signed, Balance: wallet.Balance}
		}

		entry = &db_models.WalletTransaction{
			WalletID: wallet.ID,
			Amount:   signed,
			Kind:     kind,
			Message:  message,
		}
		if referenceKey != "" {
			entry.ReferenceKey = &referenceKey
		}

		if err := dbtx.Create(entry).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return utils.ErrDuplicateReference
			}
			return utils.ErrLedgerWriteFailure
		}

		if err := dbtx.Model(&wallet).
			Update("balance", gorm.Expr("balance + ?", signed)).Error; err != nil {
			return utils.ErrLedgerWriteFailure
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, walletID uuid.UUID, limit int) ([]db_models.WalletTransaction, error) {
	var entries []db_models.WalletTransaction
	err := r.db.WithContext(ctx).
		Where("wallet_id = ?", walletID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *walletRepository) SumTransactions(ctx context.Context, walletID uuid.UUID) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&db_models.WalletTransaction{}).
		Where("wallet_id = ?", walletID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *walletRepository) RevenueTotals(ctx context.Context) (int64, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&db_models.WalletTransaction{}).
		Where("kind = ?", db_models.TxnKindPayment).
		Select("COALESCE(SUM(-amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, 0, err
	}

	var autoApproved int64
	err = r.db.WithContext(ctx).
		Model(&db_models.WalletTransaction{}).
		Joins("JOIN posts ON posts.id = wallet_transactions.post_id").
		Where("wallet_transactions.kind = ? AND posts.is_auto_approved = TRUE", db_models.TxnKindPayment).
		Select("COALESCE(SUM(-wallet_transactions.amount), 0)").
		Scan(&autoApproved).Error
	if err != nil {
		return 0, 0, err
	}

	return total, autoApproved, nil
}
