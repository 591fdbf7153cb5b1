package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TransactionKind string

const (
	TxnKindDeposit  TransactionKind = "deposit"
	TxnKindWithdraw TransactionKind = "withdraw"
	TxnKindPayment  TransactionKind = "payment"
)

// WalletTransaction is an append-only ledger entry. Rows are never updated
// or deleted; the wallet balance always equals the sum of its entries.
type WalletTransaction struct {
	BaseModel
	WalletID uuid.UUID  `gorm:"index"`
	PostID   *uuid.UUID `gorm:"index"` // set for featured-plan payments

	Amount  int64           // signed, negative for payments/withdrawals
	Kind    TransactionKind `gorm:"type:transaction_kind;index"`
	Message string

	// Idempotency key for the logical operation that produced this entry
	// (e.g. one renewal window). Unique so a retried operation cannot
	// charge twice.
	ReferenceKey *string `gorm:"uniqueIndex"`

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Wallet Wallet `gorm:"foreignKey:WalletID"`
	Post   *Post  `gorm:"foreignKey:PostID"`
}
