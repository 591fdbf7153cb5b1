package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TopUpStatus string

const (
	TopUpStatusPending TopUpStatus = "pending"
	TopUpStatusPaid    TopUpStatus = "paid"
	TopUpStatusFailed  TopUpStatus = "failed"
)

// TopUpOrder tracks one gateway checkout for a wallet deposit. The wallet
// ledger only ever sees the final credit; pending orders live here so the
// ledger stays a sum of settled entries.
type TopUpOrder struct {
	BaseModel
	AccountID uuid.UUID `gorm:"index"`
	WalletID  uuid.UUID `gorm:"index"`

	Amount   int64
	Currency string      `gorm:"size:3"` // ISO 4217
	Status   TopUpStatus `gorm:"type:topup_status;index"`

	Provider      string `gorm:"index"`
	ProviderTxnID string `gorm:"uniqueIndex"` // idempotency across webhooks
	OrderCode     int64  `gorm:"index"`

	PaidAt   *int64
	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Account Account `gorm:"foreignKey:AccountID"`
	Wallet  Wallet  `gorm:"foreignKey:WalletID"`
}
