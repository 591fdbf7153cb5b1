package db_models

import (
	"github.com/google/uuid"
)

// Wallet holds the spendable balance for one account, in whole VND.
// Balance is only ever mutated inside a ledger transaction together with
// the WalletTransaction row that explains the change.
type Wallet struct {
	BaseModel
	AccountID uuid.UUID `gorm:"uniqueIndex"`
	Balance   int64     `gorm:"not null;default:0"`

	Account Account `gorm:"foreignKey:AccountID"`
}
