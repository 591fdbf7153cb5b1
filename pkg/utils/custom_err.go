package utils

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrPostNotFound   = errors.New("post not found")
	ErrWalletNotFound = errors.New("wallet not found")
	ErrNotPostOwner   = errors.New("post does not belong to this account")

	ErrInvalidDuration = errors.New("duration must be a positive number of days")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidTier     = errors.New("unknown post tier")
	ErrInvalidInterval = errors.New("auto renew interval must be 7, 14 or 30 days")

	// Optimistic-lock miss on a post; the caller must re-price and retry
	// the whole operation, not reapply the stale mutation.
	ErrConcurrentModification = errors.New("post was modified concurrently")

	// The durability write for a ledger entry failed. The operation is
	// aborted and never retried blindly (a blind retry risks double charge).
	ErrLedgerWriteFailure = errors.New("ledger write failed")

	// The reference key already has a settled ledger entry, i.e. this
	// logical operation was applied before.
	ErrDuplicateReference = errors.New("operation already applied")

	ErrFeaturedWindowMissing = errors.New("post has no featured window to extend")

	ErrPostNotPending       = errors.New("post is not pending review")
	ErrRejectReasonRequired = errors.New("a rejection reason is required")
	ErrTopUpOrderNotFound   = errors.New("top-up order not found")
	ErrDatabaseError        = errors.New("database error")
	ErrRecordNotFound       = errors.New("record not found")
)

// InsufficientFundsError carries the funding gap so the API can tell the
// user exactly how much more to top up.
type InsufficientFundsError struct {
	Required int64
	Balance  int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %d more", e.Gap())
}

func (e *InsufficientFundsError) Gap() int64 {
	return e.Required - e.Balance
}

func IsInsufficientFunds(err error) (*InsufficientFundsError, bool) {
	var ife *InsufficientFundsError
	if errors.As(err, &ife) {
		return ife, true
	}
	return nil, false
}
