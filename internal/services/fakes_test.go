package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"phongtro/internal/models/db_models"
	"phongtro/pkg/utils"
)

// ============================================================================
// IN-MEMORY FAKES
// ============================================================================

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakePostRepo struct {
	mu    sync.Mutex
	posts map[uuid.UUID]db_models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uuid.UUID]db_models.Post)}
}

func (r *fakePostRepo) Create(ctx context.Context, tx *gorm.DB, post *db_models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = *post
	return nil
}

func (r *fakePostRepo) GetByID(ctx context.Context, id uuid.UUID) (*db_models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	post, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	out := post
	if post.FeaturedStartDate != nil {
		v := *post.FeaturedStartDate
		out.FeaturedStartDate = &v
	}
	if post.FeaturedEndDate != nil {
		v := *post.FeaturedEndDate
		out.FeaturedEndDate = &v
	}
	return &out, nil
}

func (r *fakePostRepo) ListApproved(ctx context.Context, now int64, page, pageSize int) ([]db_models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []db_models.Post
	for _, post := range r.posts {
		if post.Status == db_models.PostStatusApproved && post.IsAvailable {
			out = append(out, post)
		}
	}
	return out, nil
}

func (r *fakePostRepo) ListByOwner(ctx context.Context, accountID uuid.UUID) ([]db_models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []db_models.Post
	for _, post := range r.posts {
		if post.AccountID == accountID {
			out = append(out, post)
		}
	}
	return out, nil
}

func (r *fakePostRepo) SaveVersioned(ctx context.Context, tx *gorm.DB, post *db_models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[post.ID]
	if !ok || stored.Version != post.Version {
		return utils.ErrConcurrentModification
	}
	updated := *post
	updated.Version = post.Version + 1
	r.posts[post.ID] = updated
	post.Version++
	return nil
}

func (r *fakePostRepo) ListDueForRenewal(ctx context.Context, cutoff int64) ([]db_models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []db_models.Post
	for _, post := range r.posts {
		if post.RenewalDue(cutoff) {
			out = append(out, post)
		}
	}
	return out, nil
}

func (r *fakePostRepo) CountAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.posts)), nil
}

func (r *fakePostRepo) CountByStatus(ctx context.Context, status db_models.PostStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, post := range r.posts {
		if post.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakePostRepo) CountApproved(ctx context.Context, autoApproved bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, post := range r.posts {
		if post.Status == db_models.PostStatusApproved && post.IsAutoApproved == autoApproved {
			count++
		}
	}
	return count, nil
}

// fakeWalletLedger implements WalletServiceInterface over a single wallet
// per account, enforcing the same invariants as the real ledger: balance
// equals the sum of entries, and a reference key settles at most once.
type fakeWalletLedger struct {
	mu       sync.Mutex
	balances map[uuid.UUID]int64
	entries  []db_models.WalletTransaction
	refKeys  map[string]bool

	debitCalls int
	failDebit  error // injected fault for atomicity tests
}

func newFakeWalletLedger() *fakeWalletLedger {
	return &fakeWalletLedger{
		balances: make(map[uuid.UUID]int64),
		refKeys:  make(map[string]bool),
	}
}

func (w *fakeWalletLedger) setBalance(accountID uuid.UUID, balance int64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balances[accountID] = balance
}

func (w *fakeWalletLedger) balance(accountID uuid.UUID) int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balances[accountID]
}

func (w *fakeWalletLedger) EnsureWallet(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return &db_models.Wallet{
		BaseModel: db_models.BaseModel{ID: uuid.NewSHA1(uuid.NameSpaceOID, accountID[:])},
		AccountID: accountID,
		Balance:   w.balances[accountID],
	}, nil
}

func (w *fakeWalletLedger) GetWallet(ctx context.Context, accountID uuid.UUID) (*db_models.Wallet, error) {
	return w.EnsureWallet(ctx, accountID)
}

func (w *fakeWalletLedger) Authorize(ctx context.Context, accountID uuid.UUID, amount int64) (bool, int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	balance := w.balances[accountID]
	if balance >= amount {
		return true, 0, nil
	}
	return false, amount - balance, nil
}

func (w *fakeWalletLedger) Debit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
	message, referenceKey string, postID *uuid.UUID) (*db_models.WalletTransaction, error) {

	w.mu.Lock()
	defer w.mu.Unlock()

	w.debitCalls++
	if w.failDebit != nil {
		return nil, w.failDebit
	}
	if amount <= 0 {
		return nil, utils.ErrInvalidAmount
	}
	if referenceKey != "" && w.refKeys[referenceKey] {
		return nil, utils.ErrDuplicateReference
	}
	if w.balances[accountID] < amount {
		return nil, &utils.InsufficientFundsError{Required: amount, Balance: w.balances[accountID]}
	}

	if referenceKey != "" {
		w.refKeys[referenceKey] = true
	}
	entry := db_models.WalletTransaction{
		BaseModel: db_models.BaseModel{ID: uuid.New()},
		PostID:    postID,
		Amount:    -amount,
		Kind:      db_models.TxnKindPayment,
		Message:   message,
	}
	w.entries = append(w.entries, entry)
	w.balances[accountID] -= amount
	return &entry, nil
}

func (w *fakeWalletLedger) Credit(ctx context.Context, tx *gorm.DB, accountID uuid.UUID, amount int64,
	kind db_models.TransactionKind, message, referenceKey string) (*db_models.WalletTransaction, error) {

	w.mu.Lock()
	defer w.mu.Unlock()

	if amount <= 0 {
		return nil, utils.ErrInvalidAmount
	}
	if referenceKey != "" && w.refKeys[referenceKey] {
		return nil, utils.ErrDuplicateReference
	}

	signed := amount
	if kind == db_models.TxnKindWithdraw {
		signed = -amount
	}
	if referenceKey != "" {
		w.refKeys[referenceKey] = true
	}
	entry := db_models.WalletTransaction{
		BaseModel: db_models.BaseModel{ID: uuid.New()},
		Amount:    signed,
		Kind:      kind,
		Message:   message,
	}
	w.entries = append(w.entries, entry)
	w.balances[accountID] += signed
	return &entry, nil
}

func (w *fakeWalletLedger) ListTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]db_models.WalletTransaction, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]db_models.WalletTransaction, len(w.entries))
	copy(out, w.entries)
	return out, nil
}

// newTestPostService wires a post service over the in-memory fakes.
func newTestPostService() (PostServiceInterface, *fakePostRepo, *fakeWalletLedger) {
	posts := newFakePostRepo()
	wallet := newFakeWalletLedger()
	svc := NewPostService(posts, wallet, NewPricingService(DefaultPricingTable()), NewApprovalGate(), fakeTxManager{})
	return svc, posts, wallet
}
