package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"phongtro/internal/models/db_models"
)

type ITopUpRepository interface {
	Create(ctx context.Context, order *db_models.TopUpOrder) error
	FindByProviderTxnID(ctx context.Context, providerTxnID string) (*db_models.TopUpOrder, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, order *db_models.TopUpOrder,
		status db_models.TopUpStatus, paidAt *int64) error
	UpdateMetadata(ctx context.Context, order *db_models.TopUpOrder, metadata []byte) error
}

type topUpRepository struct {
	db *gorm.DB
}

func NewTopUpRepository(db *gorm.DB) ITopUpRepository {
	return &topUpRepository{db: db}
}

func (r *topUpRepository) base(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *topUpRepository) Create(ctx context.Context, order *db_models.TopUpOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *topUpRepository) FindByProviderTxnID(ctx context.Context, providerTxnID string) (*db_models.TopUpOrder, error) {
	var order db_models.TopUpOrder
	err := r.db.WithContext(ctx).First(&order, "provider_txn_id = ?", providerTxnID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &order, nil
}

func (r *topUpRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, order *db_models.TopUpOrder,
	status db_models.TopUpStatus, paidAt *int64) error {

	updates := map[string]interface{}{"status": status}
	if paidAt != nil {
		updates["paid_at"] = paidAt
	}

	if err := r.base(tx).WithContext(ctx).Model(order).Updates(updates).Error; err != nil {
		return err
	}

	order.Status = status
	if paidAt != nil {
		order.PaidAt = paidAt
	}
	return nil
}

func (r *topUpRepository) UpdateMetadata(ctx context.Context, order *db_models.TopUpOrder, metadata []byte) error {
	return r.db.WithContext(ctx).Model(order).Update("metadata", metadata).Error
}
