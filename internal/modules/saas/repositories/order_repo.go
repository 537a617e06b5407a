package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrderRepo interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// Cancel moves a pending order to cancelled and fails its pending
	// payment transactions in the same database transaction. It reports
	// false when the order was not pending.
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepo {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	var cancelled bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", id, models.OrderStatusPending).
			Update("status", models.OrderStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		cancelled = true

		// Checkout yang masih terbuka tidak boleh lagi mengkonfirmasi order ini
		return tx.Model(&models.PaymentTransaction{}).
			Where("order_id = ? AND status = ?", id, models.PaymentStatusPending).
			Update("status", models.PaymentStatusFailed).Error
	})
	if err != nil {
		return false, err
	}
	return cancelled, nil
}
