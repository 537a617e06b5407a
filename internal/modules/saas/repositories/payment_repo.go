package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepo interface {
	CreateTransaction(ctx context.Context, txn *models.PaymentTransaction) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.PaymentTransaction, error)
	// GetOpenByOrder returns the pending, unexpired transaction of an order, or nil.
	GetOpenByOrder(ctx context.Context, orderID uuid.UUID, now time.Time) (*models.PaymentTransaction, error)

	// CompleteSession flips a pending transaction to completed and confirms
	// its order, if still pending, in one database transaction. Only the single
	// caller whose conditional update matched gets a non-nil result.
	CompleteSession(ctx context.Context, sessionID, paymentIntentID string, at time.Time) (*CompletedPayment, error)
	// FailSession moves a pending transaction to failed, leaving the order untouched.
	FailSession(ctx context.Context, sessionID string) (bool, error)
	// ExpireStale fails every pending transaction whose expiry is before now.
	ExpireStale(ctx context.Context, now time.Time) (int64, error)

	// GetSettings returns nil without error when the business never onboarded.
	GetSettings(ctx context.Context, businessID uuid.UUID) (*models.PaymentSettings, error)
	UpsertAccount(ctx context.Context, businessID uuid.UUID, accountID string) error
	SetEnabled(ctx context.Context, businessID uuid.UUID, enabled bool) (bool, error)
}

// CompletedPayment is what the winning CompleteSession call observed.
type CompletedPayment struct {
	Transaction *models.PaymentTransaction
	// OrderConfirmed is false when the order already left pending,
	// e.g. it was cancelled while the checkout was still open.
	OrderConfirmed bool
}

type paymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) PaymentRepo {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) CreateTransaction(ctx context.Context, txn *models.PaymentTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *paymentRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *paymentRepo) GetOpenByOrder(ctx context.Context, orderID uuid.UUID, now time.Time) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ? AND (expires_at IS NULL OR expires_at > ?)", orderID, models.PaymentStatusPending, now).
		Order("created_at DESC").
		First(&txn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *paymentRepo) CompleteSession(ctx context.Context, sessionID, paymentIntentID string, at time.Time) (*CompletedPayment, error) {
	var result *CompletedPayment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PaymentTransaction{}).
			Where("session_id = ? AND status = ?", sessionID, models.PaymentStatusPending).
			Updates(map[string]interface{}{
				"status":            models.PaymentStatusCompleted,
				"payment_intent_id": paymentIntentID,
				"completed_at":      at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var txn models.PaymentTransaction
		if err := tx.Where("session_id = ?", sessionID).First(&txn).Error; err != nil {
			return err
		}

		res = tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", txn.OrderID, models.OrderStatusPending).
			Updates(map[string]interface{}{
				"status":  models.OrderStatusConfirmed,
				"paid_at": at,
			})
		if res.Error != nil {
			return res.Error
		}

		result = &CompletedPayment{Transaction: &txn, OrderConfirmed: res.RowsAffected == 1}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *paymentRepo) FailSession(ctx context.Context, sessionID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.PaymentTransaction{}).
		Where("session_id = ? AND status = ?", sessionID, models.PaymentStatusPending).
		Update("status", models.PaymentStatusFailed)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *paymentRepo) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.PaymentTransaction{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.PaymentStatusPending, now).
		Update("status", models.PaymentStatusFailed)
	return res.RowsAffected, res.Error
}

func (r *paymentRepo) GetSettings(ctx context.Context, businessID uuid.UUID) (*models.PaymentSettings, error) {
	var settings models.PaymentSettings
	err := r.db.WithContext(ctx).First(&settings, "business_id = ?", businessID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpsertAccount records the connected account. Re-onboarding keeps the
// current enabled flag; a fresh row starts disabled.
func (r *paymentRepo) UpsertAccount(ctx context.Context, businessID uuid.UUID, accountID string) error {
	settings := models.PaymentSettings{BusinessID: businessID, AccountID: accountID}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "business_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"account_id", "updated_at"}),
	}).Create(&settings).Error
}

func (r *paymentRepo) SetEnabled(ctx context.Context, businessID uuid.UUID, enabled bool) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.PaymentSettings{}).
		Where("business_id = ?", businessID).
		Update("enabled", enabled)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
