package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepo interface {
	Create(ctx context.Context, msg *models.Message) error
	// Recent returns up to limit messages of one conversation, newest first,
	// leaving out the message with id excludeID.
	Recent(ctx context.Context, businessID, customerID uuid.UUID, excludeID int64, limit int) ([]models.Message, error)
	CountByCustomer(ctx context.Context, businessID, customerID uuid.UUID) (int64, error)
	// ListByCustomer pages through one customer's messages, newest first.
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Message, error)
	// LatestPerCustomer returns the newest message of every conversation of a
	// business, most recently active first.
	LatestPerCustomer(ctx context.Context, businessID uuid.UUID) ([]models.Message, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, msg *models.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepo) Recent(ctx context.Context, businessID, customerID uuid.UUID, excludeID int64, limit int) ([]models.Message, error) {
	var messages []models.Message
	query := r.db.WithContext(ctx).
		Where("business_id = ? AND customer_id = ? AND id <> ?", businessID, customerID, excludeID).
		Order("timestamp DESC").
		Order("id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&messages).Error
	return messages, err
}

func (r *messageRepo) CountByCustomer(ctx context.Context, businessID, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("business_id = ? AND customer_id = ?", businessID, customerID).
		Count(&count).Error
	return count, err
}

func (r *messageRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepo) LatestPerCustomer(ctx context.Context, businessID uuid.UUID) ([]models.Message, error) {
	latest := r.db.Model(&models.Message{}).
		Select("MAX(id)").
		Where("business_id = ?", businessID).
		Group("customer_id")

	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("id IN (?)", latest).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&messages).Error
	return messages, err
}
