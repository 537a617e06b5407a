package repositories

import (
	"context"
	"errors"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type KBRepo interface {
	Create(ctx context.Context, entry *models.KnowledgeEntry) error
	ListActive(ctx context.Context, businessID uuid.UUID) ([]models.KnowledgeEntry, error)
	// GetAISettings returns nil without error when the business has no settings row.
	GetAISettings(ctx context.Context, businessID uuid.UUID) (*models.AISettings, error)
	SaveAISettings(ctx context.Context, settings *models.AISettings) error
}

type kbRepo struct {
	db *gorm.DB
}

func NewKBRepo(db *gorm.DB) KBRepo {
	return &kbRepo{db: db}
}

func (r *kbRepo) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *kbRepo) ListActive(ctx context.Context, businessID uuid.UUID) ([]models.KnowledgeEntry, error) {
	var entries []models.KnowledgeEntry
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND is_active = ?", businessID, true).
		Order("question").
		Find(&entries).Error
	return entries, err
}

func (r *kbRepo) GetAISettings(ctx context.Context, businessID uuid.UUID) (*models.AISettings, error) {
	var settings models.AISettings
	err := r.db.WithContext(ctx).First(&settings, "business_id = ?", businessID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *kbRepo) SaveAISettings(ctx context.Context, settings *models.AISettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
