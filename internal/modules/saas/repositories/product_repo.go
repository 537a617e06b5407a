package repositories

import (
	"context"
	"strings"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepo interface {
	Create(ctx context.Context, product *models.Product) error
	// FindByName matches active products by name, ignoring case and surrounding spaces.
	FindByName(ctx context.Context, businessID uuid.UUID, name string) (*models.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepo {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepo) FindByName(ctx context.Context, businessID uuid.UUID, name string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND is_active = ? AND LOWER(name) = ?", businessID, true, strings.ToLower(strings.TrimSpace(name))).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
