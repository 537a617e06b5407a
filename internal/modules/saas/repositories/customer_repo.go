package repositories

import (
	"context"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepo interface {
	FindOrCreate(ctx context.Context, businessID uuid.UUID, phone, name string) (*models.Customer, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Customer, error)
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepo {
	return &customerRepo{db: db}
}

// FindOrCreate inserts the customer unless (business_id, phone) already exists,
// then reads the surviving row. Concurrent callers all observe the same id.
func (r *customerRepo) FindOrCreate(ctx context.Context, businessID uuid.UUID, phone, name string) (*models.Customer, error) {
	db := r.db.WithContext(ctx)

	candidate := models.Customer{
		BusinessID: businessID,
		Phone:      phone,
		Name:       name,
		Source:     models.CustomerSourceWhatsApp,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "business_id"}, {Name: "phone"}},
		DoNothing: true,
	}).Create(&candidate).Error
	if err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := db.Where("business_id = ? AND phone = ?", businessID, phone).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Customer, error) {
	var customers []models.Customer
	if len(ids) == 0 {
		return customers, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&customers).Error
	return customers, err
}
