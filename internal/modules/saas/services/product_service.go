package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService adalah katalog harga per business
type ProductService struct {
	productRepo  repositories.ProductRepo
	defaultPrice decimal.Decimal
}

// NewProductService membuat katalog. defaultPrice dipakai untuk produk yang belum ada di katalog.
func NewProductService(productRepo repositories.ProductRepo, defaultPrice decimal.Decimal) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		defaultPrice: defaultPrice,
	}
}

// CreateProductRequest represents the request to add a catalog product
type CreateProductRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price" swaggertype:"string" example:"25.00"`
}

// CreateProduct creates a new active product
func (s *ProductService) CreateProduct(ctx context.Context, businessID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.New("product name is required")
	}
	if req.Price.IsNegative() {
		return nil, errors.New("price cannot be negative")
	}

	product := &models.Product{
		BusinessID: businessID,
		Name:       name,
		Price:      req.Price,
		IsActive:   true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// UnitPrice return harga produk dari katalog, atau harga default kalau produk tidak dikenal
func (s *ProductService) UnitPrice(ctx context.Context, businessID uuid.UUID, name string) (decimal.Decimal, error) {
	product, err := s.productRepo.FindByName(ctx, businessID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.defaultPrice, nil
		}
		return decimal.Zero, fmt.Errorf("failed to look up product: %w", err)
	}
	return product.Price, nil
}
