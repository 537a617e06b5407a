package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderItem represents a single item in an order
type OrderItem struct {
	Product   string          `json:"product"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Order is a purchase captured from a conversation.
type Order struct {
	ID              uuid.UUID                      `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID      uuid.UUID                      `gorm:"type:uuid;not null;index" json:"business_id"`
	CustomerID      uuid.UUID                      `gorm:"type:uuid;not null;index" json:"customer_id"`
	Status          string                         `gorm:"type:varchar(20);not null" json:"status"`
	Items           datatypes.JSONSlice[OrderItem] `json:"items"`
	TotalAmount     decimal.Decimal                `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Currency        string                         `gorm:"type:varchar(3)" json:"currency"`
	DeliveryAddress string                         `gorm:"type:text" json:"delivery_address"`
	ContactPhone    string                         `gorm:"type:text" json:"contact_phone"`
	PaidAt          *time.Time                     `json:"paid_at,omitempty"`
	CreatedAt       time.Time                      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time                      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Order) TableName() string {
	return "saas_orders"
}

// BeforeCreate sets UUID before creating
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusFailed    = "failed"
	OrderStatusCancelled = "cancelled"
)
