package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment transaction status constants
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

// PaymentTransaction tracks one hosted checkout session for an order.
type PaymentTransaction struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	BusinessID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"business_id"`
	SessionID       string          `gorm:"type:text;not null;uniqueIndex" json:"session_id"`
	PaymentIntentID string          `gorm:"type:text" json:"payment_intent_id,omitempty"`
	CheckoutURL     string          `gorm:"type:text" json:"checkout_url"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency        string          `gorm:"type:varchar(3);not null" json:"currency"`
	Status          string          `gorm:"type:varchar(20);not null;index" json:"status"`
	ExpiresAt       *time.Time      `json:"expires_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (PaymentTransaction) TableName() string {
	return "saas_payment_transactions"
}

// BeforeCreate sets UUID before creating
func (t *PaymentTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// PaymentSettings links a business to its connected Stripe account.
// Payments stay disabled until an operator enables them.
type PaymentSettings struct {
	BusinessID uuid.UUID `gorm:"type:uuid;primaryKey" json:"business_id"`
	AccountID  string    `gorm:"type:text;not null" json:"account_id"`
	Enabled    bool      `json:"enabled"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (PaymentSettings) TableName() string {
	return "saas_payment_settings"
}
