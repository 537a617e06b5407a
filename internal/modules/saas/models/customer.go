package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is an end user identified by phone within one business.
type Customer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_customers_business_phone" json:"business_id"`
	Phone      string    `gorm:"type:text;not null;uniqueIndex:idx_customers_business_phone" json:"phone"`
	Name       string    `gorm:"type:text" json:"name"`
	Source     string    `gorm:"type:varchar(20)" json:"source"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (Customer) TableName() string {
	return "saas_customers"
}

// BeforeCreate sets UUID before creating
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CustomerSourceWhatsApp marks customers created from inbound WhatsApp traffic.
const CustomerSourceWhatsApp = "whatsapp"
