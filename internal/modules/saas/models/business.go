package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is a tenant operating its own WhatsApp number.
type Business struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string    `gorm:"type:text;not null" json:"name"`
	OwnerEmail string    `gorm:"type:text" json:"owner_email"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (Business) TableName() string {
	return "saas_businesses"
}

// BeforeCreate sets UUID before creating
func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// WhatsApp connection status values
const (
	ConnectionStatusPairing      = "pairing"
	ConnectionStatusConnected    = "connected"
	ConnectionStatusDisconnected = "disconnected"
	ConnectionStatusAuthFailed   = "auth_failed"
)

// WhatsAppConnection mirrors the last known channel state of a business.
type WhatsAppConnection struct {
	BusinessID    uuid.UUID  `gorm:"type:uuid;primaryKey" json:"business_id"`
	PhoneNumber   string     `gorm:"type:text" json:"phone_number"`
	DeviceJID     string     `gorm:"column:device_jid;type:text" json:"device_jid"`
	Status        string     `gorm:"type:varchar(20);not null" json:"status"`
	LastConnected *time.Time `json:"last_connected,omitempty"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (WhatsAppConnection) TableName() string {
	return "saas_whatsapp_connections"
}

// All lists every model owned by the saas module, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Business{},
		&WhatsAppConnection{},
		&Customer{},
		&Message{},
		&KnowledgeEntry{},
		&AISettings{},
		&Product{},
		&Order{},
		&PaymentTransaction{},
		&PaymentSettings{},
	}
}
