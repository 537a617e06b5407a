package models

import (
	"time"

	"github.com/google/uuid"
)

// Message directions
const (
	DirectionIncoming = "incoming"
	DirectionOutgoing = "outgoing"
)

// PlatformWhatsApp is the only channel currently wired.
const PlatformWhatsApp = "whatsapp"

// Message is an append-only conversation record. ID follows insertion order
// and breaks ties between messages sharing a timestamp.
type Message struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BusinessID    uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation" json:"business_id"`
	CustomerID    uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation" json:"customer_id"`
	CustomerPhone string    `gorm:"type:text;not null" json:"customer_phone"`
	Direction     string    `gorm:"type:varchar(10);not null" json:"direction"`
	Content       string    `gorm:"type:text" json:"content"`
	Platform      string    `gorm:"type:varchar(20);not null" json:"platform"`
	IsAI          bool      `gorm:"column:is_ai" json:"is_ai"`
	ExternalID    string    `gorm:"type:text" json:"external_id,omitempty"`
	Timestamp     time.Time `gorm:"not null;index" json:"timestamp"`
}

// TableName specifies the table name
func (Message) TableName() string {
	return "saas_messages"
}
