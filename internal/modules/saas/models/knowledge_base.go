package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KnowledgeEntry is one Q/A pair the assistant may ground its replies on.
type KnowledgeEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index" json:"business_id"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	Answer     string    `gorm:"type:text;not null" json:"answer"`
	IsActive   bool      `json:"is_active"`
}

// TableName specifies the table name
func (KnowledgeEntry) TableName() string {
	return "saas_knowledge_base"
}

// BeforeCreate sets UUID before creating
func (kb *KnowledgeEntry) BeforeCreate(tx *gorm.DB) error {
	if kb.ID == uuid.Nil {
		kb.ID = uuid.New()
	}
	return nil
}

// AISettings controls whether and how the assistant answers for a business.
// A business without a row is treated as disabled.
type AISettings struct {
	BusinessID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"business_id"`
	Enabled     bool      `json:"enabled"`
	Personality string    `gorm:"type:text" json:"personality"`
	Temperature float32   `json:"temperature"`
	Language    string    `gorm:"type:varchar(5)" json:"language"` // "ar", "en" or "" for bilingual
}

// TableName specifies the table name
func (AISettings) TableName() string {
	return "saas_ai_settings"
}
