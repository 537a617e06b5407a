package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultHistoryPage = 50
	MaxHistoryPage     = 200
)

// ConversationSummary adalah pesan terakhir satu customer, dipakai untuk daftar inbox
type ConversationSummary struct {
	CustomerID           uuid.UUID        `json:"customer_id"`
	CustomerPhone        string           `json:"customer_phone"`
	Customer             *models.Customer `json:"customer,omitempty"`
	LastMessage          string           `json:"last_message"`
	LastMessageTime      time.Time        `json:"last_message_time"`
	LastMessageDirection string           `json:"last_message_direction"`
}

// ConversationService membaca riwayat chat untuk dashboard
type ConversationService struct {
	messageRepo  repositories.MessageRepo
	customerRepo repositories.CustomerRepo
	businessRepo repositories.BusinessRepo
}

func NewConversationService(
	messageRepo repositories.MessageRepo,
	customerRepo repositories.CustomerRepo,
	businessRepo repositories.BusinessRepo,
) *ConversationService {
	return &ConversationService{
		messageRepo:  messageRepo,
		customerRepo: customerRepo,
		businessRepo: businessRepo,
	}
}

// History return pesan customer dari yang terbaru. limit di luar 1..MaxHistoryPage
// diganti default.
func (s *ConversationService) History(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]models.Message, error) {
	if _, err := s.customerRepo.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	if limit < 1 || limit > MaxHistoryPage {
		limit = DefaultHistoryPage
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.messageRepo.ListByCustomer(ctx, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	return messages, nil
}

// List return satu ringkasan per customer, percakapan paling baru di depan
func (s *ConversationService) List(ctx context.Context, businessID uuid.UUID) ([]ConversationSummary, error) {
	if _, err := s.businessRepo.GetByID(ctx, businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, fmt.Errorf("failed to load business: %w", err)
	}

	latest, err := s.messageRepo.LatestPerCustomer(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversations: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(latest))
	for _, m := range latest {
		ids = append(ids, m.CustomerID)
	}
	customers, err := s.customerRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Customer, len(customers))
	for i := range customers {
		byID[customers[i].ID] = &customers[i]
	}

	summaries := make([]ConversationSummary, 0, len(latest))
	for _, m := range latest {
		summaries = append(summaries, ConversationSummary{
			CustomerID:           m.CustomerID,
			CustomerPhone:        m.CustomerPhone,
			Customer:             byID[m.CustomerID],
			LastMessage:          m.Content,
			LastMessageTime:      m.Timestamp,
			LastMessageDirection: m.Direction,
		})
	}
	return summaries, nil
}
