package services

import (
	"context"
	"fmt"
	"time"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/repositories"
	"github.com/google/uuid"
)

// Messenger mengirim text lewat channel business. *whatsapp.Registry memenuhi interface ini.
type Messenger interface {
	Send(ctx context.Context, businessID, address, text string) error
}

// MessageService mengirim pesan keluar lalu mencatatnya sebagai Message outgoing
type MessageService struct {
	messenger   Messenger
	messageRepo repositories.MessageRepo
}

func NewMessageService(messenger Messenger, messageRepo repositories.MessageRepo) *MessageService {
	return &MessageService{messenger: messenger, messageRepo: messageRepo}
}

// RecordIncoming menyimpan pesan masuk
func (s *MessageService) RecordIncoming(ctx context.Context, customer *models.Customer, text, externalID string) (*models.Message, error) {
	msg := &models.Message{
		BusinessID:    customer.BusinessID,
		CustomerID:    customer.ID,
		CustomerPhone: customer.Phone,
		Direction:     models.DirectionIncoming,
		Content:       text,
		Platform:      models.PlatformWhatsApp,
		ExternalID:    externalID,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to save incoming message: %w", err)
	}
	return msg, nil
}

// SendAndRecord mengirim text ke address. Pesan hanya dicatat kalau pengiriman berhasil.
func (s *MessageService) SendAndRecord(ctx context.Context, businessID, customerID uuid.UUID, address, text string, isAI bool) error {
	if err := s.messenger.Send(ctx, businessID.String(), address, text); err != nil {
		return err
	}

	msg := &models.Message{
		BusinessID:    businessID,
		CustomerID:    customerID,
		CustomerPhone: address,
		Direction:     models.DirectionOutgoing,
		Content:       text,
		Platform:      models.PlatformWhatsApp,
		IsAI:          isAI,
		Timestamp:     time.Now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return fmt.Errorf("message sent but not saved: %w", err)
	}
	return nil
}

// SendDirect mengirim text tanpa customer terkait (dipakai endpoint admin)
func (s *MessageService) SendDirect(ctx context.Context, businessID uuid.UUID, address, text string) error {
	return s.messenger.Send(ctx, businessID.String(), address, text)
}
