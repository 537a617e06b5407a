package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/repositories"
	"github.com/google/uuid"
)

// KnowledgeService mengelola knowledge base dan setting AI business
type KnowledgeService struct {
	kbRepo repositories.KBRepo
}

func NewKnowledgeService(kbRepo repositories.KBRepo) *KnowledgeService {
	return &KnowledgeService{kbRepo: kbRepo}
}

// AddEntry menambah pasangan tanya-jawab aktif
func (s *KnowledgeService) AddEntry(ctx context.Context, businessID uuid.UUID, question, answer string) (*models.KnowledgeEntry, error) {
	question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return nil, errors.New("question and answer are required")
	}

	entry := &models.KnowledgeEntry{
		BusinessID: businessID,
		Question:   question,
		Answer:     answer,
		IsActive:   true,
	}
	if err := s.kbRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save knowledge entry: %w", err)
	}
	return entry, nil
}

// ListEntries return semua entry aktif
func (s *KnowledgeService) ListEntries(ctx context.Context, businessID uuid.UUID) ([]models.KnowledgeEntry, error) {
	return s.kbRepo.ListActive(ctx, businessID)
}

// GetSettings return setting AI. Business tanpa setting dianggap disabled.
func (s *KnowledgeService) GetSettings(ctx context.Context, businessID uuid.UUID) (*models.AISettings, error) {
	settings, err := s.kbRepo.GetAISettings(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &models.AISettings{BusinessID: businessID}, nil
	}
	return settings, nil
}

// SaveSettings menyimpan setting AI business
func (s *KnowledgeService) SaveSettings(ctx context.Context, settings *models.AISettings) error {
	switch settings.Language {
	case "", "ar", "en":
	default:
		return fmt.Errorf("unsupported language %q", settings.Language)
	}
	if settings.Temperature < 0 || settings.Temperature > 2 {
		return errors.New("temperature must be between 0 and 2")
	}
	return s.kbRepo.SaveAISettings(ctx, settings)
}
