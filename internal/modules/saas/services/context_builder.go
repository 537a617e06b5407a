package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/llm"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/repositories"
	"gorm.io/gorm"
)

// HistoryLimit adalah jumlah pesan sebelumnya yang dimasukkan ke prompt
const HistoryLimit = 10

// ContextBuilder menyusun prompt AI dari knowledge base, riwayat chat, dan setting business
type ContextBuilder struct {
	businessRepo repositories.BusinessRepo
	kbRepo       repositories.KBRepo
	messageRepo  repositories.MessageRepo
}

func NewContextBuilder(businessRepo repositories.BusinessRepo, kbRepo repositories.KBRepo, messageRepo repositories.MessageRepo) *ContextBuilder {
	return &ContextBuilder{
		businessRepo: businessRepo,
		kbRepo:       kbRepo,
		messageRepo:  messageRepo,
	}
}

// Build menyusun prompt untuk pesan current. Riwayat diambil dari pesan
// sebelumnya saja, pesan current ditambahkan sekali di akhir.
func (b *ContextBuilder) Build(ctx context.Context, current *models.Message) (*llm.Prompt, error) {
	entries, err := b.kbRepo.ListActive(ctx, current.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}

	settings, err := b.kbRepo.GetAISettings(ctx, current.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("failed to load AI settings: %w", err)
	}
	if settings == nil {
		settings = &models.AISettings{}
	}

	var businessName string
	business, err := b.businessRepo.GetByID(ctx, current.BusinessID)
	switch {
	case err == nil:
		businessName = business.Name
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to load business: %w", err)
	}

	history, err := b.messageRepo.Recent(ctx, current.BusinessID, current.CustomerID, current.ID, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	kb := &llm.KnowledgeBase{
		BusinessName: businessName,
		Personality:  settings.Personality,
		Language:     settings.Language,
	}
	for _, e := range entries {
		kb.FAQs = append(kb.FAQs, llm.FAQ{Question: e.Question, Answer: e.Answer})
	}

	// history newest-first, prompt butuh urutan kronologis
	messages := make([]llm.Message, 0, len(history)+1)
	for i := len(history) - 1; i >= 0; i-- {
		// pesan media tanpa caption tidak punya isi untuk AI
		if strings.TrimSpace(history[i].Content) == "" {
			continue
		}
		messages = append(messages, llm.Message{
			Role:    roleFor(history[i].Direction),
			Content: history[i].Content,
		})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: current.Content})

	return &llm.Prompt{
		System:      llm.BuildSystemPrompt(kb),
		Messages:    messages,
		Temperature: settings.Temperature,
		Language:    settings.Language,
	}, nil
}

func roleFor(direction string) string {
	if direction == models.DirectionIncoming {
		return llm.RoleUser
	}
	return llm.RoleAssistant
}
