package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/llm"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/repositories"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Responder menghasilkan jawaban AI untuk prompt. *llm.Service memenuhi interface ini.
type Responder interface {
	Generate(ctx context.Context, prompt *llm.Prompt) llm.Result
}

// InboundEvent adalah pesan masuk dari channel
type InboundEvent struct {
	SenderAddress string
	PushName      string
	Text          string
	ExternalID    string
	IsSelf        bool
}

// IngestionService menjalankan pipeline pesan masuk: customer, simpan pesan, AI, lalu resolver
type IngestionService struct {
	customerRepo repositories.CustomerRepo
	kbRepo       repositories.KBRepo
	messages     *MessageService
	builder      *ContextBuilder
	ai           Responder
	orders       *OrderService
}

func NewIngestionService(
	customerRepo repositories.CustomerRepo,
	kbRepo repositories.KBRepo,
	messages *MessageService,
	builder *ContextBuilder,
	ai Responder,
	orders *OrderService,
) *IngestionService {
	return &IngestionService{
		customerRepo: customerRepo,
		kbRepo:       kbRepo,
		messages:     messages,
		builder:      builder,
		ai:           ai,
		orders:       orders,
	}
}

// Ingest memproses satu pesan masuk. Setiap pesan yang diterima disimpan tepat satu kali,
// apapun hasil AI-nya. Pesan tanpa text (media tanpa caption) disimpan tapi tidak dijawab.
func (s *IngestionService) Ingest(ctx context.Context, businessID uuid.UUID, ev InboundEvent) error {
	if ev.IsSelf {
		return nil
	}
	sender := strings.TrimSpace(ev.SenderAddress)
	if sender == "" {
		return ErrMissingSender
	}

	name := strings.TrimSpace(ev.PushName)
	if name == "" {
		name = sender
	}

	customer, err := s.customerRepo.FindOrCreate(ctx, businessID, sender, name)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCustomerResolutionFailed, err)
	}

	msg, err := s.messages.RecordIncoming(ctx, customer, ev.Text, ev.ExternalID)
	if err != nil {
		return err
	}

	logger := log.With().Str("business_id", businessID.String()).Str("customer", sender).Logger()
	logger.Info().Int64("message_id", msg.ID).Msg("📩 Message received")

	if strings.TrimSpace(ev.Text) == "" {
		logger.Debug().Str("external_id", ev.ExternalID).Msg("Message without text, no reply")
		return nil
	}

	settings, err := s.kbRepo.GetAISettings(ctx, businessID)
	if err != nil {
		// Bahasa tidak diketahui, pesan maaf dikirim bilingual
		logger.Error().Err(err).Msg("❌ Failed to load AI settings, sending fallback")
		return s.orders.Resolve(ctx, customer, llm.FallbackResult(""))
	}
	if settings == nil || !settings.Enabled {
		logger.Debug().Msg("AI disabled, no reply")
		return nil
	}

	var result llm.Result
	prompt, err := s.builder.Build(ctx, msg)
	if err != nil {
		logger.Error().Err(err).Msg("❌ Failed to build context, sending fallback")
		result = llm.FallbackResult(settings.Language)
	} else {
		result = s.ai.Generate(ctx, prompt)
	}
	logger.Info().Str("kind", result.Kind.String()).Str("intent", string(result.Intent)).Msg("🤖 AI reply ready")

	return s.orders.Resolve(ctx, customer, result)
}
