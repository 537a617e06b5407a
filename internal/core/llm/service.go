package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultTemperature = 0.7

// Service wraps LLM provider untuk dependency injection
type Service struct {
	provider  LLMProvider
	timeout   time.Duration
	maxTokens int
}

// NewService creates LLM service. provider nil berarti AI belum dikonfigurasi,
// semua panggilan akan menghasilkan fallback.
func NewService(provider LLMProvider, timeout time.Duration, maxTokens int) *Service {
	if provider != nil {
		log.Info().Str("provider", provider.GetProviderName()).Msg("🤖 LLM provider ready")
	} else {
		log.Warn().Msg("⚠️ No LLM provider configured, replies will use fallback message")
	}
	return &Service{provider: provider, timeout: timeout, maxTokens: maxTokens}
}

// Generate memanggil provider dan tidak pernah gagal: kegagalan berubah jadi Fallback
func (s *Service) Generate(ctx context.Context, prompt *Prompt) Result {
	raw, err := s.complete(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Msg("❌ AI inference failed, sending fallback")
		return FallbackResult(prompt.Language)
	}

	result := ParseReply(raw)
	switch result.Kind {
	case Unparsed:
		log.Warn().Msg("⚠️ AI reply is not valid JSON, using raw text")
	case Fallback:
		log.Warn().Msg("⚠️ AI reply is empty, sending fallback")
		return FallbackResult(prompt.Language)
	}
	return result
}

func (s *Service) complete(ctx context.Context, prompt *Prompt) (string, error) {
	if s.provider == nil {
		return "", ErrInferenceUnavailable
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	temperature := prompt.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	raw, err := s.provider.Complete(ctx, CompletionRequest{
		System:      prompt.System,
		Messages:    prompt.Messages,
		Temperature: temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		if errors.Is(err, ErrInferenceUnavailable) {
			return "", err
		}
		return "", errors.Join(ErrInferenceUnavailable, err)
	}
	return raw, nil
}

// GetProviderName returns current provider name
func (s *Service) GetProviderName() string {
	if s.provider == nil {
		return "none"
	}
	return s.provider.GetProviderName()
}
