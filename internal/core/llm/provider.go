package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInferenceUnavailable dipakai untuk semua kegagalan transport, timeout,
// atau konfigurasi provider yang belum lengkap
var ErrInferenceUnavailable = errors.New("inference unavailable")

// LLMProvider interface untuk multiple AI providers
type LLMProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	GetProviderName() string
}

// CompletionRequest adalah satu panggilan chat completion
type CompletionRequest struct {
	System      string
	Messages    []Message
	Temperature float32
	MaxTokens   int
}

// ProviderType untuk factory
type ProviderType string

const (
	ProviderOpenAI     ProviderType = "openai"
	ProviderOpenRouter ProviderType = "openrouter"
	ProviderDeepSeek   ProviderType = "deepseek"
	ProviderGroq       ProviderType = "groq"
)

// ProviderConfig untuk create provider
type ProviderConfig struct {
	Type ProviderType

	// API Keys
	OpenAIKey     string
	OpenRouterKey string
	DeepSeekKey   string
	GroqKey       string

	// Model configs
	Model       string
	BaseURL     string
	MaxTokens   int
	HTTPTimeout time.Duration

	// OpenRouter attribution headers
	Referer string
	Title   string
}

// NewProvider factory untuk create LLM provider
func NewProvider(cfg *ProviderConfig) (LLMProvider, error) {
	switch cfg.Type {
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is required", ErrInferenceUnavailable)
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg), nil

	case ProviderOpenRouter:
		if cfg.OpenRouterKey == "" {
			return nil, fmt.Errorf("%w: OPENROUTER_API_KEY is required", ErrInferenceUnavailable)
		}
		return NewOpenRouterProvider(cfg.OpenRouterKey, cfg), nil

	case ProviderDeepSeek:
		if cfg.DeepSeekKey == "" {
			return nil, fmt.Errorf("%w: DEEPSEEK_API_KEY is required", ErrInferenceUnavailable)
		}
		return NewDeepSeekProvider(cfg.DeepSeekKey, cfg), nil

	case ProviderGroq:
		if cfg.GroqKey == "" {
			return nil, fmt.Errorf("%w: GROQ_API_KEY is required", ErrInferenceUnavailable)
		}
		return NewGroqProvider(cfg.GroqKey, cfg), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
}
