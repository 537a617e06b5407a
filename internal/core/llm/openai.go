package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const defaultHTTPTimeout = 60 * time.Second

// OpenAICompatibleProvider bicara ke endpoint /chat/completions gaya OpenAI.
// OpenRouter, DeepSeek dan Groq cukup beda BaseURL dan default model.
type OpenAICompatibleProvider struct {
	name      string
	client    *openai.Client
	model     string
	maxTokens int
}

func newCompatibleProvider(name, apiKey, baseURL, defaultModel string, cfg *ProviderConfig, headers map[string]string) *OpenAICompatibleProvider {
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL
	config.HTTPClient = &http.Client{
		Timeout:   timeout,
		Transport: &headerTransport{headers: headers, base: http.DefaultTransport},
	}

	return &OpenAICompatibleProvider{
		name:      name,
		client:    openai.NewClientWithConfig(config),
		model:     model,
		maxTokens: maxTokens,
	}
}

func NewOpenAIProvider(apiKey string, cfg *ProviderConfig) *OpenAICompatibleProvider {
	return newCompatibleProvider("OpenAI", apiKey, "https://api.openai.com/v1", "gpt-4o-mini", cfg, nil)
}

func NewOpenRouterProvider(apiKey string, cfg *ProviderConfig) *OpenAICompatibleProvider {
	headers := map[string]string{}
	if cfg.Referer != "" {
		headers["HTTP-Referer"] = cfg.Referer
	}
	if cfg.Title != "" {
		headers["X-Title"] = cfg.Title
	}
	return newCompatibleProvider("OpenRouter", apiKey, "https://openrouter.ai/api/v1", "deepseek/deepseek-chat", cfg, headers)
}

func (p *OpenAICompatibleProvider) GetProviderName() string {
	return p.name
}

func (p *OpenAICompatibleProvider) Model() string {
	return p.model
}

func (p *OpenAICompatibleProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.maxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s error: %v", ErrInferenceUnavailable, p.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no response from %s", ErrInferenceUnavailable, p.name)
	}

	return resp.Choices[0].Message.Content, nil
}

// headerTransport menambahkan header statis ke setiap request
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.headers) == 0 {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		clone.Header.Set(k, v)
	}
	return t.base.RoundTrip(clone)
}
