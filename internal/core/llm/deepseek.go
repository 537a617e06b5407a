package llm

// DeepSeek uses OpenAI-compatible API with custom base URL
func NewDeepSeekProvider(apiKey string, cfg *ProviderConfig) *OpenAICompatibleProvider {
	return newCompatibleProvider("DeepSeek", apiKey, "https://api.deepseek.com", "deepseek-chat", cfg, nil)
}
