package llm

// Groq uses OpenAI-compatible API
func NewGroqProvider(apiKey string, cfg *ProviderConfig) *OpenAICompatibleProvider {
	return newCompatibleProvider("Groq", apiKey, "https://api.groq.com/openai/v1", "llama-3.1-8b-instant", cfg, nil)
}
