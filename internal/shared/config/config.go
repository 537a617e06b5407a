package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string
	Env              string
	DatabaseURL      string
	WhatsAppStoreURL string
	FrontendURL      string

	// LLM
	LLMProvider   string
	LLMModel      string
	LLMBaseURL    string
	LLMMaxTokens  int
	LLMTimeout    time.Duration
	OpenAIKey     string
	OpenRouterKey string
	DeepSeekKey   string
	GroqKey       string

	// Payments (Stripe Connect)
	StripeSecretKey     string
	StripeWebhookSecret string
	PaymentCurrency     string
	PaymentTimeout      time.Duration
	CheckoutExpiry      time.Duration
	DefaultUnitPrice    decimal.Decimal

	// Scheduler
	KeepAliveSchedule     string
	PaymentExpirySchedule string
}

// LoadConfig reads .env (if any) and then the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("⚠️ .env file not found, using system environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		Port:             v.GetString("PORT"),
		Env:              v.GetString("ENV"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		WhatsAppStoreURL: v.GetString("WHATSAPP_STORE_URL"),
		FrontendURL:      strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),

		LLMProvider:   v.GetString("LLM_PROVIDER"),
		LLMModel:      v.GetString("LLM_MODEL"),
		LLMBaseURL:    v.GetString("LLM_BASE_URL"),
		LLMMaxTokens:  v.GetInt("LLM_MAX_TOKENS"),
		LLMTimeout:    v.GetDuration("LLM_TIMEOUT"),
		OpenAIKey:     v.GetString("OPENAI_API_KEY"),
		OpenRouterKey: v.GetString("OPENROUTER_API_KEY"),
		DeepSeekKey:   v.GetString("DEEPSEEK_API_KEY"),
		GroqKey:       v.GetString("GROQ_API_KEY"),

		StripeSecretKey:     v.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
		PaymentCurrency:     strings.ToLower(v.GetString("PAYMENT_CURRENCY")),
		PaymentTimeout:      v.GetDuration("PAYMENT_TIMEOUT"),
		CheckoutExpiry:      v.GetDuration("CHECKOUT_EXPIRY"),

		KeepAliveSchedule:     v.GetString("KEEPALIVE_SCHEDULE"),
		PaymentExpirySchedule: v.GetString("PAYMENT_EXPIRY_SCHEDULE"),
	}

	price, err := decimal.NewFromString(v.GetString("DEFAULT_UNIT_PRICE"))
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ invalid DEFAULT_UNIT_PRICE, using 100")
		price = decimal.NewFromInt(100)
	}
	cfg.DefaultUnitPrice = price

	if cfg.WhatsAppStoreURL == "" {
		// Default to main database if not specified
		cfg.WhatsAppStoreURL = cfg.DatabaseURL
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")

	v.SetDefault("LLM_PROVIDER", "openrouter")
	v.SetDefault("LLM_MAX_TOKENS", 1000)
	v.SetDefault("LLM_TIMEOUT", "30s")

	v.SetDefault("PAYMENT_CURRENCY", "usd")
	v.SetDefault("PAYMENT_TIMEOUT", "20s")
	v.SetDefault("CHECKOUT_EXPIRY", "1h")
	v.SetDefault("DEFAULT_UNIT_PRICE", "100")

	v.SetDefault("KEEPALIVE_SCHEDULE", "@every 60s")
	v.SetDefault("PAYMENT_EXPIRY_SCHEDULE", "@every 5m")
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
