package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/MuhamadAgungGumelar/wa-commerce-agent/cmd/api/docs"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/llm"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/payment"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/scheduler"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/handlers"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/repositories"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/services"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/shared/config"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/shared/database"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/shared/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/rs/zerolog/log"
)

const (
	ingestTimeout   = 2 * time.Minute
	shutdownTimeout = 30 * time.Second
)

// @title WhatsApp Commerce Agent API
// @version 1.0
// @description Multi-tenant WhatsApp AI sales agent with Stripe Connect checkout
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @contact.email support@whatsapp-saas.com
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger(cfg.Env)
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("🚀 Starting wa-commerce-agent")

	// Init database
	db := database.NewDB(cfg.DatabaseURL, !cfg.IsProduction())
	defer db.Close()

	// Init repositories (use GORM instance)
	businessRepo := repositories.NewBusinessRepo(db.GORM)
	connectionRepo := repositories.NewConnectionRepo(db.GORM)
	customerRepo := repositories.NewCustomerRepo(db.GORM)
	messageRepo := repositories.NewMessageRepo(db.GORM)
	kbRepo := repositories.NewKBRepo(db.GORM)
	productRepo := repositories.NewProductRepo(db.GORM)
	orderRepo := repositories.NewOrderRepo(db.GORM)
	paymentRepo := repositories.NewPaymentRepo(db.GORM)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init WhatsApp session registry
	dialer, err := whatsapp.NewWhatsmeowDialer(ctx, cfg.WhatsAppStoreURL)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to init WhatsApp device store")
	}
	pairingHub := whatsapp.NewPairingHub()
	registry := whatsapp.NewRegistry(dialer, connectionRepo, pairingHub)

	// Init LLM service (multi-provider support)
	provider, err := llm.NewProvider(&llm.ProviderConfig{
		Type:          llm.ProviderType(cfg.LLMProvider),
		OpenAIKey:     cfg.OpenAIKey,
		OpenRouterKey: cfg.OpenRouterKey,
		DeepSeekKey:   cfg.DeepSeekKey,
		GroqKey:       cfg.GroqKey,
		Model:         cfg.LLMModel,
		BaseURL:       cfg.LLMBaseURL,
		MaxTokens:     cfg.LLMMaxTokens,
		HTTPTimeout:   cfg.LLMTimeout,
		Referer:       cfg.FrontendURL,
		Title:         "WhatsApp Commerce Agent",
	})
	if err != nil {
		log.Warn().Err(err).Str("provider", cfg.LLMProvider).Msg("⚠️ LLM provider not available")
		provider = nil
	}
	llmService := llm.NewService(provider, cfg.LLMTimeout, cfg.LLMMaxTokens)

	// Init payment gateway, nil keeps payments disabled
	var gateway payment.Gateway
	if cfg.StripeSecretKey != "" {
		gateway = payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret, cfg.PaymentTimeout, nil)
		log.Info().Str("key", utils.MaskSecret(cfg.StripeSecretKey)).Msg("💳 Stripe gateway ready")
	} else {
		log.Warn().Msg("⚠️ STRIPE_SECRET_KEY not set, payment links disabled")
	}

	// Init services
	messageService := services.NewMessageService(registry, messageRepo)
	productService := services.NewProductService(productRepo, cfg.DefaultUnitPrice)
	knowledgeService := services.NewKnowledgeService(kbRepo)
	paymentService := services.NewPaymentService(gateway, paymentRepo, orderRepo, customerRepo, businessRepo, kbRepo, messageService,
		services.PaymentConfig{
			Currency:       cfg.PaymentCurrency,
			FrontendURL:    cfg.FrontendURL,
			GatewayTimeout: cfg.PaymentTimeout,
			CheckoutExpiry: cfg.CheckoutExpiry,
		})
	orderService := services.NewOrderService(orderRepo, productService, messageService, paymentService, cfg.PaymentCurrency)
	contextBuilder := services.NewContextBuilder(businessRepo, kbRepo, messageRepo)
	conversationService := services.NewConversationService(messageRepo, customerRepo, businessRepo)
	ingestionService := services.NewIngestionService(customerRepo, kbRepo, messageService, contextBuilder, llmService, orderService)

	dispatcher := services.NewDispatcher(ingestionService, ingestTimeout)
	registry.OnMessage(dispatcher.HandleChannelMessage)

	// Resume sessions that were connected before the last restart
	resumeSessions(ctx, registry, connectionRepo)

	// Background jobs
	jobs := scheduler.NewScheduler()
	if err := jobs.Add("whatsapp-keepalive", cfg.KeepAliveSchedule, 30*time.Second, registry.PingAll); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to schedule keep-alive")
	}
	if err := jobs.Add("payment-expiry", cfg.PaymentExpirySchedule, time.Minute, func(ctx context.Context) {
		if _, err := paymentService.ExpireStalePayments(ctx); err != nil {
			log.Error().Err(err).Msg("❌ Failed to expire stale payments")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to schedule payment expiry")
	}
	jobs.Start()

	// Init handlers
	routes := &handlers.Handlers{
		Health:       handlers.NewHealthHandler(registry, llmService.GetProviderName()),
		Business:     handlers.NewBusinessHandler(businessRepo),
		WhatsApp:     handlers.NewWhatsAppHandler(registry, pairingHub, businessRepo, connectionRepo),
		Catalog:      handlers.NewCatalogHandler(productService, knowledgeService),
		Conversation: handlers.NewConversationHandler(conversationService),
		Payment:      handlers.NewPaymentHandler(paymentService),
		Order:        handlers.NewOrderHandler(orderService),
		Webhook:      handlers.NewWebhookHandler(paymentService),
	}

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName: "WhatsApp Commerce Agent API",
	})

	// Middleware
	app.Use(cors.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	routes.Register(app)

	go func() {
		log.Info().Msgf("✅ API running at :%s", cfg.Port)
		log.Info().Msgf("📄 Swagger UI: http://localhost:%s/swagger/", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("❌ HTTP server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("❌ HTTP shutdown failed")
	}
	// Stop intake first so in-flight conversations can still reply
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("⚠️ Dispatcher did not drain in time")
	}
	jobs.Stop()
	registry.Shutdown()
	log.Info().Msg("👋 Bye")
}

func resumeSessions(ctx context.Context, registry *whatsapp.Registry, connectionRepo repositories.ConnectionRepo) {
	ids, err := connectionRepo.ListResumable(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to list stored WhatsApp sessions")
		return
	}

	for _, id := range ids {
		if _, err := registry.Connect(ctx, id); err != nil {
			log.Warn().Err(err).Str("business_id", id).Msg("⚠️ Failed to resume WhatsApp session")
			continue
		}
		log.Info().Str("business_id", id).Msg("🔄 WhatsApp session resumed")
	}
}
