package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Handlers mengumpulkan semua handler yang di-mount oleh API
type Handlers struct {
	Health       *HealthHandler
	Business     *BusinessHandler
	WhatsApp     *WhatsAppHandler
	Catalog      *CatalogHandler
	Conversation *ConversationHandler
	Payment      *PaymentHandler
	Order        *OrderHandler
	Webhook      *WebhookHandler
}

// Register mendaftarkan semua route ke router
func (h *Handlers) Register(r fiber.Router) {
	// Health check
	r.Get("/health", h.Health.GetHealth)

	// Business routes
	r.Post("/businesses", h.Business.CreateBusiness)
	r.Get("/businesses/:id", h.Business.GetBusiness)
	r.Post("/businesses/:businessId/products", h.Catalog.CreateProduct)
	r.Get("/businesses/:businessId/knowledge-base", h.Catalog.ListKnowledge)
	r.Post("/businesses/:businessId/knowledge-base", h.Catalog.AddKnowledge)
	r.Get("/businesses/:businessId/ai-settings", h.Catalog.GetAISettings)
	r.Put("/businesses/:businessId/ai-settings", h.Catalog.UpdateAISettings)

	// WhatsApp routes
	r.Post("/whatsapp/connect", h.WhatsApp.Connect)
	r.Get("/whatsapp/status/:businessId", h.WhatsApp.GetStatus)
	r.Get("/whatsapp/qr/:businessId", h.WhatsApp.GetQRCode)
	r.Get("/whatsapp/qr/:businessId/stream", h.WhatsApp.StreamQRCode)
	r.Post("/whatsapp/disconnect", h.WhatsApp.Disconnect)
	r.Post("/whatsapp/send", h.WhatsApp.SendMessage)

	// Message history routes
	r.Get("/conversation/:customerId", h.Conversation.GetConversation)
	r.Get("/conversations/:businessId", h.Conversation.ListConversations)

	// Payment routes
	r.Post("/payments/connect", h.Payment.ConnectAccount)
	r.Post("/payments/create-link", h.Payment.CreateLink)
	r.Post("/payments/send-link", h.Payment.SendLink)
	r.Post("/payments/settings", h.Payment.UpdateSettings)

	// Order routes
	r.Get("/orders/:id", h.Order.GetOrder)
	r.Post("/orders/:id/cancel", h.Order.CancelOrder)

	// Payment webhook routes
	r.Post("/webhooks/stripe", h.Webhook.StripeWebhook)
}
