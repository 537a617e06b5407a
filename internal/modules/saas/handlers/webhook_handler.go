package handlers

import (
	"errors"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type WebhookHandler struct {
	paymentService *services.PaymentService
}

func NewWebhookHandler(paymentService *services.PaymentService) *WebhookHandler {
	return &WebhookHandler{paymentService: paymentService}
}

// StripeWebhook godoc
// @Summary Stripe webhook
// @Description Receives checkout events. Duplicates and unknown sessions are acknowledged with 200.
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /webhooks/stripe [post]
func (h *WebhookHandler) StripeWebhook(c *fiber.Ctx) error {
	// Body di-copy karena buffer fasthttp dipakai ulang setelah handler selesai
	payload := append([]byte(nil), c.Body()...)
	signature := c.Get("Stripe-Signature")

	err := h.paymentService.HandleGatewayWebhook(c.UserContext(), payload, signature)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"received": true})
	case errors.Is(err, services.ErrInvalidWebhook):
		log.Warn().Err(err).Msg("⚠️ Rejected Stripe webhook")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid webhook"})
	default:
		log.Error().Err(err).Msg("❌ Failed to process Stripe webhook")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook processing failed"})
	}
}
