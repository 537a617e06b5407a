package handlers

import (
	"errors"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/payment"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// statusFor memetakan sentinel error service ke HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrBusinessNotFound),
		errors.Is(err, services.ErrCustomerNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrOrderNotPending),
		errors.Is(err, services.ErrAccountNotReady),
		errors.Is(err, whatsapp.ErrChannelNotConnected):
		return fiber.StatusConflict
	case errors.Is(err, payment.ErrPaymentNotConfigured):
		return fiber.StatusPreconditionFailed
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("❌ Request failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func parseUUID(raw string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	return id, err == nil
}
