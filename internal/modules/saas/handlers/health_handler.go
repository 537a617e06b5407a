package handlers

import (
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/whatsapp"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	registry *whatsapp.Registry
	provider string
}

func NewHealthHandler(registry *whatsapp.Registry, llmProvider string) *HealthHandler {
	return &HealthHandler{registry: registry, provider: llmProvider}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":             "ok",
		"service":            "wa-commerce-agent",
		"llm_provider":       h.provider,
		"connected_sessions": len(h.registry.ConnectedBusinesses()),
	})
}
