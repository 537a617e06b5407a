package handlers

import (
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/services"
	"github.com/gofiber/fiber/v2"
)

type ConversationHandler struct {
	conversations *services.ConversationService
}

func NewConversationHandler(conversations *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// GetConversation godoc
// @Summary Get conversation history
// @Description Messages of one customer, newest first
// @Tags Messages
// @Produce json
// @Param customerId path string true "Customer ID"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Offset"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /conversation/{customerId} [get]
func (h *ConversationHandler) GetConversation(c *fiber.Ctx) error {
	customerID, ok := parseUUID(c.Params("customerId"))
	if !ok {
		return badRequest(c, "invalid customer id")
	}

	limit := c.QueryInt("limit", services.DefaultHistoryPage)
	offset := c.QueryInt("offset", 0)

	messages, err := h.conversations.History(c.UserContext(), customerID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"messages": messages})
}

// ListConversations godoc
// @Summary List conversations of a business
// @Description Latest message per customer, most recent conversation first
// @Tags Messages
// @Produce json
// @Param businessId path string true "Business ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /conversations/{businessId} [get]
func (h *ConversationHandler) ListConversations(c *fiber.Ctx) error {
	businessID, ok := parseUUID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "invalid business id")
	}

	conversations, err := h.conversations.List(c.UserContext(), businessID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"conversations": conversations})
}
