package handlers

import (
	"strings"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/services"
	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// ConnectAccount godoc
// @Summary Connect a merchant account
// @Description Creates (or reuses) the business's Stripe Connect account and returns the onboarding link. Payments stay disabled until enabled in /payments/settings.
// @Tags Payments
// @Accept json
// @Produce json
// @Param data body object{business_id=string} true "Business"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 412 {object} map[string]interface{}
// @Router /payments/connect [post]
func (h *PaymentHandler) ConnectAccount(c *fiber.Ctx) error {
	var req struct {
		BusinessID string `json:"business_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	id, ok := parseUUID(req.BusinessID)
	if !ok {
		return badRequest(c, "valid business_id is required")
	}

	url, err := h.paymentService.CreateMerchantAccount(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"onboarding_url": url})
}

// CreateLink godoc
// @Summary Create checkout link
// @Tags Payments
// @Accept json
// @Produce json
// @Param data body object{order_id=string} true "Order"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 412 {object} map[string]interface{}
// @Router /payments/create-link [post]
func (h *PaymentHandler) CreateLink(c *fiber.Ctx) error {
	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	orderID, ok := parseUUID(req.OrderID)
	if !ok {
		return badRequest(c, "valid order_id is required")
	}

	url, err := h.paymentService.CreatePaymentSession(c.UserContext(), orderID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"order_id": orderID, "checkout_url": url})
}

// SendLink godoc
// @Summary Send checkout link via WhatsApp
// @Tags Payments
// @Accept json
// @Produce json
// @Param data body object{order_id=string,business_id=string,phone=string} true "Order and recipient"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /payments/send-link [post]
func (h *PaymentHandler) SendLink(c *fiber.Ctx) error {
	var req struct {
		OrderID    string `json:"order_id"`
		BusinessID string `json:"business_id"`
		Phone      string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	orderID, ok := parseUUID(req.OrderID)
	if !ok {
		return badRequest(c, "valid order_id is required")
	}
	businessID, ok := parseUUID(req.BusinessID)
	if !ok {
		return badRequest(c, "valid business_id is required")
	}

	if err := h.paymentService.DeliverPaymentLink(c.UserContext(), orderID, strings.TrimSpace(req.Phone), businessID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "sent"})
}

// UpdateSettings godoc
// @Summary Enable or disable payments
// @Description Enabling requires a merchant account that can accept charges
// @Tags Payments
// @Accept json
// @Produce json
// @Param data body object{business_id=string,enabled=bool} true "Settings"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 412 {object} map[string]interface{}
// @Router /payments/settings [post]
func (h *PaymentHandler) UpdateSettings(c *fiber.Ctx) error {
	var req struct {
		BusinessID string `json:"business_id"`
		Enabled    bool   `json:"enabled"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	id, ok := parseUUID(req.BusinessID)
	if !ok {
		return badRequest(c, "valid business_id is required")
	}

	if err := h.paymentService.SetPaymentEnabled(c.UserContext(), id, req.Enabled); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"business_id": id, "enabled": req.Enabled})
}
