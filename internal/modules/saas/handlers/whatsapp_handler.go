package handlers

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/repositories"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// qrStreamTimeout membatasi lama satu koneksi SSE QR
const qrStreamTimeout = 3 * time.Minute

type WhatsAppHandler struct {
	registry       *whatsapp.Registry
	hub            *whatsapp.PairingHub
	businessRepo   repositories.BusinessRepo
	connectionRepo repositories.ConnectionRepo
}

func NewWhatsAppHandler(
	registry *whatsapp.Registry,
	hub *whatsapp.PairingHub,
	businessRepo repositories.BusinessRepo,
	connectionRepo repositories.ConnectionRepo,
) *WhatsAppHandler {
	return &WhatsAppHandler{
		registry:       registry,
		hub:            hub,
		businessRepo:   businessRepo,
		connectionRepo: connectionRepo,
	}
}

// Connect godoc
// @Summary Connect WhatsApp
// @Description Start (or reuse) the WhatsApp session of a business. A new device is paired by scanning the QR from /whatsapp/qr/{businessId}.
// @Tags WhatsApp
// @Accept json
// @Produce json
// @Param data body object{business_id=string} true "Business"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /whatsapp/connect [post]
func (h *WhatsAppHandler) Connect(c *fiber.Ctx) error {
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
	if _, err := h.businessRepo.GetByID(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}

	session, err := h.registry.Connect(c.UserContext(), id.String())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"business_id": id,
		"state":       session.State(),
		"qr_url":      "/whatsapp/qr/" + id.String(),
	})
}

// GetStatus godoc
// @Summary Get WhatsApp session status
// @Tags WhatsApp
// @Produce json
// @Param businessId path string true "Business ID"
// @Success 200 {object} map[string]interface{}
// @Router /whatsapp/status/{businessId} [get]
func (h *WhatsAppHandler) GetStatus(c *fiber.Ctx) error {
	id, ok := parseUUID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "invalid business id")
	}

	resp := fiber.Map{
		"business_id": id,
		"state":       h.registry.Status(id.String()),
	}
	if session, ok := h.registry.GetActiveSession(id.String()); ok {
		resp["phone"] = session.Phone()
		if last := session.LastConnected(); !last.IsZero() {
			resp["last_connected"] = last
		}
	} else if conn, err := h.connectionRepo.Get(c.UserContext(), id); err == nil {
		resp["phone"] = conn.PhoneNumber
		resp["last_connected"] = conn.LastConnected
		resp["last_status"] = conn.Status
	}
	return c.JSON(resp)
}

// GetQRCode godoc
// @Summary Get WhatsApp QR Code
// @Description Latest pairing QR for the business as PNG
// @Tags WhatsApp
// @Produce image/png
// @Param businessId path string true "Business ID"
// @Success 200 {file} image/png
// @Failure 404 {object} map[string]interface{}
// @Router /whatsapp/qr/{businessId} [get]
func (h *WhatsAppHandler) GetQRCode(c *fiber.Ctx) error {
	id, ok := parseUUID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "invalid business id")
	}

	pairing, ok := h.hub.Latest(id.String())
	if !ok || len(pairing.PNG) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no pending QR code, call /whatsapp/connect first",
			"state": h.registry.Status(id.String()),
		})
	}

	c.Set("Content-Type", "image/png")
	c.Set("Content-Disposition", "inline; filename=whatsapp-qr.png")
	c.Set("Cache-Control", "no-store")
	return c.Send(pairing.PNG)
}

// StreamQRCode godoc
// @Summary Stream pairing QR codes
// @Description Server-sent events; each event carries a new QR (code + base64 PNG) until the session leaves pairing
// @Tags WhatsApp
// @Produce text/event-stream
// @Param businessId path string true "Business ID"
// @Success 200 {string} string
// @Router /whatsapp/qr/{businessId}/stream [get]
func (h *WhatsAppHandler) StreamQRCode(c *fiber.Ctx) error {
	id, ok := parseUUID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "invalid business id")
	}
	businessID := id.String()

	updates, cancel := h.hub.Subscribe(businessID)
	latest, hasLatest := h.hub.Latest(businessID)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer cancel()

		if hasLatest {
			if err := writeQREvent(w, latest); err != nil {
				return
			}
		}

		timeout := time.NewTimer(qrStreamTimeout)
		defer timeout.Stop()
		tick := time.NewTicker(2 * time.Second)
		defer tick.Stop()

		for {
			select {
			case p, ok := <-updates:
				if !ok {
					return
				}
				if err := writeQREvent(w, p); err != nil {
					return
				}
			case <-tick.C:
				state := h.registry.Status(businessID)
				if state != whatsapp.StatePairing {
					fmt.Fprintf(w, "event: state\ndata: %s\n\n", state)
					_ = w.Flush()
					return
				}
			case <-timeout.C:
				return
			}
		}
	})
	return nil
}

func writeQREvent(w *bufio.Writer, p whatsapp.Pairing) error {
	data, err := json.Marshal(map[string]interface{}{
		"code":      p.Code,
		"image":     "data:image/png;base64," + base64.StdEncoding.EncodeToString(p.PNG),
		"issued_at": p.IssuedAt,
	})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: qr\ndata: %s\n\n", data); err != nil {
		return err
	}
	return w.Flush()
}

// Disconnect godoc
// @Summary Disconnect WhatsApp
// @Tags WhatsApp
// @Accept json
// @Produce json
// @Param data body object{business_id=string} true "Business"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /whatsapp/disconnect [post]
func (h *WhatsAppHandler) Disconnect(c *fiber.Ctx) error {
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

	if err := h.registry.Disconnect(c.UserContext(), id.String()); err != nil {
		return respondError(c, err)
	}

	log.Info().Str("business_id", id.String()).Msg("🔌 WhatsApp disconnected by operator")
	return c.JSON(fiber.Map{"business_id": id, "state": whatsapp.StateDisconnected})
}

// SendMessage godoc
// @Summary Send a WhatsApp message
// @Description Send a text through the connected session of a business
// @Tags WhatsApp
// @Accept json
// @Produce json
// @Param data body object{business_id=string,to=string,message=string} true "Message"
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /whatsapp/send [post]
func (h *WhatsAppHandler) SendMessage(c *fiber.Ctx) error {
	var req struct {
		BusinessID string `json:"business_id"`
		To         string `json:"to"`
		Message    string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	id, ok := parseUUID(req.BusinessID)
	if !ok {
		return badRequest(c, "valid business_id is required")
	}
	if strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Message) == "" {
		return badRequest(c, "to and message are required")
	}

	if err := h.registry.Send(c.UserContext(), id.String(), req.To, req.Message); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"status": "sent"})
}
