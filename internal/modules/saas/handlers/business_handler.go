package handlers

import (
	"strings"

	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/repositories"
	"github.com/gofiber/fiber/v2"
)

type BusinessHandler struct {
	businessRepo repositories.BusinessRepo
}

func NewBusinessHandler(repo repositories.BusinessRepo) *BusinessHandler {
	return &BusinessHandler{businessRepo: repo}
}

// CreateBusiness godoc
// @Summary Register a business
// @Description Creates a tenant that can connect its own WhatsApp number
// @Tags Businesses
// @Accept json
// @Produce json
// @Param data body object{name=string,owner_email=string} true "Business data"
// @Success 201 {object} models.Business
// @Failure 400 {object} map[string]interface{}
// @Router /businesses [post]
func (h *BusinessHandler) CreateBusiness(c *fiber.Ctx) error {
	var req struct {
		Name       string `json:"name"`
		OwnerEmail string `json:"owner_email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return badRequest(c, "name is required")
	}

	business := &models.Business{Name: req.Name, OwnerEmail: strings.TrimSpace(req.OwnerEmail)}
	if err := h.businessRepo.Create(c.UserContext(), business); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(business)
}

// GetBusiness godoc
// @Summary Get business by ID
// @Tags Businesses
// @Produce json
// @Param id path string true "Business ID"
// @Success 200 {object} models.Business
// @Failure 404 {object} map[string]interface{}
// @Router /businesses/{id} [get]
func (h *BusinessHandler) GetBusiness(c *fiber.Ctx) error {
	id, ok := parseUUID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid business id")
	}

	business, err := h.businessRepo.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(business)
}
