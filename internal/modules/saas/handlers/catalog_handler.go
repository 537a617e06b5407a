package handlers

import (
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/models"
	"github.com/MuhamadAgungGumelar/wa-commerce-agent/internal/modules/saas/services"
	"github.com/gofiber/fiber/v2"
)

// CatalogHandler mengelola produk, knowledge base, dan setting AI per business
type CatalogHandler struct {
	productService   *services.ProductService
	knowledgeService *services.KnowledgeService
}

func NewCatalogHandler(productService *services.ProductService, knowledgeService *services.KnowledgeService) *CatalogHandler {
	return &CatalogHandler{
		productService:   productService,
		knowledgeService: knowledgeService,
	}
}

// CreateProduct godoc
// @Summary Create a new product
// @Description Add a product with its unit price to the business catalog
// @Tags Products
// @Accept json
// @Produce json
// @Param businessId path string true "Business ID"
// @Param product body services.CreateProductRequest true "Product data"
// @Success 201 {object} models.Product
// @Failure 400 {object} map[string]interface{}
// @Router /businesses/{businessId}/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	businessID, ok := parseUUID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "invalid business id")
	}

	var req services.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	product, err := h.productService.CreateProduct(c.UserContext(), businessID, &req)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// ListKnowledge godoc
// @Summary Get knowledge base
// @Tags KnowledgeBase
// @Produce json
// @Param businessId path string true "Business ID"
// @Success 200 {array} models.KnowledgeEntry
// @Router /businesses/{businessId}/knowledge-base [get]
func (h *CatalogHandler) ListKnowledge(c *fiber.Ctx) error {
	businessID, ok := parseUUID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "invalid business id")
	}

	entries, err := h.knowledgeService.ListEntries(c.UserContext(), businessID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

// AddKnowledge godoc
// @Summary Add knowledge base entry
// @Tags KnowledgeBase
// @Accept json
// @Produce json
// @Param businessId path string true "Business ID"
// @Param data body object{question=string,answer=string} true "Q/A pair"
// @Success 201 {object} models.KnowledgeEntry
// @Failure 400 {object} map[string]interface{}
// @Router /businesses/{businessId}/knowledge-base [post]
func (h *CatalogHandler) AddKnowledge(c *fiber.Ctx) error {
	businessID, ok := parseUUID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "invalid business id")
	}

	var req struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	entry, err := h.knowledgeService.AddEntry(c.UserContext(), businessID, req.Question, req.Answer)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// GetAISettings godoc
// @Summary Get AI settings
// @Tags AI
// @Produce json
// @Param businessId path string true "Business ID"
// @Success 200 {object} models.AISettings
// @Router /businesses/{businessId}/ai-settings [get]
func (h *CatalogHandler) GetAISettings(c *fiber.Ctx) error {
	businessID, ok := parseUUID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "invalid business id")
	}

	settings, err := h.knowledgeService.GetSettings(c.UserContext(), businessID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(settings)
}

// UpdateAISettings godoc
// @Summary Update AI settings
// @Description Turn auto-reply on or off and set personality, temperature and language (ar, en or empty for bilingual)
// @Tags AI
// @Accept json
// @Produce json
// @Param businessId path string true "Business ID"
// @Param data body models.AISettings true "Settings"
// @Success 200 {object} models.AISettings
// @Failure 400 {object} map[string]interface{}
// @Router /businesses/{businessId}/ai-settings [put]
func (h *CatalogHandler) UpdateAISettings(c *fiber.Ctx) error {
	businessID, ok := parseUUID(c.Params("businessId"))
	if !ok {
		return badRequest(c, "invalid business id")
	}

	var settings models.AISettings
	if err := c.BodyParser(&settings); err != nil {
		return badRequest(c, "invalid request body")
	}
	settings.BusinessID = businessID

	if err := h.knowledgeService.SaveSettings(c.UserContext(), &settings); err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(settings)
}
