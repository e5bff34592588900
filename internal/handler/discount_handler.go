package handler

import (
	"go-beauty-pos/internal/model"
	"go-beauty-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DiscountHandler struct {
	discountService service.DiscountService
}

func NewDiscountHandler(discountService service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// GET /api/v1/discounts?search=&type=&active=
func (h *DiscountHandler) GetDiscounts(c *fiber.Ctx) error {
	var isActive *bool
	if raw := c.Query("active"); raw != "" {
		v := raw == "true" || raw == "1"
		isActive = &v
	}

	discounts, err := h.discountService.GetAllDiscounts(c.Query("search"), c.Query("type"), isActive)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch discounts"})
	}
	return c.JSON(discounts)
}

// GetActiveDiscounts lists discounts the POS screen may offer right now
// GET /api/v1/discounts/active
func (h *DiscountHandler) GetActiveDiscounts(c *fiber.Ctx) error {
	discounts, err := h.discountService.GetActiveDiscounts()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch active discounts"})
	}
	return c.JSON(discounts)
}

// GET /api/v1/discounts/:id
func (h *DiscountHandler) GetDiscount(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid discount ID"})
	}

	discount, err := h.discountService.GetDiscountByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Discount not found"})
	}
	return c.JSON(discount)
}

// POST /api/v1/discounts
func (h *DiscountHandler) CreateDiscount(c *fiber.Ctx) error {
	var discount model.Discount
	if err := c.BodyParser(&discount); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.discountService.CreateDiscount(&discount, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Discount created", "data": discount})
}

// PUT /api/v1/discounts/:id
func (h *DiscountHandler) UpdateDiscount(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid discount ID"})
	}

	var discount model.Discount
	if err := c.BodyParser(&discount); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.discountService.UpdateDiscount(id, &discount, getUserID(c))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Discount updated", "data": updated})
}

// DELETE /api/v1/discounts/:id
func (h *DiscountHandler) DeleteDiscount(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid discount ID"})
	}

	if err := h.discountService.DeleteDiscount(id); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Discount deleted"})
}
