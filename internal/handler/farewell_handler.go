package handler

import (
	"go-beauty-pos/internal/model"
	"go-beauty-pos/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type FarewellHandler struct {
	farewellRepo repository.FarewellMessageRepository
}

func NewFarewellHandler(farewellRepo repository.FarewellMessageRepository) *FarewellHandler {
	return &FarewellHandler{farewellRepo: farewellRepo}
}

// GET /api/v1/farewell-messages
func (h *FarewellHandler) GetMessages(c *fiber.Ctx) error {
	messages, err := h.farewellRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch farewell messages"})
	}
	return c.JSON(messages)
}

// GetRandomMessage picks one active message for the receipt footer
// GET /api/v1/farewell-messages/random
func (h *FarewellHandler) GetRandomMessage(c *fiber.Ctx) error {
	message, err := h.farewellRepo.FindRandomActive()
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "No active farewell messages"})
	}
	return c.JSON(message)
}

// POST /api/v1/farewell-messages
func (h *FarewellHandler) CreateMessage(c *fiber.Ctx) error {
	var message model.FarewellMessage
	if err := c.BodyParser(&message); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if message.Message == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Message is required"})
	}

	message.CreatedBy = getUserID(c)
	message.UpdatedBy = getUserID(c)
	if err := h.farewellRepo.Create(&message); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create farewell message"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Farewell message created", "data": message})
}

// PUT /api/v1/farewell-messages/:id
func (h *FarewellHandler) UpdateMessage(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid message ID"})
	}

	existing, err := h.farewellRepo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Farewell message not found"})
	}

	var req model.FarewellMessage
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.Message == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Message is required"})
	}

	existing.Message = req.Message
	existing.IsActive = req.IsActive
	existing.UpdatedBy = getUserID(c)
	if err := h.farewellRepo.Update(existing); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update farewell message"})
	}
	return c.JSON(fiber.Map{"message": "Farewell message updated", "data": existing})
}

// DELETE /api/v1/farewell-messages/:id
func (h *FarewellHandler) DeleteMessage(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid message ID"})
	}

	if err := h.farewellRepo.Delete(id); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete farewell message"})
	}
	return c.JSON(fiber.Map{"message": "Farewell message deleted"})
}
