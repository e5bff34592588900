package handler

import (
	"strconv"
	"time"

	"go-beauty-pos/internal/model"
	"go-beauty-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FeedbackHandler struct {
	feedbackService service.FeedbackService
}

func NewFeedbackHandler(feedbackService service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

// CreateFeedback records a customer rating after checkout
// POST /api/v1/feedback
func (h *FeedbackHandler) CreateFeedback(c *fiber.Ctx) error {
	var feedback model.Feedback
	if err := c.BodyParser(&feedback); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.feedbackService.CreateFeedback(&feedback); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Thank you for your feedback!", "data": feedback})
}

// GET /api/v1/feedback?limit=&offset=
func (h *FeedbackHandler) GetFeedback(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	feedback, total, err := h.feedbackService.GetAllFeedback(limit, offset)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch feedback"})
	}
	return c.JSON(fiber.Map{
		"feedback": feedback,
		"total":    total,
	})
}

// GET /api/v1/feedback/:id
func (h *FeedbackHandler) GetFeedbackByID(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid feedback ID"})
	}

	feedback, err := h.feedbackService.GetFeedbackByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Feedback not found"})
	}
	return c.JSON(feedback)
}

// GetAnalytics returns the rating distribution and average over a date range
// GET /api/v1/feedback/analytics?date_from=&date_to=
func (h *FeedbackHandler) GetAnalytics(c *fiber.Ctx) error {
	to := time.Now()
	from := to.AddDate(0, -1, 0)

	if raw := c.Query("date_from"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date_from, expected YYYY-MM-DD"})
		}
		from = t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date_to, expected YYYY-MM-DD"})
		}
		to = t.AddDate(0, 0, 1)
	}

	analytics, err := h.feedbackService.GetAnalytics(from, to)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch feedback analytics"})
	}
	return c.JSON(analytics)
}
