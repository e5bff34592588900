package handler

import (
	"strconv"
	"time"

	"go-beauty-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetStats returns the home screen overview block
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetDashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch dashboard stats"})
	}
	return c.JSON(stats)
}

// GetSalesChart returns per-day sales totals for one month
// GET /api/v1/dashboard/sales-chart?year=&month=
func (h *DashboardHandler) GetSalesChart(c *fiber.Ctx) error {
	now := time.Now()
	year, _ := strconv.Atoi(c.Query("year", strconv.Itoa(now.Year())))
	monthNum, _ := strconv.Atoi(c.Query("month", strconv.Itoa(int(now.Month()))))
	if monthNum < 1 || monthNum > 12 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid month"})
	}

	points, err := h.dashboardService.GetSalesChart(year, time.Month(monthNum))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch sales chart"})
	}
	return c.JSON(fiber.Map{"days": points})
}

// GetStockFlow returns stock in/out aggregates for the last N days
// GET /api/v1/dashboard/stock-flow?days=
func (h *DashboardHandler) GetStockFlow(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days", "7"))
	if days < 1 || days > 365 {
		return c.Status(400).JSON(fiber.Map{"error": "days must be between 1 and 365"})
	}

	flow, err := h.dashboardService.GetStockFlow(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch stock flow"})
	}
	return c.JSON(fiber.Map{"flow": flow})
}
