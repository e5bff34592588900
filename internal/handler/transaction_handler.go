package handler

import (
	"errors"
	"strconv"
	"time"

	"go-beauty-pos/internal/model"
	"go-beauty-pos/internal/repository"
	"go-beauty-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	checkout service.CheckoutService
	farewell repository.FarewellMessageRepository
}

func NewTransactionHandler(checkout service.CheckoutService, farewell repository.FarewellMessageRepository) *TransactionHandler {
	return &TransactionHandler{checkout: checkout, farewell: farewell}
}

// Checkout commits a sale
// POST /api/v1/transactions/checkout
func (h *TransactionHandler) Checkout(c *fiber.Ctx) error {
	var req service.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	cashierID, err := getUserUUID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": "Unauthorized"})
	}

	transaction, err := h.checkout.Checkout(&req, cashierID)
	if err != nil {
		return checkoutErrorResponse(c, err)
	}

	response := fiber.Map{
		"message": "Transaction completed",
		"data":    transaction,
	}
	if msg, err := h.farewell.FindRandomActive(); err == nil {
		response["farewell_message"] = msg.Message
	}
	return c.Status(201).JSON(response)
}

// checkoutErrorResponse maps the checkout error taxonomy onto HTTP statuses:
// stock conflicts are 409, business rule rejections 422, storage faults 500.
func checkoutErrorResponse(c *fiber.Ctx, err error) error {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(409).JSON(fiber.Map{
			"error":      stockErr.Error(),
			"product_id": stockErr.ProductID,
			"available":  stockErr.Available,
			"requested":  stockErr.Requested,
		})
	}

	var persistErr *service.PersistenceError
	if errors.As(err, &persistErr) {
		return c.Status(500).JSON(fiber.Map{"error": "Checkout could not be completed, please try again"})
	}

	switch {
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidLineItem),
		errors.Is(err, service.ErrDiscountNotApplicable),
		errors.Is(err, service.ErrInsufficientPayment),
		errors.Is(err, model.ErrInvalidDiscount):
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(500).JSON(fiber.Map{"error": "Checkout failed"})
}

// GetTransactions lists transactions with optional filters
// GET /api/v1/transactions?search=&date_from=&date_to=&limit=&offset=
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	filter := repository.TransactionFilter{
		Search: c.Query("search"),
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset", "0"))

	if raw := c.Query("date_from"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date_from, expected YYYY-MM-DD"})
		}
		filter.DateFrom = &t
	}
	if raw := c.Query("date_to"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date_to, expected YYYY-MM-DD"})
		}
		filter.DateTo = &t
	}

	transactions, total, err := h.checkout.GetAllTransactions(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch transactions"})
	}
	return c.JSON(fiber.Map{
		"transactions": transactions,
		"total":        total,
	})
}

// GetTransaction returns a single receipt with its items and cashier
// GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	transaction, err := h.checkout.GetTransactionByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Transaction not found"})
	}
	return c.JSON(transaction)
}

// GetDailySales aggregates one day of sales
// GET /api/v1/transactions/reports/daily?date=YYYY-MM-DD
func (h *TransactionHandler) GetDailySales(c *fiber.Ctx) error {
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
		}
		date = t
	}

	sales, err := h.checkout.GetDailySales(date)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch daily sales"})
	}
	return c.JSON(fiber.Map{
		"date":  date.Format("2006-01-02"),
		"sales": sales,
	})
}

// GetMonthlyReport returns per-day totals for one month
// GET /api/v1/transactions/reports/monthly?year=&month=
func (h *TransactionHandler) GetMonthlyReport(c *fiber.Ctx) error {
	now := time.Now()
	year, _ := strconv.Atoi(c.Query("year", strconv.Itoa(now.Year())))
	monthNum, _ := strconv.Atoi(c.Query("month", strconv.Itoa(int(now.Month()))))
	if monthNum < 1 || monthNum > 12 {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid month"})
	}

	points, err := h.checkout.GetMonthlyReport(year, time.Month(monthNum))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch monthly report"})
	}
	return c.JSON(fiber.Map{
		"year":  year,
		"month": monthNum,
		"days":  points,
	})
}
