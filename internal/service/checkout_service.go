package service

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go-beauty-pos/internal/model"
	"go-beauty-pos/internal/repository"
	"go-beauty-pos/internal/ws"
	"go-beauty-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TaxRate is the fixed sales tax applied to every transaction.
const TaxRate = 0.08

// maxCommitAttempts bounds retries on persistence failures, e.g. a
// transaction-number collision between two same-day checkouts.
const maxCommitAttempts = 3

type CheckoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1"`
	UnitPrice float64   `json:"unit_price" validate:"amount,gte=0"`
}

type CheckoutRequest struct {
	CustomerName  string                `json:"customer_name" validate:"max=255"`
	CustomerEmail string                `json:"customer_email" validate:"omitempty,email"`
	PaymentMethod model.PaymentMethod   `json:"payment_method" validate:"required,oneof=cash card digital_wallet"`
	AmountPaid    float64               `json:"amount_paid" validate:"amount,gte=0"`
	DiscountID    *uuid.UUID            `json:"discount_id"`
	Items         []CheckoutItemRequest `json:"items" validate:"dive"`
}

// CheckoutService is the transaction engine: it validates a cart, prices it,
// and commits the sale, stock decrement, and discount usage as one atomic
// unit. A failed checkout leaves no partial effects.
type CheckoutService interface {
	Checkout(req *CheckoutRequest, cashierID uuid.UUID) (*model.Transaction, error)
	GetAllTransactions(filter repository.TransactionFilter) ([]model.Transaction, int64, error)
	GetTransactionByID(id uuid.UUID) (*model.Transaction, error)
	GetDailySales(date time.Time) (*repository.DailySales, error)
	GetMonthlyReport(year int, month time.Month) ([]repository.DailySalesPoint, error)
}

type checkoutService struct {
	store  repository.CheckoutStore
	txRepo repository.TransactionRepository
	wsHub  *ws.Hub
}

func NewCheckoutService(store repository.CheckoutStore, txRepo repository.TransactionRepository, hub *ws.Hub) CheckoutService {
	return &checkoutService{
		store:  store,
		txRepo: txRepo,
		wsHub:  hub,
	}
}

// lowStockAlert is collected during commit and broadcast afterwards.
type lowStockAlert struct {
	ProductID   uuid.UUID
	ProductName string
	NewStock    int
	MinStock    int
}

func (s *checkoutService) Checkout(req *CheckoutRequest, cashierID uuid.UUID) (*model.Transaction, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, fmt.Errorf("%w: field '%s' failed on '%s'", ErrInvalidLineItem, first.FailedField, first.Tag)
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidLineItem)
		}
		if item.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: unit price cannot be negative", ErrInvalidLineItem)
		}
	}

	// Aggregate requested quantity per product so duplicate cart lines cannot
	// slip past a per-line stock check. Lock order is deterministic (sorted
	// by product ID) to avoid deadlocks between concurrent checkouts.
	requested := make(map[uuid.UUID]int)
	order := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if _, seen := requested[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity
	}
	sort.Slice(order, func(i, j int) bool { return order[i].String() < order[j].String() })

	var committed *model.Transaction
	var alerts []lowStockAlert

	var lastErr error
	for attempt := 1; attempt <= maxCommitAttempts; attempt++ {
		committed, alerts = nil, nil
		err := s.store.InTransaction(func(tx repository.CheckoutTx) error {
			return s.commitAttempt(tx, req, cashierID, requested, order, &committed, &alerts)
		})
		if err == nil {
			lastErr = nil
			break
		}
		if isCheckoutFault(err) {
			return nil, err
		}
		// Storage fault: everything rolled back, safe to retry.
		lastErr = &PersistenceError{Err: err}
		log.Warn().Err(err).Int("attempt", attempt).Msg("checkout commit failed, retrying")
	}
	if lastErr != nil {
		return nil, lastErr
	}

	s.broadcastSale(committed, alerts)

	// Reload with relations for the receipt; the commit itself already
	// succeeded, so fall back to the in-memory copy on a read failure.
	if full, err := s.txRepo.FindByID(committed.ID); err == nil {
		return full, nil
	}
	return committed, nil
}

// commitAttempt runs steps 2-6 of a checkout inside one atomic unit: stock
// check under row locks, pricing, payment validation, numbering, and the
// writes. Returning an error rolls back every effect.
func (s *checkoutService) commitAttempt(
	tx repository.CheckoutTx,
	req *CheckoutRequest,
	cashierID uuid.UUID,
	requested map[uuid.UUID]int,
	order []uuid.UUID,
	committed **model.Transaction,
	alerts *[]lowStockAlert,
) error {
	now := time.Now()

	// Lock and validate every product before touching anything.
	products := make(map[uuid.UUID]*model.Product, len(order))
	for _, pid := range order {
		product, err := tx.LockProduct(pid)
		if err != nil {
			return fmt.Errorf("%w: product %s not found", ErrInvalidLineItem, pid)
		}
		if !product.IsActive {
			return fmt.Errorf("%w: product %q is inactive", ErrInvalidLineItem, product.Name)
		}
		if product.StockQuantity < requested[pid] {
			return &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.StockQuantity,
				Requested:   requested[pid],
			}
		}
		products[pid] = product
	}

	// Pricing uses the unit prices locked when items were added to the cart,
	// not the live catalog price.
	var subtotal float64
	items := make([]model.TransactionItem, 0, len(req.Items))
	for _, item := range req.Items {
		lineTotal := model.RoundCurrency(float64(item.Quantity) * item.UnitPrice)
		subtotal += lineTotal
		items = append(items, model.TransactionItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: lineTotal,
		})
	}
	subtotal = model.RoundCurrency(subtotal)

	// At most one discount; an ineligible selection rejects the checkout
	// outright instead of silently charging full price.
	var discountID *uuid.UUID
	var discountAmount float64
	if req.DiscountID != nil {
		discount, err := tx.LockDiscount(*req.DiscountID)
		if err != nil {
			return fmt.Errorf("%w: discount %s not found", ErrDiscountNotApplicable, *req.DiscountID)
		}
		if !discount.ActiveAt(now) || !discount.AppliesTo(subtotal) {
			return fmt.Errorf("%w: %q", ErrDiscountNotApplicable, discount.Name)
		}
		amount, err := discount.CalculateDiscount(subtotal)
		if err != nil {
			return err
		}
		discountID = &discount.ID
		discountAmount = amount
	}

	taxable := subtotal - discountAmount
	taxAmount := model.RoundCurrency(taxable * TaxRate)
	totalAmount := model.RoundCurrency(taxable + taxAmount)

	amountPaid := req.AmountPaid
	var changeAmount float64
	if req.PaymentMethod == model.PaymentCash {
		if amountPaid < totalAmount {
			return fmt.Errorf("%w: paid %.2f, total %.2f", ErrInsufficientPayment, amountPaid, totalAmount)
		}
		changeAmount = model.RoundCurrency(amountPaid - totalAmount)
	} else {
		// Non-cash payments are charged exactly; no change scenario.
		amountPaid = totalAmount
		changeAmount = 0
	}

	// Per-day sequence, allocated inside the same atomic unit as the insert.
	// The unique index on transaction_number backstops a lost race; the
	// caller retries on that persistence failure.
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	count, err := tx.CountTransactionsBetween(dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	number := FormatTransactionNumber(now, count+1)

	transaction := &model.Transaction{
		TransactionNumber: number,
		UserID:            cashierID,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		Subtotal:          subtotal,
		DiscountID:        discountID,
		DiscountAmount:    discountAmount,
		TaxAmount:         taxAmount,
		TotalAmount:       totalAmount,
		AmountPaid:        amountPaid,
		ChangeAmount:      changeAmount,
		PaymentMethod:     req.PaymentMethod,
		Status:            model.TransactionCompleted,
		Items:             items,
	}
	transaction.CreatedBy = cashierID.String()
	transaction.UpdatedBy = cashierID.String()

	if err := tx.CreateTransaction(transaction); err != nil {
		return err
	}

	for _, pid := range order {
		product := products[pid]
		qty := requested[pid]
		if err := tx.DecrementStock(pid, qty); err != nil {
			return err
		}

		newStock := product.StockQuantity - qty
		movement := &model.StockMovement{
			ProductID:       pid,
			UserID:          cashierID,
			Type:            model.MovementSale,
			Quantity:        qty,
			PreviousStock:   product.StockQuantity,
			NewStock:        newStock,
			Reason:          "POS sale",
			ReferenceNumber: number,
		}
		movement.CreatedBy = cashierID.String()
		movement.UpdatedBy = cashierID.String()
		if err := tx.CreateStockMovement(movement); err != nil {
			return err
		}

		if newStock <= product.MinStockLevel {
			*alerts = append(*alerts, lowStockAlert{
				ProductID:   pid,
				ProductName: product.Name,
				NewStock:    newStock,
				MinStock:    product.MinStockLevel,
			})
		}
	}

	if discountID != nil {
		if err := tx.IncrementDiscountUsage(*discountID); err != nil {
			return err
		}
	}

	*committed = transaction
	return nil
}

func (s *checkoutService) broadcastSale(transaction *model.Transaction, alerts []lowStockAlert) {
	if s.wsHub == nil {
		return
	}
	go func() {
		s.wsHub.Publish("transaction_created", map[string]interface{}{
			"transaction": map[string]interface{}{
				"id":                 transaction.ID,
				"transaction_number": transaction.TransactionNumber,
				"total_amount":       transaction.TotalAmount,
				"payment_method":     transaction.PaymentMethod,
			},
		})
		for _, alert := range alerts {
			s.wsHub.Publish("low_stock_alert", map[string]interface{}{
				"product_id":      alert.ProductID,
				"product_name":    alert.ProductName,
				"stock_quantity":  alert.NewStock,
				"min_stock_level": alert.MinStock,
			})
		}
	}()
}

// FormatTransactionNumber renders the human-readable receipt number:
// TXN-{yyyymmdd}-{0-padded daily sequence}.
func FormatTransactionNumber(day time.Time, sequence int64) string {
	return fmt.Sprintf("TXN-%s-%04d", day.Format("20060102"), sequence)
}

// isCheckoutFault reports whether the error is a validation/business failure
// that must be surfaced as-is rather than retried.
func isCheckoutFault(err error) bool {
	var stockErr *InsufficientStockError
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInvalidLineItem) ||
		errors.Is(err, ErrDiscountNotApplicable) ||
		errors.Is(err, ErrInsufficientPayment) ||
		errors.Is(err, model.ErrInvalidDiscount) ||
		errors.As(err, &stockErr)
}

func (s *checkoutService) GetAllTransactions(filter repository.TransactionFilter) ([]model.Transaction, int64, error) {
	return s.txRepo.FindAll(filter)
}

func (s *checkoutService) GetTransactionByID(id uuid.UUID) (*model.Transaction, error) {
	return s.txRepo.FindByID(id)
}

func (s *checkoutService) GetDailySales(date time.Time) (*repository.DailySales, error) {
	return s.txRepo.GetDailySales(date)
}

func (s *checkoutService) GetMonthlyReport(year int, month time.Month) ([]repository.DailySalesPoint, error) {
	return s.txRepo.GetMonthlyReport(year, month)
}
