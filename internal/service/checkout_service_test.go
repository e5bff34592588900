package service

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"go-beauty-pos/internal/model"
	"go-beauty-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory CheckoutStore. InTransaction serializes attempts
// under one mutex and restores a snapshot on error, giving the same
// atomicity and isolation the database provides.
type memStore struct {
	mu           sync.Mutex
	products     map[uuid.UUID]*model.Product
	discounts    map[uuid.UUID]*model.Discount
	transactions []*model.Transaction
	movements    []*model.StockMovement

	// failCreates makes the next N CreateTransaction calls fail.
	failCreates int
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[uuid.UUID]*model.Product),
		discounts: make(map[uuid.UUID]*model.Discount),
	}
}

func (s *memStore) addProduct(p model.Product) uuid.UUID {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.products[p.ID] = &p
	return p.ID
}

func (s *memStore) addDiscount(d model.Discount) uuid.UUID {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	s.discounts[d.ID] = &d
	return d.ID
}

func (s *memStore) InTransaction(fn func(tx repository.CheckoutTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapProducts := make(map[uuid.UUID]*model.Product, len(s.products))
	for id, p := range s.products {
		cp := *p
		snapProducts[id] = &cp
	}
	snapDiscounts := make(map[uuid.UUID]*model.Discount, len(s.discounts))
	for id, d := range s.discounts {
		cp := *d
		snapDiscounts[id] = &cp
	}
	snapTxCount := len(s.transactions)
	snapMvCount := len(s.movements)

	if err := fn(&memTx{store: s}); err != nil {
		s.products = snapProducts
		s.discounts = snapDiscounts
		s.transactions = s.transactions[:snapTxCount]
		s.movements = s.movements[:snapMvCount]
		return err
	}
	return nil
}

type memTx struct {
	store *memStore
}

func (t *memTx) LockProduct(id uuid.UUID) (*model.Product, error) {
	p, ok := t.store.products[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *p
	return &cp, nil
}

func (t *memTx) DecrementStock(id uuid.UUID, qty int) error {
	p, ok := t.store.products[id]
	if !ok {
		return errors.New("record not found")
	}
	p.StockQuantity -= qty
	return nil
}

func (t *memTx) LockDiscount(id uuid.UUID) (*model.Discount, error) {
	d, ok := t.store.discounts[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	cp := *d
	return &cp, nil
}

func (t *memTx) IncrementDiscountUsage(id uuid.UUID) error {
	d, ok := t.store.discounts[id]
	if !ok {
		return errors.New("record not found")
	}
	d.UsedCount++
	return nil
}

func (t *memTx) CountTransactionsBetween(from, to time.Time) (int64, error) {
	var count int64
	for _, tx := range t.store.transactions {
		if !tx.CreatedAt.Before(from) && tx.CreatedAt.Before(to) {
			count++
		}
	}
	return count, nil
}

func (t *memTx) CreateTransaction(tx *model.Transaction) error {
	if t.store.failCreates > 0 {
		t.store.failCreates--
		return errors.New("connection reset")
	}
	for _, existing := range t.store.transactions {
		if existing.TransactionNumber == tx.TransactionNumber {
			return fmt.Errorf("duplicate key value violates unique constraint: %s", tx.TransactionNumber)
		}
	}
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	t.store.transactions = append(t.store.transactions, tx)
	return nil
}

func (t *memTx) CreateStockMovement(m *model.StockMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	t.store.movements = append(t.store.movements, m)
	return nil
}

// memTxRepo serves transaction reads straight from the store.
type memTxRepo struct {
	store *memStore
}

func (r *memTxRepo) FindAll(filter repository.TransactionFilter) ([]model.Transaction, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]model.Transaction, 0, len(r.store.transactions))
	for _, tx := range r.store.transactions {
		out = append(out, *tx)
	}
	return out, int64(len(out)), nil
}

func (r *memTxRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, tx := range r.store.transactions {
		if tx.ID == id {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *memTxRepo) GetDailySales(date time.Time) (*repository.DailySales, error) {
	return &repository.DailySales{}, nil
}

func (r *memTxRepo) GetMonthlyReport(year int, month time.Month) ([]repository.DailySalesPoint, error) {
	return nil, nil
}

func newTestCheckout(store *memStore) CheckoutService {
	return NewCheckoutService(store, &memTxRepo{store: store}, nil)
}

func cashRequest(items ...CheckoutItemRequest) *CheckoutRequest {
	return &CheckoutRequest{
		PaymentMethod: model.PaymentCash,
		AmountPaid:    10000,
		Items:         items,
	}
}

func TestCheckoutCashSale(t *testing.T) {
	store := newMemStore()
	shampooID := store.addProduct(model.Product{Name: "Shampoo", SKU: "SH-01", Price: 50, StockQuantity: 10, IsActive: true})
	serumID := store.addProduct(model.Product{Name: "Serum", SKU: "SE-01", Price: 100, StockQuantity: 5, IsActive: true})
	svc := newTestCheckout(store)

	req := &CheckoutRequest{
		CustomerName:  "Alex",
		PaymentMethod: model.PaymentCash,
		AmountPaid:    250,
		Items: []CheckoutItemRequest{
			{ProductID: shampooID, Quantity: 2, UnitPrice: 50},
			{ProductID: serumID, Quantity: 1, UnitPrice: 100},
		},
	}

	tx, err := svc.Checkout(req, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 200.0, tx.Subtotal)
	assert.Equal(t, 0.0, tx.DiscountAmount)
	assert.InDelta(t, 16.0, tx.TaxAmount, 1e-9)
	assert.InDelta(t, 216.0, tx.TotalAmount, 1e-9)
	assert.Equal(t, 250.0, tx.AmountPaid)
	assert.InDelta(t, 34.0, tx.ChangeAmount, 1e-9)
	assert.Equal(t, model.TransactionCompleted, tx.Status)
	assert.Len(t, tx.Items, 2)

	// Derive the expected day from the commit timestamp so the assertion
	// holds even across midnight.
	expectedNumber := FormatTransactionNumber(tx.CreatedAt, 1)
	assert.Equal(t, expectedNumber, tx.TransactionNumber)

	assert.Equal(t, 8, store.products[shampooID].StockQuantity)
	assert.Equal(t, 4, store.products[serumID].StockQuantity)
	assert.Len(t, store.movements, 2)
	for _, m := range store.movements {
		assert.Equal(t, model.MovementSale, m.Type)
		assert.Equal(t, expectedNumber, m.ReferenceNumber)
	}
}

func TestCheckoutWithPercentageDiscount(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Serum", SKU: "SE-01", Price: 100, StockQuantity: 10, IsActive: true})
	discountID := store.addDiscount(model.Discount{
		Name:       "Summer Sale",
		Type:       model.DiscountPercentage,
		Value:      10,
		ValidFrom:  time.Now().AddDate(0, 0, -1),
		ValidUntil: time.Now().AddDate(0, 0, 1),
		IsActive:   true,
	})
	svc := newTestCheckout(store)

	req := cashRequest(CheckoutItemRequest{ProductID: productID, Quantity: 2, UnitPrice: 100})
	req.DiscountID = &discountID

	tx, err := svc.Checkout(req, uuid.New())
	require.NoError(t, err)

	assert.Equal(t, 200.0, tx.Subtotal)
	assert.Equal(t, 20.0, tx.DiscountAmount)
	assert.InDelta(t, 14.40, tx.TaxAmount, 1e-9)
	assert.InDelta(t, 194.40, tx.TotalAmount, 1e-9)
	assert.Equal(t, 1, store.discounts[discountID].UsedCount)
}

func TestCheckoutDiscountBelowMinimumRejected(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Polish", SKU: "PO-01", Price: 50, StockQuantity: 10, IsActive: true})
	discountID := store.addDiscount(model.Discount{
		Name:          "Big Spender",
		Type:          model.DiscountPercentage,
		Value:         10,
		MinimumAmount: floatPtr(100),
		ValidFrom:     time.Now().AddDate(0, 0, -1),
		ValidUntil:    time.Now().AddDate(0, 0, 1),
		IsActive:      true,
	})
	svc := newTestCheckout(store)

	req := cashRequest(CheckoutItemRequest{ProductID: productID, Quantity: 1, UnitPrice: 50})
	req.DiscountID = &discountID

	_, err := svc.Checkout(req, uuid.New())
	assert.ErrorIs(t, err, ErrDiscountNotApplicable)

	// Nothing committed.
	assert.Equal(t, 10, store.products[productID].StockQuantity)
	assert.Equal(t, 0, store.discounts[discountID].UsedCount)
	assert.Empty(t, store.transactions)
}

func TestCheckoutExpiredDiscountRejected(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Polish", SKU: "PO-01", Price: 50, StockQuantity: 10, IsActive: true})
	discountID := store.addDiscount(model.Discount{
		Name:       "Last Year",
		Type:       model.DiscountFixedAmount,
		Value:      5,
		ValidFrom:  time.Now().AddDate(-1, 0, 0),
		ValidUntil: time.Now().AddDate(0, -1, 0),
		IsActive:   true,
	})
	svc := newTestCheckout(store)

	req := cashRequest(CheckoutItemRequest{ProductID: productID, Quantity: 1, UnitPrice: 50})
	req.DiscountID = &discountID

	_, err := svc.Checkout(req, uuid.New())
	assert.ErrorIs(t, err, ErrDiscountNotApplicable)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := newTestCheckout(newMemStore())
	_, err := svc.Checkout(cashRequest(), uuid.New())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutInvalidLineItems(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Polish", SKU: "PO-01", Price: 50, StockQuantity: 10, IsActive: true})
	svc := newTestCheckout(store)

	_, err := svc.Checkout(cashRequest(
		CheckoutItemRequest{ProductID: productID, Quantity: 0, UnitPrice: 50},
	), uuid.New())
	assert.ErrorIs(t, err, ErrInvalidLineItem)

	_, err = svc.Checkout(cashRequest(
		CheckoutItemRequest{ProductID: uuid.New(), Quantity: 1, UnitPrice: 50},
	), uuid.New())
	assert.ErrorIs(t, err, ErrInvalidLineItem)
}

func TestCheckoutNonFiniteAmountsRejected(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Polish", SKU: "PO-01", Price: 50, StockQuantity: 10, IsActive: true})
	svc := newTestCheckout(store)

	_, err := svc.Checkout(cashRequest(
		CheckoutItemRequest{ProductID: productID, Quantity: 1, UnitPrice: math.NaN()},
	), uuid.New())
	assert.ErrorIs(t, err, ErrInvalidLineItem)

	req := cashRequest(CheckoutItemRequest{ProductID: productID, Quantity: 1, UnitPrice: 50})
	req.AmountPaid = math.Inf(1)
	_, err = svc.Checkout(req, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidLineItem)

	assert.Equal(t, 10, store.products[productID].StockQuantity)
	assert.Empty(t, store.transactions)
}

func TestCheckoutInactiveProduct(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Retired", SKU: "RE-01", Price: 50, StockQuantity: 10, IsActive: false})
	svc := newTestCheckout(store)

	_, err := svc.Checkout(cashRequest(
		CheckoutItemRequest{ProductID: productID, Quantity: 1, UnitPrice: 50},
	), uuid.New())
	assert.ErrorIs(t, err, ErrInvalidLineItem)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Serum", SKU: "SE-01", Price: 100, StockQuantity: 2, IsActive: true})
	svc := newTestCheckout(store)

	_, err := svc.Checkout(cashRequest(
		CheckoutItemRequest{ProductID: productID, Quantity: 3, UnitPrice: 100},
	), uuid.New())

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, productID, stockErr.ProductID)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)
	assert.Equal(t, 2, store.products[productID].StockQuantity)
}

func TestCheckoutDuplicateLinesAggregated(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Serum", SKU: "SE-01", Price: 100, StockQuantity: 3, IsActive: true})
	svc := newTestCheckout(store)

	// Each line passes on its own; together they exceed stock.
	_, err := svc.Checkout(cashRequest(
		CheckoutItemRequest{ProductID: productID, Quantity: 2, UnitPrice: 100},
		CheckoutItemRequest{ProductID: productID, Quantity: 2, UnitPrice: 100},
	), uuid.New())

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 3, store.products[productID].StockQuantity)
}

func TestCheckoutInsufficientCashPayment(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Serum", SKU: "SE-01", Price: 100, StockQuantity: 5, IsActive: true})
	svc := newTestCheckout(store)

	req := &CheckoutRequest{
		PaymentMethod: model.PaymentCash,
		AmountPaid:    100, // total is 108 with tax
		Items:         []CheckoutItemRequest{{ProductID: productID, Quantity: 1, UnitPrice: 100}},
	}

	_, err := svc.Checkout(req, uuid.New())
	assert.ErrorIs(t, err, ErrInsufficientPayment)
	assert.Equal(t, 5, store.products[productID].StockQuantity)
}

func TestCheckoutNonCashChargedExactly(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Serum", SKU: "SE-01", Price: 100, StockQuantity: 5, IsActive: true})
	svc := newTestCheckout(store)

	req := &CheckoutRequest{
		PaymentMethod: model.PaymentCard,
		AmountPaid:    0,
		Items:         []CheckoutItemRequest{{ProductID: productID, Quantity: 1, UnitPrice: 100}},
	}

	tx, err := svc.Checkout(req, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, tx.TotalAmount, tx.AmountPaid)
	assert.Equal(t, 0.0, tx.ChangeAmount)
}

func TestCheckoutSequentialNumbering(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Serum", SKU: "SE-01", Price: 100, StockQuantity: 10, IsActive: true})
	svc := newTestCheckout(store)

	first, err := svc.Checkout(cashRequest(
		CheckoutItemRequest{ProductID: productID, Quantity: 1, UnitPrice: 100},
	), uuid.New())
	require.NoError(t, err)

	second, err := svc.Checkout(cashRequest(
		CheckoutItemRequest{ProductID: productID, Quantity: 1, UnitPrice: 100},
	), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, FormatTransactionNumber(first.CreatedAt, 1), first.TransactionNumber)

	// The sequence resets if the second sale lands on a new day.
	expectedSeq := int64(2)
	if second.CreatedAt.Format("20060102") != first.CreatedAt.Format("20060102") {
		expectedSeq = 1
	}
	assert.Equal(t, FormatTransactionNumber(second.CreatedAt, expectedSeq), second.TransactionNumber)
}

func TestCheckoutRetriesTransientFailure(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Serum", SKU: "SE-01", Price: 100, StockQuantity: 5, IsActive: true})
	store.failCreates = 1
	svc := newTestCheckout(store)

	tx, err := svc.Checkout(cashRequest(
		CheckoutItemRequest{ProductID: productID, Quantity: 1, UnitPrice: 100},
	), uuid.New())
	require.NoError(t, err)
	assert.NotEmpty(t, tx.TransactionNumber)

	// Exactly one sale landed despite the retry.
	assert.Len(t, store.transactions, 1)
	assert.Equal(t, 4, store.products[productID].StockQuantity)
}

func TestCheckoutPersistentFailureRollsBack(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Serum", SKU: "SE-01", Price: 100, StockQuantity: 5, IsActive: true})
	store.failCreates = maxCommitAttempts
	svc := newTestCheckout(store)

	_, err := svc.Checkout(cashRequest(
		CheckoutItemRequest{ProductID: productID, Quantity: 1, UnitPrice: 100},
	), uuid.New())

	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Empty(t, store.transactions)
	assert.Empty(t, store.movements)
	assert.Equal(t, 5, store.products[productID].StockQuantity)
}

func TestCheckoutConcurrentLastUnit(t *testing.T) {
	store := newMemStore()
	productID := store.addProduct(model.Product{Name: "Limited", SKU: "LI-01", Price: 100, StockQuantity: 1, IsActive: true})
	svc := newTestCheckout(store)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Checkout(cashRequest(
				CheckoutItemRequest{ProductID: productID, Quantity: 1, UnitPrice: 100},
			), uuid.New())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, stockFailures int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		stockFailures++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, stockFailures)
	assert.Equal(t, 0, store.products[productID].StockQuantity)
	assert.Len(t, store.transactions, 1)
}

func TestFormatTransactionNumber(t *testing.T) {
	day := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "TXN-20260829-0001", FormatTransactionNumber(day, 1))
	assert.Equal(t, "TXN-20260829-0042", FormatTransactionNumber(day, 42))
}

func floatPtr(v float64) *float64 { return &v }
