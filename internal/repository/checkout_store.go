package repository

import (
	"time"

	"go-beauty-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutTx is the narrow set of operations the checkout engine may perform
// inside one atomic unit of work. Row locks taken here are held until the
// unit commits or rolls back.
type CheckoutTx interface {
	// LockProduct loads a product under a FOR UPDATE row lock.
	LockProduct(id uuid.UUID) (*model.Product, error)
	DecrementStock(id uuid.UUID, qty int) error
	// LockDiscount loads a discount under a FOR UPDATE row lock so the
	// usage-limit check and the used_count increment cannot race.
	LockDiscount(id uuid.UUID) (*model.Discount, error)
	IncrementDiscountUsage(id uuid.UUID) error
	// CountTransactionsBetween counts committed sales in [from, to) for
	// per-day sequence numbering.
	CountTransactionsBetween(from, to time.Time) (int64, error)
	CreateTransaction(t *model.Transaction) error
	CreateStockMovement(m *model.StockMovement) error
}

// CheckoutStore runs a checkout attempt as one atomic, isolated unit: either
// every effect lands or none do.
type CheckoutStore interface {
	InTransaction(fn func(tx CheckoutTx) error) error
}

type checkoutStore struct {
	db *gorm.DB
}

func NewCheckoutStore(db *gorm.DB) CheckoutStore {
	return &checkoutStore{db}
}

func (s *checkoutStore) InTransaction(fn func(tx CheckoutTx) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&checkoutTx{tx})
	})
}

type checkoutTx struct {
	tx *gorm.DB
}

func (c *checkoutTx) LockProduct(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := c.tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *checkoutTx) DecrementStock(id uuid.UUID, qty int) error {
	return c.tx.Model(&model.Product{}).
		Where("id = ?", id).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty)).Error
}

func (c *checkoutTx) LockDiscount(id uuid.UUID) (*model.Discount, error) {
	var discount model.Discount
	if err := c.tx.Set("gorm:query_option", "FOR UPDATE").First(&discount, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

func (c *checkoutTx) IncrementDiscountUsage(id uuid.UUID) error {
	return c.tx.Model(&model.Discount{}).
		Where("id = ?", id).
		Update("used_count", gorm.Expr("used_count + 1")).Error
}

func (c *checkoutTx) CountTransactionsBetween(from, to time.Time) (int64, error) {
	var count int64
	err := c.tx.Model(&model.Transaction{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&count).Error
	return count, err
}

func (c *checkoutTx) CreateTransaction(t *model.Transaction) error {
	return c.tx.Create(t).Error
}

func (c *checkoutTx) CreateStockMovement(m *model.StockMovement) error {
	return c.tx.Create(m).Error
}
