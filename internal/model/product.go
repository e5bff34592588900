package model

import "github.com/google/uuid"

// Product is a catalog item sold at the register. StockQuantity must never go
// negative; the checkout engine enforces that under row locks.
type Product struct {
	BaseModel
	Name          string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description   string     `gorm:"type:text" json:"description"`
	SKU           string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Barcode       *string    `gorm:"type:varchar(100);uniqueIndex" json:"barcode,omitempty"`
	CategoryID    *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category      *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price         float64    `gorm:"type:decimal(10,2);not null;default:0" json:"price" validate:"gte=0"`
	Cost          float64    `gorm:"type:decimal(10,2);not null;default:0" json:"cost" validate:"gte=0"`
	StockQuantity int        `gorm:"not null;default:0" json:"stock_quantity" validate:"gte=0"`
	MinStockLevel int        `gorm:"not null;default:0" json:"min_stock_level" validate:"gte=0"`
	ImageURL      string     `gorm:"type:varchar(500)" json:"image_url"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`

	TransactionItems []TransactionItem `json:"transaction_items,omitempty"`
	StockMovements   []StockMovement   `json:"stock_movements,omitempty"`
}

// IsLowStock reports whether the product sits at or below its reorder level.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

// ProfitMargin returns the margin over cost as a percentage.
func (p *Product) ProfitMargin() float64 {
	if p.Cost == 0 {
		return 0
	}
	return (p.Price - p.Cost) / p.Cost * 100
}
