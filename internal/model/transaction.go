package model

import "github.com/google/uuid"

type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentCard          PaymentMethod = "card"
	PaymentDigitalWallet PaymentMethod = "digital_wallet"
)

const TransactionCompleted = "completed"

// Transaction is one committed sale: an append-only ledger row. It is created
// exactly once by the checkout engine and never mutated afterwards.
type Transaction struct {
	BaseModel
	TransactionNumber string        `gorm:"type:varchar(30);uniqueIndex;not null" json:"transaction_number"`
	UserID            uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User              *User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CustomerName      string        `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerEmail     string        `gorm:"type:varchar(255)" json:"customer_email"`
	Subtotal          float64       `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	DiscountID        *uuid.UUID    `gorm:"type:uuid;index" json:"discount_id"`
	Discount          *Discount     `gorm:"foreignKey:DiscountID" json:"discount,omitempty"`
	DiscountAmount    float64       `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"`
	TaxAmount         float64       `gorm:"type:decimal(10,2);not null" json:"tax_amount"`
	TotalAmount       float64       `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	AmountPaid        float64       `gorm:"type:decimal(10,2);not null" json:"amount_paid"`
	ChangeAmount      float64       `gorm:"type:decimal(10,2);not null;default:0" json:"change_amount"`
	PaymentMethod     PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status            string        `gorm:"type:varchar(20);not null;default:'completed'" json:"status"`

	Items    []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
	Feedback []Feedback        `gorm:"foreignKey:TransactionID" json:"feedback,omitempty"`
}

// TransactionItem snapshots one cart line at the moment of sale. UnitPrice is
// the price locked when the item was added to the cart, independent of later
// catalog changes.
type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity      int       `gorm:"not null" json:"quantity" validate:"required,gte=1"`
	UnitPrice     float64   `gorm:"type:decimal(10,2);not null" json:"unit_price" validate:"gte=0"`
	TotalPrice    float64   `gorm:"type:decimal(10,2);not null" json:"total_price"`
}
