package model

import (
	"errors"
	"time"
)

type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
)

// ErrInvalidDiscount marks a discount whose stored value can never be applied
// (negative value, or a percentage above 100).
var ErrInvalidDiscount = errors.New("invalid discount value")

// Discount is a promotion a cashier may apply to a sale. At most one discount
// applies per transaction; eligibility and the amount are decided here, while
// the used_count increment belongs to the checkout engine at commit time.
type Discount struct {
	BaseModel
	Name            string       `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description     string       `gorm:"type:text" json:"description"`
	Type            DiscountType `gorm:"type:varchar(20);not null" json:"type" validate:"required,oneof=percentage fixed_amount"`
	Value           float64      `gorm:"type:decimal(10,2);not null" json:"value" validate:"gte=0"`
	MinimumAmount   *float64     `gorm:"type:decimal(10,2)" json:"minimum_amount"`
	MaximumDiscount *float64     `gorm:"type:decimal(10,2)" json:"maximum_discount"`
	ValidFrom       time.Time    `gorm:"type:date;not null" json:"valid_from" validate:"required"`
	ValidUntil      time.Time    `gorm:"type:date;not null" json:"valid_until" validate:"required"`
	UsageLimit      *int         `gorm:"" json:"usage_limit"`
	UsedCount       int          `gorm:"not null;default:0" json:"used_count"`
	IsActive        bool         `gorm:"default:true" json:"is_active"`

	Transactions []Transaction `json:"transactions,omitempty"`
}

// ActiveAt reports whether the discount can be offered at the given moment:
// flagged active, inside its validity window, and not exhausted.
func (d *Discount) ActiveAt(t time.Time) bool {
	if !d.IsActive {
		return false
	}
	// valid_until is a date; the discount stays valid through that whole day.
	if t.Before(d.ValidFrom) || !t.Before(d.ValidUntil.AddDate(0, 0, 1)) {
		return false
	}
	if d.UsageLimit != nil && d.UsedCount >= *d.UsageLimit {
		return false
	}
	return true
}

// AppliesTo reports whether the subtotal meets the discount's minimum spend.
// A nil minimum counts as zero.
func (d *Discount) AppliesTo(subtotal float64) bool {
	if d.MinimumAmount == nil {
		return true
	}
	return subtotal >= *d.MinimumAmount
}

// CalculateDiscount computes the discount amount for a subtotal, clamped to
// MaximumDiscount and rounded to currency precision. A subtotal below the
// minimum spend yields 0; callers must treat that as "not applicable" rather
// than silently applying nothing.
func (d *Discount) CalculateDiscount(subtotal float64) (float64, error) {
	if d.Value < 0 {
		return 0, ErrInvalidDiscount
	}
	if d.Type == DiscountPercentage && d.Value > 100 {
		return 0, ErrInvalidDiscount
	}

	if !d.AppliesTo(subtotal) {
		return 0, nil
	}

	var amount float64
	switch d.Type {
	case DiscountPercentage:
		amount = subtotal * d.Value / 100
	default:
		amount = d.Value
	}

	if d.MaximumDiscount != nil && amount > *d.MaximumDiscount {
		amount = *d.MaximumDiscount
	}

	return RoundCurrency(amount), nil
}
