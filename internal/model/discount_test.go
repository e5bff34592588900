package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestCalculateDiscountPercentage(t *testing.T) {
	d := &Discount{Type: DiscountPercentage, Value: 10}

	amount, err := d.CalculateDiscount(200)
	require.NoError(t, err)
	assert.Equal(t, 20.0, amount)
}

func TestCalculateDiscountFixedAmount(t *testing.T) {
	d := &Discount{Type: DiscountFixedAmount, Value: 15}

	amount, err := d.CalculateDiscount(200)
	require.NoError(t, err)
	assert.Equal(t, 15.0, amount)
}

func TestCalculateDiscountClampedToMaximum(t *testing.T) {
	d := &Discount{
		Type:            DiscountPercentage,
		Value:           50,
		MaximumDiscount: floatPtr(30),
	}

	amount, err := d.CalculateDiscount(200)
	require.NoError(t, err)
	assert.Equal(t, 30.0, amount)
}

func TestCalculateDiscountBelowMinimumYieldsZero(t *testing.T) {
	d := &Discount{
		Type:          DiscountPercentage,
		Value:         10,
		MinimumAmount: floatPtr(100),
	}

	amount, err := d.CalculateDiscount(50)
	require.NoError(t, err)
	assert.Equal(t, 0.0, amount)

	// Exactly at the minimum qualifies.
	amount, err = d.CalculateDiscount(100)
	require.NoError(t, err)
	assert.Equal(t, 10.0, amount)
}

func TestCalculateDiscountRoundsHalfUp(t *testing.T) {
	d := &Discount{Type: DiscountPercentage, Value: 15}

	// 15% of 33.33 = 4.9995, rounds to 5.00
	amount, err := d.CalculateDiscount(33.33)
	require.NoError(t, err)
	assert.Equal(t, 5.0, amount)
}

func TestCalculateDiscountInvalidValues(t *testing.T) {
	negative := &Discount{Type: DiscountFixedAmount, Value: -5}
	_, err := negative.CalculateDiscount(100)
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	overflow := &Discount{Type: DiscountPercentage, Value: 150}
	_, err = overflow.CalculateDiscount(100)
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestAppliesToNilMinimum(t *testing.T) {
	d := &Discount{Type: DiscountPercentage, Value: 10}
	assert.True(t, d.AppliesTo(0))
	assert.True(t, d.AppliesTo(0.01))
}

func TestActiveAtWindow(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	d := &Discount{
		Type:       DiscountPercentage,
		Value:      10,
		ValidFrom:  from,
		ValidUntil: until,
		IsActive:   true,
	}

	assert.False(t, d.ActiveAt(from.Add(-time.Second)))
	assert.True(t, d.ActiveAt(from))
	assert.True(t, d.ActiveAt(time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)))
	// valid_until is a date; the discount stays usable through that whole day.
	assert.True(t, d.ActiveAt(time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, d.ActiveAt(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
}

func TestActiveAtInactiveOrExhausted(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	at := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	d := &Discount{ValidFrom: from, ValidUntil: until, IsActive: false}
	assert.False(t, d.ActiveAt(at))

	d = &Discount{
		ValidFrom:  from,
		ValidUntil: until,
		IsActive:   true,
		UsageLimit: intPtr(5),
		UsedCount:  5,
	}
	assert.False(t, d.ActiveAt(at))

	d.UsedCount = 4
	assert.True(t, d.ActiveAt(at))
}
