package model

import "math"

// RoundCurrency rounds a monetary amount to 2 decimal places, half up.
func RoundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}
