package util

import (
	"github.com/shopspring/decimal"
)

const (
	// AVLDecimals is the number of minimal currency units per AVL.
	AVLDecimals = 18
	// PriceDecimals is the number of decimal places kept on display amounts.
	PriceDecimals = 4
)

// RoundPrice interprets raw as an integer count of minimal currency units and
// returns its display value in AVL, rounded to PriceDecimals places. The second
// return is false when raw is empty or not a valid decimal integer.
func RoundPrice(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, false
	}
	rounded, _ := d.Shift(-AVLDecimals).Round(PriceDecimals).Float64()
	return rounded, true
}
