// Package core holds the pure domain logic: month arithmetic, the keypad
// expression evaluator, category aggregation and the budget rollup. All
// functions here are side-effect free and never mutate their inputs.
package core

import (
	"math"
	"strconv"
)

// SafeRound rounds n to 2 decimal places, half away from zero, and coerces
// NaN and infinities to 0. Every user-facing amount passes through here.
func SafeRound(n float64) float64 {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return math.Round(n*100) / 100
}

// FormatMoney renders a signed amount for display. SGD gets its "S$" symbol;
// any other currency is rendered as "<amount> <code>".
func FormatMoney(currency string, amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
	}
	abs := strconv.FormatFloat(math.Abs(amount), 'f', 2, 64)
	if currency == "SGD" {
		return sign + "S$" + abs
	}
	return sign + abs + " " + currency
}
