// Package oracle turns backend-computed values into the strings the POS
// renders and compares them with what the UI shows.
package oracle

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// FormatCurrency renders an amount the way the POS displays it: "$12.35",
// and "$-3.00" for negatives (the sign follows the currency symbol).
// The exact binary value is rounded to cents with ties away from zero, so
// 1.005 (stored as 1.00499...) renders as "$1.00".
func FormatCurrency(value float64) string {
	whole, frac := new(big.Int).QuoRem(roundCents(math.Abs(value)), big.NewInt(100), new(big.Int))
	s := fmt.Sprintf("%d.%02d", whole, frac.Int64())
	if value < 0 {
		return "$-" + s
	}
	return "$" + s
}

// roundCents returns floor(abs*100 + 1/2) computed without float error
func roundCents(abs float64) *big.Int {
	r := new(big.Rat)
	if math.IsInf(abs, 0) || math.IsNaN(abs) || r.SetFloat64(abs) == nil {
		return new(big.Int)
	}
	r.Mul(r, big.NewRat(100, 1))
	r.Add(r, big.NewRat(1, 2))
	return new(big.Int).Quo(r.Num(), r.Denom())
}

// NormalizeBalance strips the minus sign and surrounding space from a
// remaining-balance label so it can be compared with FormatCurrency output
// of the absolute amount.
func NormalizeBalance(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "-", ""))
}
