// Package money rounds and formats currency amounts.
//
// All amounts are shown with exactly two decimals, a fixed prefix symbol and no
// grouping separators. Rounding is half away from zero on the decimal value.
package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultSymbol is the currency prefix used by Format
const DefaultSymbol = "$"

// Round2 rounds x to two decimal places, halves away from zero
func Round2(x float64) float64 {
	if !isFinite(x) {
		return x
	}
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// Format formats amount with the default symbol, e.g. 1234.5 -> "$1234.50"
func Format(amount float64) string {
	return NewFormatter(DefaultSymbol).Format(amount)
}

// FormatPercent formats a rate without trailing zeros, e.g. 7.50 -> "7.5%"
func FormatPercent(rate float64) string {
	if !isFinite(rate) {
		return fmt.Sprintf("%v%%", rate)
	}
	return decimal.NewFromFloat(rate).Round(2).String() + "%"
}

// Formatter formats amounts with a fixed currency symbol
type Formatter struct {
	Symbol string
}

// NewFormatter creates a formatter; an empty symbol falls back to DefaultSymbol
func NewFormatter(symbol string) Formatter {
	if strings.TrimSpace(symbol) == "" {
		symbol = DefaultSymbol
	}
	return Formatter{Symbol: symbol}
}

// Format renders amount as symbol + fixed-point value with two decimals
func (f Formatter) Format(amount float64) string {
	if !isFinite(amount) {
		// rejected upstream; keep formatting total
		return fmt.Sprintf("%s%.2f", f.Symbol, amount)
	}

	d := decimal.NewFromFloat(amount)
	if d.IsNegative() {
		return "-" + f.Symbol + d.Neg().StringFixed(2)
	}
	return f.Symbol + d.StringFixed(2)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// FormatQuantity prints a quantity with at most two decimals and no trailing zeros
func FormatQuantity(q float64) string {
	if !isFinite(q) {
		return fmt.Sprintf("%v", q)
	}
	return decimal.NewFromFloat(q).Round(2).String()
}
