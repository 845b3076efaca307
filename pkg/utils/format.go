package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatSymbol normalizes a ticker symbol to trimmed upper case.
func FormatSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// ValidateSymbolFormat reports whether a symbol is 1-5 alphanumeric
// characters after normalization.
func ValidateSymbolFormat(symbol string) bool {
	s := FormatSymbol(symbol)
	if len(s) < 1 || len(s) > 5 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// FormatCurrency renders a dollar amount with a magnitude suffix, e.g.
// 2500000000 -> "$2.50B". A nil value renders as "N/A".
func FormatCurrency(value *float64) string {
	if value == nil {
		return "N/A"
	}
	v := *value
	abs := math.Abs(v)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// PercentageChange returns the percent change from old to new. A zero old
// value yields 0.0 rather than a division error.
func PercentageChange(oldValue, newValue float64) float64 {
	if oldValue == 0 {
		return 0.0
	}
	return RoundTo((newValue-oldValue)/oldValue*100, 2)
}

// RoundTo rounds v to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}

// TruncateText cuts s to at most max runes, appending an ellipsis when
// anything was removed.
func TruncateText(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// SanitizeInput trims whitespace and enforces a maximum length.
func SanitizeInput(input string, maxLength int) string {
	s := strings.TrimSpace(input)
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	return s
}

// MaxStockListSize caps how many symbols a single analysis may cover.
const MaxStockListSize = 5

// ValidateStockList checks every symbol in a basket and rejects empty or
// oversized baskets.
func ValidateStockList(symbols []string) error {
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols provided")
	}
	if len(symbols) > MaxStockListSize {
		return fmt.Errorf("too many symbols: %d (max %d)", len(symbols), MaxStockListSize)
	}
	for _, s := range symbols {
		if !ValidateSymbolFormat(s) {
			return fmt.Errorf("invalid symbol %q", s)
		}
	}
	return nil
}

// ValidateNumericRange reports whether v is a usable number inside
// [min, max].
func ValidateNumericRange(v, min, max float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return v >= min && v <= max
}
