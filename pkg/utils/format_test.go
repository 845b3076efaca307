package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", FormatSymbol(" aapl "))
	assert.Equal(t, "MSFT", FormatSymbol("MSFT"))
}

func TestValidateSymbolFormat(t *testing.T) {
	tests := []struct {
		symbol string
		want   bool
	}{
		{"AAPL", true},
		{" aapl ", true},
		{"BRK", true},
		{"GOOGL", true},
		{"", false},
		{"TOOLONG", false},
		{"BRK.B", false},
		{"AA-PL", false},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateSymbolFormat(tt.symbol))
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	ptr := func(v float64) *float64 { return &v }

	tests := []struct {
		name  string
		value *float64
		want  string
	}{
		{"nil", nil, "N/A"},
		{"trillions", ptr(2.5e12), "$2.50T"},
		{"billions", ptr(2.5e9), "$2.50B"},
		{"millions", ptr(3e6), "$3.00M"},
		{"thousands", ptr(1234), "$1.23K"},
		{"plain", ptr(12.5), "$12.50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.value))
		})
	}
}

func TestPercentageChange(t *testing.T) {
	assert.Equal(t, 0.0, PercentageChange(0, 50))
	assert.Equal(t, 10.0, PercentageChange(100, 110))
	assert.Equal(t, -25.0, PercentageChange(100, 75))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 3.14, RoundTo(3.14159, 2))
	assert.Equal(t, -3.14, RoundTo(-3.14159, 2), "negative values round to the nearest, not toward zero")
	assert.Equal(t, 0.0, RoundTo(math.NaN(), 2))
	assert.Equal(t, 0.0, RoundTo(math.Inf(1), 2))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "hello...", TruncateText("hello world", 8))
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "abc", SanitizeInput("  abc  ", 10))
	assert.Equal(t, "abc", SanitizeInput("abcdef", 3))
}

func TestValidateStockList(t *testing.T) {
	assert.NoError(t, ValidateStockList([]string{"AAPL", "MSFT"}))
	assert.Error(t, ValidateStockList(nil))
	assert.Error(t, ValidateStockList([]string{"A", "B", "C", "D", "E", "F"}))
	assert.Error(t, ValidateStockList([]string{"AAPL", "not-a-symbol"}))
}

func TestValidateNumericRange(t *testing.T) {
	assert.True(t, ValidateNumericRange(5, 0, 10))
	assert.False(t, ValidateNumericRange(-1, 0, 10))
	assert.False(t, ValidateNumericRange(math.NaN(), 0, 10))
	assert.False(t, ValidateNumericRange(math.Inf(1), 0, 10))
}
