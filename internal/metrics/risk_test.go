package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVolatility(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		assert.Equal(t, 0.0, Volatility(barsFromCloses(100), DefaultVolatilityLookback))
	})

	t.Run("constant returns have zero volatility", func(t *testing.T) {
		assert.Equal(t, 0.0, Volatility(barsFromCloses(100, 110, 121, 133.1), DefaultVolatilityLookback))
	})

	t.Run("alternating returns", func(t *testing.T) {
		got := Volatility(barsFromCloses(100, 110, 100), DefaultVolatilityLookback)
		assert.InDelta(t, 214.29, got, 0.01)
	})
}

func TestSharpeRatio(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		assert.Equal(t, 0.0, SharpeRatio(barsFromCloses(100), DefaultRiskFreeRate))
	})

	t.Run("zero variance", func(t *testing.T) {
		assert.Equal(t, 0.0, SharpeRatio(barsFromCloses(100, 110, 121), DefaultRiskFreeRate))
	})

	t.Run("positive excess returns", func(t *testing.T) {
		got := SharpeRatio(barsFromCloses(100, 110, 100, 112), DefaultRiskFreeRate)
		assert.Greater(t, got, 0.0)
	})
}

func TestRSI(t *testing.T) {
	t.Run("too short yields neutral", func(t *testing.T) {
		assert.Equal(t, 50.0, RSI(barsFromCloses(100, 101), DefaultRSIPeriod))
	})

	t.Run("only gains yields 100", func(t *testing.T) {
		assert.Equal(t, 100.0, RSI(barsFromCloses(100, 101, 102, 103), 3))
	})

	t.Run("mixed gains and losses", func(t *testing.T) {
		// avg gain 5, avg loss 2.5, RS 2, RSI 66.67
		assert.Equal(t, 66.67, RSI(barsFromCloses(100, 110, 105), 2))
	})
}

func TestRiskScore(t *testing.T) {
	ptr := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		beta *float64
		want float64
	}{
		{"nil beta defaults to market beta", nil, 4},
		{"very high beta", ptr(1.6), 8},
		{"high beta", ptr(1.3), 6},
		{"market beta", ptr(0.9), 4},
		{"low beta", ptr(0.6), 2},
		{"very low beta", ptr(0.3), 1},
		{"NaN beta falls back", ptr(math.NaN()), 5},
		{"infinite beta falls back", ptr(math.Inf(1)), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RiskScore(tt.beta))
		})
	}
}
