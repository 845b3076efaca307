package metrics

import (
	"math"

	"investment-agent/internal/dto"
	"investment-agent/pkg/utils"
)

const (
	tradingDaysPerYear = 252

	DefaultVolatilityLookback = 30
	DefaultRSIPeriod          = 14
	DefaultRiskFreeRate       = 0.02

	// neutralRSI is reported when the series is too short for the period.
	neutralRSI = 50.0

	// defaultRiskScore is the moderate fallback when beta is unusable.
	defaultRiskScore = 5.0
)

// Volatility is the annualized standard deviation of daily returns over the
// trailing lookback window, as a percentage. Fewer than 2 bars yields 0.0.
func Volatility(bars []dto.DailyBar, lookbackDays int) float64 {
	if len(bars) < 2 {
		return 0.0
	}
	if lookbackDays <= 0 {
		lookbackDays = DefaultVolatilityLookback
	}

	closes := extractCloses(bars)
	// lookbackDays returns need lookbackDays+1 closes.
	if len(closes) > lookbackDays+1 {
		closes = closes[len(closes)-lookbackDays-1:]
	}

	returns := dailyReturns(closes)
	if len(returns) < 2 {
		return 0.0
	}
	return utils.RoundTo(stddev(returns)*math.Sqrt(tradingDaysPerYear)*100, 2)
}

// SharpeRatio is the annualized mean excess daily return divided by its
// standard deviation. Zero return observations or zero variance yield 0.0.
func SharpeRatio(bars []dto.DailyBar, riskFreeRate float64) float64 {
	returns := dailyReturns(extractCloses(bars))
	if len(returns) == 0 {
		return 0.0
	}

	dailyRiskFree := riskFreeRate / tradingDaysPerYear
	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - dailyRiskFree
	}

	sd := stddev(excess)
	if sd == 0 {
		return 0.0
	}
	return utils.RoundTo(mean(excess)/sd*math.Sqrt(tradingDaysPerYear), 2)
}

// RSI is the Relative Strength Index on the last bar, using simple averages
// of gains and losses over the trailing period. A series shorter than
// period+1 bars yields the neutral 50.0; zero average loss yields 100.
func RSI(bars []dto.DailyBar, period int) float64 {
	if period <= 0 {
		period = DefaultRSIPeriod
	}
	if len(bars) < period+1 {
		return neutralRSI
	}

	closes := extractCloses(bars)
	window := closes[len(closes)-period-1:]

	var avgGain, avgLoss float64
	for i := 1; i < len(window); i++ {
		change := window[i] - window[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return utils.RoundTo(100-100/(1+rs), 2)
}

// RiskScore maps beta to a stepped coarse risk score. A nil beta defaults
// to 1.0; an unusable beta (NaN/Inf) falls back to the moderate 5.0.
func RiskScore(beta *float64) float64 {
	b := 1.0
	if beta != nil {
		b = *beta
	}
	if math.IsNaN(b) || math.IsInf(b, 0) {
		return defaultRiskScore
	}

	switch {
	case b >= 1.5:
		return 8
	case b >= 1.2:
		return 6
	case b >= 0.8:
		return 4
	case b >= 0.5:
		return 2
	default:
		return 1
	}
}
