// Package metrics computes technical indicators from daily price series.
// Every function is pure: no I/O, no mutation of the input series. Empty or
// too-short input yields the documented neutral default instead of an error,
// so callers never need defensive handling around these calls.
package metrics

import (
	"math"

	"investment-agent/internal/dto"
	"investment-agent/pkg/utils"
)

// DefaultMAWindows are the moving-average windows computed for a summary.
var DefaultMAWindows = []int{20, 50, 200}

// MovingAverages returns one rolling-mean column per window, each aligned
// with the input series. Positions before a full window are NaN. Windows
// longer than the series are skipped entirely.
func MovingAverages(bars []dto.DailyBar, windows []int) map[int][]float64 {
	result := make(map[int][]float64)
	if len(bars) == 0 {
		return result
	}

	closes := extractCloses(bars)
	for _, window := range windows {
		if window <= 0 || window > len(closes) {
			continue
		}
		col := make([]float64, len(closes))
		var sum float64
		for i, c := range closes {
			sum += c
			if i >= window {
				sum -= closes[i-window]
			}
			if i >= window-1 {
				col[i] = utils.RoundTo(sum/float64(window), 2)
			} else {
				col[i] = math.NaN()
			}
		}
		result[window] = col
	}
	return result
}

// SupportResistance returns the trailing-window low and high. Both are nil
// for an empty series.
func SupportResistance(bars []dto.DailyBar, window int) (support, resistance *float64) {
	if len(bars) == 0 {
		return nil, nil
	}
	if window <= 0 || window > len(bars) {
		window = len(bars)
	}

	recent := bars[len(bars)-window:]
	lo, hi := recent[0].Low, recent[0].High
	for _, b := range recent[1:] {
		if b.Low < lo {
			lo = b.Low
		}
		if b.High > hi {
			hi = b.High
		}
	}
	lo = utils.RoundTo(lo, 2)
	hi = utils.RoundTo(hi, 2)
	return &lo, &hi
}

// PriceTargets derives target levels from the support/resistance range.
func PriceTargets(currentPrice, support, resistance float64) dto.PriceTargets {
	rangeSize := resistance - support
	return dto.PriceTargets{
		Conservative: utils.RoundTo(currentPrice+rangeSize*0.1, 2),
		Moderate:     utils.RoundTo(currentPrice+rangeSize*0.25, 2),
		Aggressive:   utils.RoundTo(currentPrice+rangeSize*0.5, 2),
		StopLoss:     utils.RoundTo(support*0.95, 2),
	}
}

// Trend classifies the recent price action against short and long moving
// averages. Fewer than 2 bars yields the unknown trend with zero strength.
func Trend(bars []dto.DailyBar) dto.TrendResult {
	if len(bars) < 2 {
		return dto.TrendResult{Trend: dto.TrendUnknown}
	}

	closes := extractCloses(bars)
	shortPeriod := min(20, len(closes)/2)
	longPeriod := min(50, len(closes))

	shortMA := mean(closes[len(closes)-shortPeriod:])
	longMA := mean(closes[len(closes)-longPeriod:])
	currentPrice := closes[len(closes)-1]

	var trend string
	var strength float64
	switch {
	case currentPrice > shortMA && shortMA > longMA:
		trend = dto.TrendBullish
		strength = math.Min(100, (currentPrice-longMA)/longMA*1000)
	case currentPrice < shortMA && shortMA < longMA:
		trend = dto.TrendBearish
		strength = math.Min(100, (longMA-currentPrice)/longMA*1000)
	default:
		trend = dto.TrendSideways
		strength = 50
	}

	return dto.TrendResult{
		Trend:    trend,
		Strength: utils.RoundTo(strength, 2),
		ShortMA:  utils.RoundTo(shortMA, 2),
		LongMA:   utils.RoundTo(longMA, 2),
	}
}

// Drawdown computes the maximum and current peak-to-trough decline as
// percentages of the running peak. Both are 0 for an empty series.
func Drawdown(bars []dto.DailyBar) dto.DrawdownResult {
	if len(bars) == 0 {
		return dto.DrawdownResult{}
	}

	runningMax := bars[0].Close
	maxDrawdown := 0.0
	currentDrawdown := 0.0
	for _, b := range bars {
		if b.Close > runningMax {
			runningMax = b.Close
		}
		dd := 0.0
		if runningMax != 0 {
			dd = (b.Close - runningMax) / runningMax * 100
		}
		if dd < maxDrawdown {
			maxDrawdown = dd
		}
		currentDrawdown = dd
	}

	return dto.DrawdownResult{
		MaxDrawdown:     utils.RoundTo(maxDrawdown, 2),
		CurrentDrawdown: utils.RoundTo(currentDrawdown, 2),
	}
}

// Correlation is the Pearson correlation of daily percentage returns over
// the two series' shared trading dates. It returns 0.0 when fewer than 2
// overlapping return observations exist or the result is not a number.
func Correlation(bars1, bars2 []dto.DailyBar) float64 {
	closes2 := make(map[string]float64, len(bars2))
	for _, b := range bars2 {
		closes2[b.Date.Format("2006-01-02")] = b.Close
	}

	var common1, common2 []float64
	for _, b := range bars1 {
		if c2, ok := closes2[b.Date.Format("2006-01-02")]; ok {
			common1 = append(common1, b.Close)
			common2 = append(common2, c2)
		}
	}
	if len(common1) < 2 {
		return 0.0
	}

	returns1 := dailyReturns(common1)
	returns2 := dailyReturns(common2)
	if len(returns1) < 2 || len(returns2) < 2 {
		return 0.0
	}

	corr := pearson(returns1, returns2)
	if math.IsNaN(corr) {
		return 0.0
	}
	return utils.RoundTo(corr, 2)
}

func pearson(xs, ys []float64) float64 {
	n := float64(len(xs))
	meanX := mean(xs)
	meanY := mean(ys)

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 || n < 2 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}

func extractCloses(bars []dto.DailyBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// dailyReturns converts a close series to simple percentage returns, one
// fewer element than the input. Zero closes are skipped.
func dailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	return returns
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation (n-1 denominator).
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
