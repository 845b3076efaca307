package dto

const (
	TrendBullish  = "bullish"
	TrendBearish  = "bearish"
	TrendSideways = "sideways"
	TrendUnknown  = "unknown"
)

// TrendResult describes the direction and strength of the recent price
// trend relative to its short and long moving averages.
type TrendResult struct {
	Trend    string  `json:"trend"`
	Strength float64 `json:"strength"`
	ShortMA  float64 `json:"short_ma"`
	LongMA   float64 `json:"long_ma"`
}

// DrawdownResult holds peak-to-trough declines as percentages (<= 0).
type DrawdownResult struct {
	MaxDrawdown     float64 `json:"max_drawdown"`
	CurrentDrawdown float64 `json:"current_drawdown"`
}

// PriceTargets are derived from the support/resistance range around the
// current price.
type PriceTargets struct {
	Conservative float64 `json:"conservative_target"`
	Moderate     float64 `json:"moderate_target"`
	Aggressive   float64 `json:"aggressive_target"`
	StopLoss     float64 `json:"stop_loss"`
}
