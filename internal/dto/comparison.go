package dto

import "time"

// StockSummary is the per-symbol snapshot shown in the dashboard and fed to
// the comparison builder. It is recomputed per request and never mutated.
type StockSummary struct {
	Symbol           string           `json:"symbol"`
	Name             string           `json:"name,omitempty"`
	Sector           string           `json:"sector,omitempty"`
	Industry         string           `json:"industry,omitempty"`
	Description      string           `json:"description,omitempty"`
	CurrentPrice     *float64         `json:"current_price,omitempty"`
	MarketCap        *float64         `json:"market_cap,omitempty"`
	PERatio          *float64         `json:"pe_ratio,omitempty"`
	DividendYield    *float64         `json:"dividend_yield,omitempty"`
	Beta             *float64         `json:"beta,omitempty"`
	FiftyTwoWeekHigh *float64         `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow  *float64         `json:"fifty_two_week_low,omitempty"`
	MovingAverages   map[int]float64  `json:"moving_averages,omitempty"`
	Volatility       float64          `json:"volatility"`
	RSI              float64          `json:"rsi"`
	RiskScore        float64          `json:"risk_score"`
	Trend            TrendResult      `json:"trend"`
	Drawdown         DrawdownResult   `json:"drawdown"`
	SupportLevel     *float64         `json:"support,omitempty"`
	ResistanceLevel  *float64         `json:"resistance,omitempty"`
	PriceTargets     *PriceTargets    `json:"price_targets,omitempty"`
	SharpeRatio      float64          `json:"sharpe_ratio"`
	Recommendations  []Recommendation `json:"recommendations,omitempty"`
}

// ComparisonTable is a metric-by-metric side-by-side view: one row per metric
// label, one value column per symbol. Column order follows Symbols.
type ComparisonTable struct {
	Metrics []string            `json:"metrics"`
	Symbols []string            `json:"symbols"`
	Columns map[string][]string `json:"columns"`
}

// ComparisonResult is the full payload of a two-stock comparison.
type ComparisonResult struct {
	Table       ComparisonTable         `json:"table"`
	Correlation float64                 `json:"correlation"`
	Portfolio   PortfolioSummary        `json:"portfolio"`
	Summaries   map[string]StockSummary `json:"summaries"`
}

// PortfolioSummary aggregates metrics across a basket of stocks.
type PortfolioSummary struct {
	TotalStocks      int     `json:"total_stocks"`
	TotalMarketCap   float64 `json:"total_market_cap"`
	AveragePE        float64 `json:"average_pe"`
	AverageBeta      float64 `json:"average_beta"`
	AverageRiskScore float64 `json:"average_risk_score"`
	Diversification  string  `json:"portfolio_diversification"`
}

// HistoryEntry is one appended analysis run. Entries are immutable once
// written.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Stocks    string    `json:"stocks"`
	Type      string    `json:"type"`
	Response  string    `json:"response"`
}

type DateRange struct {
	Earliest time.Time `json:"earliest"`
	Latest   time.Time `json:"latest"`
}

type HistoryStats struct {
	TotalAnalyses int            `json:"total_analyses"`
	UniqueStocks  []string       `json:"unique_stocks"`
	AnalysisTypes map[string]int `json:"analysis_types"`
	DateRange     *DateRange     `json:"date_range,omitempty"`
}

// ReportResult carries the narrative comparison produced by the report
// generator.
type ReportResult struct {
	Stocks      string    `json:"stocks"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generated_at"`
}
