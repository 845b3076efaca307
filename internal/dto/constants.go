package dto

// Period labels accepted for historical data requests.
var ValidPeriods = []string{"1D", "5D", "1M", "3M", "6M", "1Y", "2Y", "5Y", "MAX"}

const (
	DefaultPeriod = "1Y"

	AnalysisTypeComparison = "Comparison Report"
)

// ComparisonMetric pairs a display label with the summary field it reads.
type ComparisonMetric struct {
	Label string
	Key   string
}

// ComparisonMetrics is the fixed, ordered list of rows in the side-by-side
// table.
var ComparisonMetrics = []ComparisonMetric{
	{"Current Price", "current_price"},
	{"Market Cap", "market_cap"},
	{"P/E Ratio", "pe_ratio"},
	{"Dividend Yield", "dividend_yield"},
	{"Beta", "beta"},
	{"Volatility", "volatility"},
	{"RSI", "rsi"},
	{"Risk Score", "risk_score"},
}

// IsValidPeriod reports whether p is one of the accepted period labels.
func IsValidPeriod(p string) bool {
	for _, v := range ValidPeriods {
		if v == p {
			return true
		}
	}
	return false
}
