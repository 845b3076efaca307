package dto

import "time"

// DailyBar is one day of OHLCV data, ordered chronologically ascending in a
// series. Missing trading days are simply absent.
type DailyBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// CompanyInfo is the provider's fundamentals mapping. Every field may be
// absent; consumers must treat absence as "N/A" and never fail on it.
type CompanyInfo struct {
	Symbol           string   `json:"symbol"`
	Name             string   `json:"name,omitempty"`
	Sector           string   `json:"sector,omitempty"`
	Industry         string   `json:"industry,omitempty"`
	Description      string   `json:"description,omitempty"`
	CurrentPrice     *float64 `json:"current_price,omitempty"`
	MarketCap        *float64 `json:"market_cap,omitempty"`
	PERatio          *float64 `json:"pe_ratio,omitempty"`
	DividendYield    *float64 `json:"dividend_yield,omitempty"`
	Beta             *float64 `json:"beta,omitempty"`
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low,omitempty"`
}

// IsEmpty reports whether the provider returned nothing usable for the
// symbol.
func (c CompanyInfo) IsEmpty() bool {
	return c.Symbol == ""
}

// Recommendation is one analyst recommendation period from the provider.
type Recommendation struct {
	Period     string `json:"period"`
	StrongBuy  int    `json:"strong_buy"`
	Buy        int    `json:"buy"`
	Hold       int    `json:"hold"`
	Sell       int    `json:"sell"`
	StrongSell int    `json:"strong_sell"`
}

type GetStockDataParam struct {
	Symbol string `json:"symbol"`
	Period string `json:"period"`
}

// Yahoo Finance chart API response
type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// Yahoo Finance quoteSummary API response. Numeric fields arrive wrapped in
// {raw, fmt} objects.
type YahooQuoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				Symbol             string        `json:"symbol"`
				LongName           string        `json:"longName"`
				RegularMarketPrice YahooRawValue `json:"regularMarketPrice"`
				MarketCap          YahooRawValue `json:"marketCap"`
			} `json:"price"`
			SummaryProfile struct {
				Sector              string `json:"sector"`
				Industry            string `json:"industry"`
				LongBusinessSummary string `json:"longBusinessSummary"`
			} `json:"summaryProfile"`
			SummaryDetail struct {
				TrailingPE       YahooRawValue `json:"trailingPE"`
				Beta             YahooRawValue `json:"beta"`
				DividendYield    YahooRawValue `json:"dividendYield"`
				FiftyTwoWeekHigh YahooRawValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  YahooRawValue `json:"fiftyTwoWeekLow"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteSummary"`
}

type YahooRawValue struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

type YahooRecommendationResponse struct {
	QuoteSummary struct {
		Result []struct {
			RecommendationTrend struct {
				Trend []struct {
					Period     string `json:"period"`
					StrongBuy  int    `json:"strongBuy"`
					Buy        int    `json:"buy"`
					Hold       int    `json:"hold"`
					Sell       int    `json:"sell"`
					StrongSell int    `json:"strongSell"`
				} `json:"trend"`
			} `json:"recommendationTrend"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteSummary"`
}
