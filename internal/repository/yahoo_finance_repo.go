package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"investment-agent/config"
	"investment-agent/internal/apperrors"
	"investment-agent/internal/dto"
	"investment-agent/pkg/httpclient"
	"investment-agent/pkg/logger"

	"golang.org/x/time/rate"
)

// MarketDataRepository is the narrow contract to the external market data
// provider.
type MarketDataRepository interface {
	GetPriceSeries(ctx context.Context, param dto.GetStockDataParam) ([]dto.DailyBar, error)
	GetCompanyInfo(ctx context.Context, symbol string) (*dto.CompanyInfo, error)
	GetRecommendations(ctx context.Context, symbol string) ([]dto.Recommendation, error)
}

// yahooFinanceRepository fetches quotes, fundamentals and analyst
// recommendations from the Yahoo Finance JSON API.
type yahooFinanceRepository struct {
	httpClient     httpclient.HTTPClient
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewYahooFinanceRepository creates a new instance of yahooFinanceRepository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &yahooFinanceRepository{
		httpClient:     httpclient.New(cfg.YahooFinance.BaseURL, cfg.YahooFinance.Timeout),
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}
}

var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-US,en;q=0.9",
	"Connection":      "keep-alive",
	"Referer":         "https://finance.yahoo.com/",
}

func (r *yahooFinanceRepository) GetPriceSeries(ctx context.Context, param dto.GetStockDataParam) ([]dto.DailyBar, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	period1, period2 := mapPeriodToUnix(param.Period)
	if period2 == 0 {
		return nil, fmt.Errorf("%w: invalid period %q", apperrors.ErrDataFetch, param.Period)
	}

	endpoint := "/v8/finance/chart/" + param.Symbol
	queryParams := map[string]string{
		"period1":        fmt.Sprintf("%d", period1),
		"period2":        fmt.Sprintf("%d", period2),
		"interval":       "1d",
		"includePrePost": "false",
		"events":         "div,split",
	}

	var chartResp dto.YahooChartResponse
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, browserHeaders, &chartResp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDataFetch, err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Yahoo Finance chart API returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", param.Symbol))
		return nil, fmt.Errorf("%w: chart api returned status %d", apperrors.ErrDataFetch, resp.StatusCode)
	}

	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("%w: chart api error: %v", apperrors.ErrDataFetch, chartResp.Chart.Error)
	}
	if len(chartResp.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: no data returned for symbol %s", apperrors.ErrDataFetch, param.Symbol)
	}

	result := chartResp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no quote data for symbol %s", apperrors.ErrDataFetch, param.Symbol)
	}

	quote := result.Indicators.Quote[0]
	var bars []dto.DailyBar
	for i, ts := range result.Timestamp {
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) ||
			i >= len(quote.Close) || i >= len(quote.Volume) {
			continue
		}
		// Zero values mark missing rows in the chart API.
		if quote.Open[i] == 0 || quote.High[i] == 0 || quote.Low[i] == 0 || quote.Close[i] == 0 {
			continue
		}

		bars = append(bars, dto.DailyBar{
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:   quote.Open[i],
			High:   quote.High[i],
			Low:    quote.Low[i],
			Close:  quote.Close[i],
			Volume: quote.Volume[i],
		})
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: no valid OHLCV data for symbol %s", apperrors.ErrDataFetch, param.Symbol)
	}
	return bars, nil
}

func (r *yahooFinanceRepository) GetCompanyInfo(ctx context.Context, symbol string) (*dto.CompanyInfo, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := "/v10/finance/quoteSummary/" + symbol
	queryParams := map[string]string{
		"modules": "price,summaryProfile,summaryDetail",
	}

	var summaryResp dto.YahooQuoteSummaryResponse
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, browserHeaders, &summaryResp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDataFetch, err)
	}

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Yahoo Finance quoteSummary API returned non-OK status",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", symbol))
		return nil, fmt.Errorf("%w: quoteSummary api returned status %d", apperrors.ErrDataFetch, resp.StatusCode)
	}

	if summaryResp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%w: quoteSummary api error: %v", apperrors.ErrDataFetch, summaryResp.QuoteSummary.Error)
	}
	if len(summaryResp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: no company info for symbol %s", apperrors.ErrDataFetch, symbol)
	}

	result := summaryResp.QuoteSummary.Result[0]
	info := &dto.CompanyInfo{
		Symbol:           result.Price.Symbol,
		Name:             result.Price.LongName,
		Sector:           result.SummaryProfile.Sector,
		Industry:         result.SummaryProfile.Industry,
		Description:      result.SummaryProfile.LongBusinessSummary,
		CurrentPrice:     result.Price.RegularMarketPrice.Raw,
		MarketCap:        result.Price.MarketCap.Raw,
		PERatio:          result.SummaryDetail.TrailingPE.Raw,
		DividendYield:    result.SummaryDetail.DividendYield.Raw,
		Beta:             result.SummaryDetail.Beta.Raw,
		FiftyTwoWeekHigh: result.SummaryDetail.FiftyTwoWeekHigh.Raw,
		FiftyTwoWeekLow:  result.SummaryDetail.FiftyTwoWeekLow.Raw,
	}
	return info, nil
}

func (r *yahooFinanceRepository) GetRecommendations(ctx context.Context, symbol string) ([]dto.Recommendation, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := "/v10/finance/quoteSummary/" + symbol
	queryParams := map[string]string{
		"modules": "recommendationTrend",
	}

	var recResp dto.YahooRecommendationResponse
	resp, err := r.httpClient.Get(ctx, endpoint, queryParams, browserHeaders, &recResp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrDataFetch, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: recommendation api returned status %d", apperrors.ErrDataFetch, resp.StatusCode)
	}
	if len(recResp.QuoteSummary.Result) == 0 {
		return nil, nil
	}

	var recs []dto.Recommendation
	for _, t := range recResp.QuoteSummary.Result[0].RecommendationTrend.Trend {
		recs = append(recs, dto.Recommendation{
			Period:     t.Period,
			StrongBuy:  t.StrongBuy,
			Buy:        t.Buy,
			Hold:       t.Hold,
			Sell:       t.Sell,
			StrongSell: t.StrongSell,
		})
	}
	return recs, nil
}

// mapPeriodToUnix converts a period label to a unix time range ending now.
func mapPeriodToUnix(period string) (int64, int64) {
	now := time.Now()
	switch period {
	case "1D":
		return now.AddDate(0, 0, -1).Unix(), now.Unix()
	case "5D":
		return now.AddDate(0, 0, -5).Unix(), now.Unix()
	case "1M":
		return now.AddDate(0, -1, 0).Unix(), now.Unix()
	case "3M":
		return now.AddDate(0, -3, 0).Unix(), now.Unix()
	case "6M":
		return now.AddDate(0, -6, 0).Unix(), now.Unix()
	case "1Y":
		return now.AddDate(-1, 0, 0).Unix(), now.Unix()
	case "2Y":
		return now.AddDate(-2, 0, 0).Unix(), now.Unix()
	case "5Y":
		return now.AddDate(-5, 0, 0).Unix(), now.Unix()
	case "MAX":
		return 0, now.Unix()
	default:
		return 0, 0
	}
}
