package service

import (
	"context"
	"fmt"

	"investment-agent/config"
	"investment-agent/internal/apperrors"
	"investment-agent/internal/dto"
	"investment-agent/internal/metrics"
	"investment-agent/pkg/logger"
	"investment-agent/pkg/perf"
	"investment-agent/pkg/utils"

	"golang.org/x/sync/errgroup"
)

type ComparisonService interface {
	Compare(ctx context.Context, req dto.CompareRequest) (dto.ComparisonResult, error)
	PortfolioMetrics(ctx context.Context, req dto.PortfolioRequest) (dto.PortfolioSummary, error)
}

type comparisonService struct {
	cfg       *config.Config
	log       *logger.Logger
	stocks    StockService
	collector *perf.Collector
}

func NewComparisonService(cfg *config.Config, log *logger.Logger, stocks StockService, collector *perf.Collector) ComparisonService {
	return &comparisonService{
		cfg:       cfg,
		log:       log,
		stocks:    stocks,
		collector: collector,
	}
}

// Compare fetches both symbols in parallel and assembles the side-by-side
// table, the return correlation and the two-stock portfolio view.
func (s *comparisonService) Compare(ctx context.Context, req dto.CompareRequest) (dto.ComparisonResult, error) {
	timer := s.collector.StartTimer("compare")
	defer timer.Stop()

	snaps := make([]StockSnapshot, 2)
	g, gctx := errgroup.WithContext(ctx)
	for i, symbol := range []string{req.Symbol1, req.Symbol2} {
		g.Go(func() error {
			snap, err := s.stocks.GetSnapshot(gctx, symbol, req.Period)
			if err != nil {
				return err
			}
			snaps[i] = snap
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dto.ComparisonResult{}, err
	}

	summaries := []dto.StockSummary{snaps[0].Summary, snaps[1].Summary}
	result := dto.ComparisonResult{
		Table:       BuildComparisonTable(summaries),
		Correlation: metrics.Correlation(snaps[0].Bars, snaps[1].Bars),
		Portfolio:   AggregatePortfolio(summaries),
		Summaries: map[string]dto.StockSummary{
			snaps[0].Summary.Symbol: snaps[0].Summary,
			snaps[1].Summary.Symbol: snaps[1].Summary,
		},
	}

	s.log.InfoContext(ctx, "built comparison",
		logger.StringField("symbol1", snaps[0].Summary.Symbol),
		logger.StringField("symbol2", snaps[1].Summary.Symbol),
		logger.Float64Field("correlation", result.Correlation))
	return result, nil
}

// PortfolioMetrics aggregates summary metrics across the requested basket.
func (s *comparisonService) PortfolioMetrics(ctx context.Context, req dto.PortfolioRequest) (dto.PortfolioSummary, error) {
	timer := s.collector.StartTimer("portfolio_metrics")
	defer timer.Stop()

	if err := utils.ValidateStockList(req.Symbols); err != nil {
		return dto.PortfolioSummary{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidSymbol, err)
	}

	summaries := make([]dto.StockSummary, len(req.Symbols))
	g, gctx := errgroup.WithContext(ctx)
	for i, symbol := range req.Symbols {
		g.Go(func() error {
			summary, err := s.stocks.GetSummary(gctx, symbol, req.Period)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dto.PortfolioSummary{}, err
	}

	return AggregatePortfolio(summaries), nil
}

// BuildComparisonTable renders each metric row as display strings, one
// column per symbol. Missing values render as "N/A" and a summary without a
// symbol falls back to a positional column name.
func BuildComparisonTable(summaries []dto.StockSummary) dto.ComparisonTable {
	table := dto.ComparisonTable{
		Metrics: make([]string, 0, len(dto.ComparisonMetrics)),
		Symbols: make([]string, 0, len(summaries)),
		Columns: make(map[string][]string, len(summaries)),
	}
	for _, m := range dto.ComparisonMetrics {
		table.Metrics = append(table.Metrics, m.Label)
	}

	for i, summary := range summaries {
		name := summary.Symbol
		if name == "" {
			name = fmt.Sprintf("Stock %d", i+1)
		}
		table.Symbols = append(table.Symbols, name)

		col := make([]string, 0, len(dto.ComparisonMetrics))
		for _, m := range dto.ComparisonMetrics {
			col = append(col, formatMetric(summary, m.Key))
		}
		table.Columns[name] = col
	}
	return table
}

func formatMetric(s dto.StockSummary, key string) string {
	switch key {
	case "current_price":
		return utils.FormatCurrency(s.CurrentPrice)
	case "market_cap":
		return utils.FormatCurrency(s.MarketCap)
	case "pe_ratio":
		if s.PERatio == nil {
			return "N/A"
		}
		return fmt.Sprintf("%.2f", *s.PERatio)
	case "dividend_yield":
		if s.DividendYield == nil {
			return "N/A"
		}
		return fmt.Sprintf("%.2f%%", *s.DividendYield*100)
	case "beta":
		if s.Beta == nil {
			return "N/A"
		}
		return fmt.Sprintf("%.2f", *s.Beta)
	case "volatility":
		return fmt.Sprintf("%.2f%%", s.Volatility)
	case "rsi":
		return fmt.Sprintf("%.2f", s.RSI)
	case "risk_score":
		return fmt.Sprintf("%.1f/10", s.RiskScore)
	default:
		return "N/A"
	}
}

// AggregatePortfolio computes basket-level totals and averages. Averages
// skip stocks missing the underlying value; a basket with no usable betas
// assumes the market beta of 1.0.
func AggregatePortfolio(summaries []dto.StockSummary) dto.PortfolioSummary {
	portfolio := dto.PortfolioSummary{TotalStocks: len(summaries)}
	if len(summaries) == 0 {
		portfolio.Diversification = diversificationLabel(1.0)
		return portfolio
	}

	var (
		totalCap  float64
		peSum     float64
		peCount   int
		betaSum   float64
		betaCount int
		riskSum   float64
	)
	for _, s := range summaries {
		if s.MarketCap != nil {
			totalCap += *s.MarketCap
		}
		if s.PERatio != nil && *s.PERatio > 0 {
			peSum += *s.PERatio
			peCount++
		}
		if s.Beta != nil {
			betaSum += *s.Beta
			betaCount++
		}
		riskSum += s.RiskScore
	}

	portfolio.TotalMarketCap = utils.RoundTo(totalCap, 2)
	if peCount > 0 {
		portfolio.AveragePE = utils.RoundTo(peSum/float64(peCount), 2)
	}
	avgBeta := 1.0
	if betaCount > 0 {
		avgBeta = betaSum / float64(betaCount)
	}
	portfolio.AverageBeta = utils.RoundTo(avgBeta, 2)
	portfolio.AverageRiskScore = utils.RoundTo(riskSum/float64(len(summaries)), 2)
	portfolio.Diversification = diversificationLabel(avgBeta)
	return portfolio
}

// diversificationLabel grades the basket by its average beta: below market
// beta reads as defensive diversification, well above as concentrated risk.
func diversificationLabel(avgBeta float64) string {
	switch {
	case avgBeta < 1.0:
		return "High"
	case avgBeta < 1.5:
		return "Moderate"
	default:
		return "Low"
	}
}
