package service

import (
	"context"
	"fmt"
	"math"

	"investment-agent/config"
	"investment-agent/internal/apperrors"
	"investment-agent/internal/dto"
	"investment-agent/internal/metrics"
	"investment-agent/internal/repository"
	"investment-agent/pkg/cache"
	"investment-agent/pkg/logger"
	"investment-agent/pkg/perf"
	"investment-agent/pkg/utils"

	"golang.org/x/sync/errgroup"
)

const supportResistanceWindow = 20

// StockSnapshot bundles the computed summary with the price series it was
// derived from, so downstream consumers can run cross-series math without a
// second fetch.
type StockSnapshot struct {
	Summary dto.StockSummary `json:"summary"`
	Bars    []dto.DailyBar   `json:"bars"`
}

type StockService interface {
	ValidateSymbol(ctx context.Context, symbol string) (dto.ValidateResult, error)
	GetSummary(ctx context.Context, symbol, period string) (dto.StockSummary, error)
	GetSnapshot(ctx context.Context, symbol, period string) (StockSnapshot, error)
}

type stockService struct {
	cfg       *config.Config
	log       *logger.Logger
	repo      repository.MarketDataRepository
	fileCache *cache.FileStore
	memCache  cache.Cache
	collector *perf.Collector
}

func NewStockService(
	cfg *config.Config,
	log *logger.Logger,
	repo repository.MarketDataRepository,
	fileCache *cache.FileStore,
	memCache cache.Cache,
	collector *perf.Collector,
) StockService {
	return &stockService{
		cfg:       cfg,
		log:       log,
		repo:      repo,
		fileCache: fileCache,
		memCache:  memCache,
		collector: collector,
	}
}

// ValidateSymbol checks the symbol format locally and its existence against
// the market data provider. A malformed symbol never reaches the provider.
// Existence results are cached on the long-lived validate schedule.
func (s *stockService) ValidateSymbol(ctx context.Context, symbol string) (dto.ValidateResult, error) {
	timer := s.collector.StartTimer("validate_symbol")
	defer timer.Stop()

	normalized := utils.FormatSymbol(symbol)
	result := dto.ValidateResult{Symbol: normalized}

	if !utils.ValidateSymbolFormat(normalized) {
		return result, nil
	}

	key := "validate_" + normalized
	if v, ok := s.memCache.Get(key); ok {
		if valid, ok := v.(bool); ok {
			result.Valid = valid
			return result, nil
		}
	}
	var cached bool
	if s.fileCache.Get(key, &cached) {
		result.Valid = cached
		return result, nil
	}

	info, err := s.repo.GetCompanyInfo(ctx, normalized)
	if err != nil {
		// A transient lookup failure maps to invalid but is never cached;
		// the next call gets a fresh shot at the provider.
		s.log.DebugContext(ctx, "symbol lookup failed",
			logger.StringField("symbol", normalized), logger.ErrorField(err))
		return result, nil
	}
	result.Valid = !info.IsEmpty()

	ttl := s.cfg.Cache.NamespaceTTL("validate")
	s.fileCache.SetWithTTL(key, result.Valid, ttl)
	s.memCache.Set(key, result.Valid, ttl)
	return result, nil
}

// GetSummary returns the per-symbol dashboard snapshot.
func (s *stockService) GetSummary(ctx context.Context, symbol, period string) (dto.StockSummary, error) {
	snap, err := s.GetSnapshot(ctx, symbol, period)
	if err != nil {
		return dto.StockSummary{}, err
	}
	return snap.Summary, nil
}

// GetSnapshot fetches price history, fundamentals and analyst
// recommendations, computes the derived metrics, and caches the result on
// the quote schedule. The memory tier is consulted before the file store.
func (s *stockService) GetSnapshot(ctx context.Context, symbol, period string) (StockSnapshot, error) {
	timer := s.collector.StartTimer("get_snapshot")
	defer timer.Stop()

	normalized := utils.FormatSymbol(symbol)
	if !utils.ValidateSymbolFormat(normalized) {
		return StockSnapshot{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidSymbol, symbol)
	}
	if period == "" {
		period = dto.DefaultPeriod
	}
	if !dto.IsValidPeriod(period) {
		return StockSnapshot{}, fmt.Errorf("%w: invalid period %q", apperrors.ErrDataFetch, period)
	}

	key := fmt.Sprintf("quote_%s_%s", normalized, period)
	if v, ok := s.memCache.Get(key); ok {
		if snap, ok := v.(StockSnapshot); ok {
			return snap, nil
		}
	}
	var cached StockSnapshot
	if s.fileCache.Get(key, &cached) {
		return cached, nil
	}

	var (
		bars []dto.DailyBar
		info *dto.CompanyInfo
		recs []dto.Recommendation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bars, err = s.repo.GetPriceSeries(gctx, dto.GetStockDataParam{Symbol: normalized, Period: period})
		return err
	})
	g.Go(func() error {
		var err error
		info, err = s.repo.GetCompanyInfo(gctx, normalized)
		return err
	})
	g.Go(func() error {
		// Recommendations are optional garnish, never fatal.
		r, err := s.repo.GetRecommendations(gctx, normalized)
		if err != nil {
			s.log.WarnContext(gctx, "failed to fetch recommendations",
				logger.StringField("symbol", normalized), logger.ErrorField(err))
			return nil
		}
		recs = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return StockSnapshot{}, err
	}

	snap := StockSnapshot{
		Summary: s.buildSummary(normalized, bars, info, recs),
		Bars:    bars,
	}

	ttl := s.cfg.Cache.NamespaceTTL("quote")
	s.fileCache.SetWithTTL(key, snap, ttl)
	s.memCache.Set(key, snap, ttl)
	return snap, nil
}

func (s *stockService) buildSummary(symbol string, bars []dto.DailyBar, info *dto.CompanyInfo, recs []dto.Recommendation) dto.StockSummary {
	summary := dto.StockSummary{
		Symbol:          symbol,
		MovingAverages:  latestMovingAverages(bars),
		Volatility:      metrics.Volatility(bars, metrics.DefaultVolatilityLookback),
		RSI:             metrics.RSI(bars, metrics.DefaultRSIPeriod),
		SharpeRatio:     metrics.SharpeRatio(bars, metrics.DefaultRiskFreeRate),
		Trend:           metrics.Trend(bars),
		Drawdown:        metrics.Drawdown(bars),
		Recommendations: recs,
	}

	if info != nil {
		summary.Name = info.Name
		summary.Sector = info.Sector
		summary.Industry = info.Industry
		summary.Description = utils.TruncateText(info.Description, 200)
		summary.CurrentPrice = info.CurrentPrice
		summary.MarketCap = info.MarketCap
		summary.PERatio = info.PERatio
		summary.DividendYield = info.DividendYield
		summary.Beta = info.Beta
		summary.FiftyTwoWeekHigh = info.FiftyTwoWeekHigh
		summary.FiftyTwoWeekLow = info.FiftyTwoWeekLow
	}
	summary.RiskScore = metrics.RiskScore(summary.Beta)

	if summary.CurrentPrice == nil && len(bars) > 0 {
		last := utils.RoundTo(bars[len(bars)-1].Close, 2)
		summary.CurrentPrice = &last
	}

	support, resistance := metrics.SupportResistance(bars, supportResistanceWindow)
	summary.SupportLevel = support
	summary.ResistanceLevel = resistance
	if summary.CurrentPrice != nil && support != nil && resistance != nil {
		targets := metrics.PriceTargets(*summary.CurrentPrice, *support, *resistance)
		summary.PriceTargets = &targets
	}

	return summary
}

// latestMovingAverages keeps only the most recent value of each window.
func latestMovingAverages(bars []dto.DailyBar) map[int]float64 {
	cols := metrics.MovingAverages(bars, metrics.DefaultMAWindows)
	if len(cols) == 0 {
		return nil
	}
	latest := make(map[int]float64, len(cols))
	for window, col := range cols {
		v := col[len(col)-1]
		if !math.IsNaN(v) {
			latest[window] = v
		}
	}
	return latest
}
