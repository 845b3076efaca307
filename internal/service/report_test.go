package service

import (
	"context"
	"errors"
	"testing"

	"investment-agent/config"
	"investment-agent/internal/apperrors"
	"investment-agent/internal/dto"
	"investment-agent/internal/store"
	"investment-agent/pkg/logger"
	"investment-agent/pkg/perf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStockService struct {
	summaries map[string]dto.StockSummary
	err       error
}

func (s *stubStockService) ValidateSymbol(ctx context.Context, symbol string) (dto.ValidateResult, error) {
	return dto.ValidateResult{Symbol: symbol, Valid: true}, nil
}

func (s *stubStockService) GetSummary(ctx context.Context, symbol, period string) (dto.StockSummary, error) {
	if s.err != nil {
		return dto.StockSummary{}, s.err
	}
	return s.summaries[symbol], nil
}

func (s *stubStockService) GetSnapshot(ctx context.Context, symbol, period string) (StockSnapshot, error) {
	summary, err := s.GetSummary(ctx, symbol, period)
	if err != nil {
		return StockSnapshot{}, err
	}
	return StockSnapshot{Summary: summary}, nil
}

type stubAIRepo struct {
	content string
	err     error
}

func (s *stubAIRepo) GenerateComparisonReport(ctx context.Context, summary1, summary2 dto.StockSummary) (string, error) {
	return s.content, s.err
}

func newTestReportService(t *testing.T, stocks StockService, ai *stubAIRepo) (ReportService, *store.HistoryStore) {
	t.Helper()

	log := logger.NewNop()
	history, err := store.NewHistoryStore(t.TempDir(), log)
	require.NoError(t, err)

	svc := NewReportService(&config.Config{}, log, stocks, ai, history, perf.NewCollector(log))
	return svc, history
}

func TestReportService_GenerateReport(t *testing.T) {
	stocks := &stubStockService{summaries: map[string]dto.StockSummary{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc."},
		"MSFT": {Symbol: "MSFT", Name: "Microsoft Corporation"},
	}}
	ai := &stubAIRepo{content: "AAPL has the stronger balance sheet."}
	svc, history := newTestReportService(t, stocks, ai)

	result, err := svc.GenerateReport(context.Background(), dto.ReportRequest{Symbol1: "AAPL", Symbol2: "MSFT"})
	require.NoError(t, err)

	assert.Equal(t, "AAPL vs MSFT", result.Stocks)
	assert.Equal(t, ai.content, result.Content)
	assert.False(t, result.GeneratedAt.IsZero())

	entries, err := history.Load(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "AAPL vs MSFT", entries[0].Stocks)
	assert.Equal(t, dto.AnalysisTypeComparison, entries[0].Type)
	assert.Equal(t, ai.content, entries[0].Response)
}

func TestReportService_GenerateReport_FetchError(t *testing.T) {
	stocks := &stubStockService{err: apperrors.ErrDataFetch}
	svc, history := newTestReportService(t, stocks, &stubAIRepo{content: "unused"})

	_, err := svc.GenerateReport(context.Background(), dto.ReportRequest{Symbol1: "AAPL", Symbol2: "MSFT"})
	assert.ErrorIs(t, err, apperrors.ErrDataFetch)

	entries, err := history.Load(0)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed runs are not recorded")
}

func TestReportService_GenerateReport_GeneratorError(t *testing.T) {
	stocks := &stubStockService{summaries: map[string]dto.StockSummary{
		"AAPL": {Symbol: "AAPL"},
		"MSFT": {Symbol: "MSFT"},
	}}
	ai := &stubAIRepo{err: errors.New("quota exhausted")}
	svc, history := newTestReportService(t, stocks, ai)

	_, err := svc.GenerateReport(context.Background(), dto.ReportRequest{Symbol1: "AAPL", Symbol2: "MSFT"})
	assert.Error(t, err)

	entries, loadErr := history.Load(0)
	require.NoError(t, loadErr)
	assert.Empty(t, entries)
}
