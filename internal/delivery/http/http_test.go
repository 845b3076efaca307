package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"investment-agent/internal/dto"
	"investment-agent/internal/service"
	"investment-agent/internal/store"
	"investment-agent/pkg/cache"
	"investment-agent/pkg/logger"
	"investment-agent/pkg/perf"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStockService struct{}

func (s *stubStockService) ValidateSymbol(ctx context.Context, symbol string) (dto.ValidateResult, error) {
	return dto.ValidateResult{Symbol: strings.ToUpper(symbol), Valid: symbol == "AAPL"}, nil
}

func (s *stubStockService) GetSummary(ctx context.Context, symbol, period string) (dto.StockSummary, error) {
	return dto.StockSummary{Symbol: symbol, RSI: 55.1}, nil
}

func (s *stubStockService) GetSnapshot(ctx context.Context, symbol, period string) (service.StockSnapshot, error) {
	return service.StockSnapshot{Summary: dto.StockSummary{Symbol: symbol}}, nil
}

func newTestHandler(t *testing.T) (*HttpAPIHandler, *echo.Echo) {
	t.Helper()

	log := logger.NewNop()
	fileCache, err := cache.NewFileStore(t.TempDir(), time.Minute, log)
	require.NoError(t, err)
	history, err := store.NewHistoryStore(t.TempDir(), log)
	require.NoError(t, err)
	settings, err := store.NewSettingsStore(t.TempDir(), log)
	require.NoError(t, err)

	e := echo.New()
	handler := NewHttpAPIHandler(
		e,
		goValidator.New(),
		log,
		&service.Service{StockService: &stubStockService{}},
		fileCache,
		cache.NewInMemory(time.Minute, time.Minute),
		history,
		settings,
		perf.NewCollector(log),
	)
	handler.SetupRoutes()
	return handler, e
}

func doRequest(e *echo.Echo, method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestValidateSymbolRoute(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/stocks/AAPL/validate", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data dto.ValidateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Valid)
}

func TestGetSummaryRoute_InvalidPeriod(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/stocks/AAPL/summary?period=7Q", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummaryRoute(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/stocks/AAPL/summary?period=1Y", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data dto.StockSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "AAPL", resp.Data.Symbol)
	assert.Equal(t, 55.1, resp.Data.RSI)
}

func TestHistoryRoutes(t *testing.T) {
	handler, e := newTestHandler(t)

	entry := dto.HistoryEntry{
		Timestamp: time.Now(),
		Stocks:    "AAPL vs MSFT",
		Type:      dto.AnalysisTypeComparison,
		Response:  "report",
	}
	require.NoError(t, handler.history.Append(entry))

	rec := doRequest(e, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listResp struct {
		Data []dto.HistoryEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	assert.Len(t, listResp.Data, 1)

	rec = doRequest(e, http.MethodGet, "/api/v1/history/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var statsResp struct {
		Data dto.HistoryStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statsResp))
	assert.Equal(t, 1, statsResp.Data.TotalAnalyses)

	rec = doRequest(e, http.MethodGet, "/api/v1/history?limit=bogus", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodDelete, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)

	entries, err := handler.history.Load(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSettingsRoutes(t *testing.T) {
	_, e := newTestHandler(t)

	rec := doRequest(e, http.MethodPut, "/api/v1/settings", `{"default_period":"6M"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "6M", resp.Data["default_period"])

	rec = doRequest(e, http.MethodPut, "/api/v1/settings", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCacheRoutes(t *testing.T) {
	handler, e := newTestHandler(t)
	handler.fileCache.Set("quote_AAPL_1Y", "cached")

	rec := doRequest(e, http.MethodGet, "/api/v1/cache/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var statsResp struct {
		Data cache.Stats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statsResp))
	assert.Equal(t, 1, statsResp.Data.TotalFiles)

	rec = doRequest(e, http.MethodDelete, "/api/v1/cache", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, handler.fileCache.Stats().TotalFiles)
}

func TestPerformanceRoutes(t *testing.T) {
	handler, e := newTestHandler(t)
	handler.collector.Record("compare", 100*time.Millisecond)

	rec := doRequest(e, http.MethodGet, "/api/v1/performance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data perf.Stats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.TotalCalls)

	rec = doRequest(e, http.MethodDelete, "/api/v1/performance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, handler.collector.Stats().TotalCalls)
}
