package store

import (
	"testing"
	"time"

	"investment-agent/internal/dto"
	"investment-agent/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	store, err := NewHistoryStore(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	return store
}

func entryAt(ts time.Time, stocks string) dto.HistoryEntry {
	return dto.HistoryEntry{
		Timestamp: ts,
		Stocks:    stocks,
		Type:      dto.AnalysisTypeComparison,
		Response:  "report for " + stocks,
	}
}

func TestHistoryStore_AppendAndLoad(t *testing.T) {
	store := newTestHistoryStore(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(entryAt(base, "AAPL vs MSFT")))
	require.NoError(t, store.Append(entryAt(base.Add(time.Hour), "GOOG vs META")))

	entries, err := store.Load(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "AAPL vs MSFT", entries[0].Stocks, "entries come back in append order")
	assert.Equal(t, "GOOG vs META", entries[1].Stocks)

	limited, err := store.Load(1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "GOOG vs META", limited[0].Stocks, "limit keeps the most recent entries")
}

func TestHistoryStore_LoadMissingFile(t *testing.T) {
	store := newTestHistoryStore(t)

	entries, err := store.Load(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryStore_Clear(t *testing.T) {
	store := newTestHistoryStore(t)
	require.NoError(t, store.Append(entryAt(time.Now(), "AAPL vs MSFT")))

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing an empty store is not an error")

	entries, err := store.Load(0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryStore_Stats(t *testing.T) {
	store := newTestHistoryStore(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(entryAt(base, "AAPL vs MSFT")))
	require.NoError(t, store.Append(entryAt(base.Add(48*time.Hour), "aapl, GOOG")))

	stats, err := store.Stats()
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalAnalyses)
	assert.Equal(t, []string{"AAPL", "GOOG", "MSFT"}, stats.UniqueStocks)
	assert.Equal(t, 2, stats.AnalysisTypes[dto.AnalysisTypeComparison])
	require.NotNil(t, stats.DateRange)
	assert.Equal(t, base, stats.DateRange.Earliest)
	assert.Equal(t, base.Add(48*time.Hour), stats.DateRange.Latest)
}

func TestHistoryStore_StatsEmpty(t *testing.T) {
	store := newTestHistoryStore(t)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalAnalyses)
	assert.Empty(t, stats.UniqueStocks)
	assert.Nil(t, stats.DateRange)
}

func TestSettingsStore(t *testing.T) {
	store, err := NewSettingsStore(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	settings, err := store.Get()
	require.NoError(t, err)
	assert.Empty(t, settings)

	updated, err := store.Update(map[string]any{"default_period": "1Y"})
	require.NoError(t, err)
	assert.Equal(t, "1Y", updated["default_period"])

	merged, err := store.Update(map[string]any{"theme": "dark"})
	require.NoError(t, err)
	assert.Equal(t, "1Y", merged["default_period"], "existing keys survive a merge")
	assert.Equal(t, "dark", merged["theme"])
}
