package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"investment-agent/internal/apperrors"
	"investment-agent/internal/dto"
	"investment-agent/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWriter(t *testing.T) *Writer {
	t.Helper()
	w, err := NewWriter(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	w.now = func() time.Time {
		return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return w
}

func TestWriter_WriteJSON(t *testing.T) {
	w := newTestWriter(t)

	path, err := w.WriteJSON(map[string]any{"symbol": "AAPL"}, "")
	require.NoError(t, err)
	assert.Equal(t, "analysis_20250301_120000.json", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	// The file round-trips: reading it back yields the exported value, with
	// no wrapper around it.
	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, map[string]any{"symbol": "AAPL"}, got)
}

func TestWriter_WriteReport(t *testing.T) {
	w := newTestWriter(t)

	path, err := w.WriteReport(map[string]any{"stocks": "AAPL vs MSFT", "content": "AAPL wins."}, "")
	require.NoError(t, err)
	assert.Equal(t, "report_20250301_120000.json", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var env struct {
		Metadata struct {
			ExportedAt time.Time `json:"exported_at"`
			Version    string    `json:"version"`
		} `json:"metadata"`
		Analysis map[string]any `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, "1.0", env.Metadata.Version)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), env.Metadata.ExportedAt)
	assert.Equal(t, "AAPL wins.", env.Analysis["content"])
}

func TestWriter_WriteReport_Empty(t *testing.T) {
	w := newTestWriter(t)

	_, err := w.WriteReport(nil, "")
	assert.ErrorIs(t, err, apperrors.ErrExport)
}

func TestWriter_WriteJSON_CustomFilename(t *testing.T) {
	w := newTestWriter(t)

	path, err := w.WriteJSON("data", "my_analysis")
	require.NoError(t, err)
	assert.Equal(t, "my_analysis.json", filepath.Base(path))
}

func TestWriter_WriteJSON_RejectsTraversal(t *testing.T) {
	w := newTestWriter(t)

	_, err := w.WriteJSON("data", "../escape.json")
	assert.ErrorIs(t, err, apperrors.ErrExport)
}

func TestWriter_WriteCSV(t *testing.T) {
	w := newTestWriter(t)

	records := []map[string]any{
		{"symbol": "AAPL", "price": 123.45},
		{"symbol": "MSFT", "price": 456.78},
	}
	path, err := w.WriteCSV(records, "prices")
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "price,symbol", lines[0], "columns are sorted")
	assert.Equal(t, "123.45,AAPL", lines[1])
}

func TestWriter_WriteCSV_Empty(t *testing.T) {
	w := newTestWriter(t)

	_, err := w.WriteCSV(nil, "empty")
	assert.ErrorIs(t, err, apperrors.ErrExport)
}

func TestWriter_WriteComparison(t *testing.T) {
	w := newTestWriter(t)

	table := dto.ComparisonTable{
		Metrics: []string{"Current Price", "RSI"},
		Symbols: []string{"AAPL", "MSFT"},
		Columns: map[string][]string{
			"AAPL": {"$123.45", "55.10"},
			"MSFT": {"$456.78"},
		},
	}
	path, err := w.WriteComparison(table, "")
	require.NoError(t, err)
	assert.Equal(t, "comparison_AAPL_MSFT_20250301_120000.csv", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Metric,AAPL,MSFT", lines[0])
	assert.Equal(t, "Current Price,$123.45,$456.78", lines[1])
	assert.Equal(t, "RSI,55.10,N/A", lines[2], "short columns pad with N/A")
}

func TestWriter_WriteMarkdown(t *testing.T) {
	w := newTestWriter(t)

	path, err := w.WriteMarkdown("AAPL looks stronger on fundamentals.", "AAPL vs MSFT", "")
	require.NoError(t, err)
	assert.Equal(t, "report_AAPL_MSFT_20250301_120000.md", filepath.Base(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "# Investment Analysis Report: AAPL vs MSFT")
	assert.Contains(t, content, "AAPL looks stronger on fundamentals.")
}

func TestWriter_WriteMarkdown_Empty(t *testing.T) {
	w := newTestWriter(t)

	_, err := w.WriteMarkdown("   ", "AAPL vs MSFT", "")
	assert.ErrorIs(t, err, apperrors.ErrExport)
}

func TestWriter_History(t *testing.T) {
	w := newTestWriter(t)

	_, err := w.WriteJSON("one", "first")
	require.NoError(t, err)
	_, err = w.WriteMarkdown("content", "AAPL vs MSFT", "second")
	require.NoError(t, err)

	files, err := w.History()
	require.NoError(t, err)
	require.Len(t, files, 2)
	names := []string{files[0].Filename, files[1].Filename}
	assert.Contains(t, names, "first.json")
	assert.Contains(t, names, "second.md")
}
