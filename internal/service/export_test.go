package service

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"investment-agent/internal/apperrors"
	"investment-agent/internal/dto"
	"investment-agent/internal/export"
	"investment-agent/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExportService(t *testing.T) ExportService {
	t.Helper()
	writer, err := export.NewWriter(t.TempDir(), logger.NewNop())
	require.NoError(t, err)
	return NewExportService(logger.NewNop(), writer)
}

func TestExportService_Export(t *testing.T) {
	svc := newTestExportService(t)

	tests := []struct {
		name     string
		req      dto.ExportRequest
		wantName string
	}{
		{
			name: "json",
			req: dto.ExportRequest{
				Format:   "json",
				Filename: "analysis",
				Data:     json.RawMessage(`{"symbol":"AAPL"}`),
			},
			wantName: "analysis.json",
		},
		{
			name: "csv",
			req: dto.ExportRequest{
				Format:   "csv",
				Filename: "rows",
				Data:     json.RawMessage(`[{"symbol":"AAPL","price":1.5}]`),
			},
			wantName: "rows.csv",
		},
		{
			name: "comparison",
			req: dto.ExportRequest{
				Format:   "comparison",
				Filename: "table",
				Data:     json.RawMessage(`{"metrics":["RSI"],"symbols":["AAPL"],"columns":{"AAPL":["55.10"]}}`),
			},
			wantName: "table.csv",
		},
		{
			name: "report",
			req: dto.ExportRequest{
				Format:   "report",
				Filename: "verdict",
				Data:     json.RawMessage(`{"stocks":"AAPL vs MSFT","content":"AAPL wins."}`),
			},
			wantName: "verdict.json",
		},
		{
			name: "markdown",
			req: dto.ExportRequest{
				Format:   "markdown",
				Filename: "notes",
				Data:     json.RawMessage(`{"stocks":"AAPL vs MSFT","content":"AAPL wins."}`),
			},
			wantName: "notes.md",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := svc.Export(tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, filepath.Base(path))
		})
	}

	files, err := svc.History()
	require.NoError(t, err)
	assert.Len(t, files, len(tests))
}

func TestExportService_Export_BadPayload(t *testing.T) {
	svc := newTestExportService(t)

	_, err := svc.Export(dto.ExportRequest{
		Format: "csv",
		Data:   json.RawMessage(`{"not":"an array"}`),
	})
	assert.ErrorIs(t, err, apperrors.ErrExport)

	_, err = svc.Export(dto.ExportRequest{
		Format: "yaml",
		Data:   json.RawMessage(`{}`),
	})
	assert.ErrorIs(t, err, apperrors.ErrExport)
}
