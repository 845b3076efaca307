package service

import (
	"encoding/json"
	"fmt"

	"investment-agent/internal/apperrors"
	"investment-agent/internal/dto"
	"investment-agent/internal/export"
	"investment-agent/pkg/logger"
)

type ExportService interface {
	Export(req dto.ExportRequest) (string, error)
	History() ([]dto.ExportFileInfo, error)
}

type exportService struct {
	log    *logger.Logger
	writer *export.Writer
}

func NewExportService(log *logger.Logger, writer *export.Writer) ExportService {
	return &exportService{log: log, writer: writer}
}

// Export decodes the payload according to the requested format and writes
// the file, returning its path.
func (s *exportService) Export(req dto.ExportRequest) (string, error) {
	switch req.Format {
	case "json":
		var data any
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return "", fmt.Errorf("%w: invalid json payload: %v", apperrors.ErrExport, err)
		}
		return s.writer.WriteJSON(data, req.Filename)

	case "csv":
		var records []map[string]any
		if err := json.Unmarshal(req.Data, &records); err != nil {
			return "", fmt.Errorf("%w: csv export expects an array of flat records: %v", apperrors.ErrExport, err)
		}
		return s.writer.WriteCSV(records, req.Filename)

	case "comparison":
		var table dto.ComparisonTable
		if err := json.Unmarshal(req.Data, &table); err != nil {
			return "", fmt.Errorf("%w: comparison export expects a comparison table: %v", apperrors.ErrExport, err)
		}
		return s.writer.WriteComparison(table, req.Filename)

	case "report":
		var data any
		if err := json.Unmarshal(req.Data, &data); err != nil {
			return "", fmt.Errorf("%w: invalid report payload: %v", apperrors.ErrExport, err)
		}
		return s.writer.WriteReport(data, req.Filename)

	case "markdown":
		var report dto.ReportResult
		if err := json.Unmarshal(req.Data, &report); err != nil {
			return "", fmt.Errorf("%w: markdown export expects a report payload: %v", apperrors.ErrExport, err)
		}
		return s.writer.WriteMarkdown(report.Content, report.Stocks, req.Filename)

	default:
		return "", fmt.Errorf("%w: unsupported format %q", apperrors.ErrExport, req.Format)
	}
}

func (s *exportService) History() ([]dto.ExportFileInfo, error) {
	return s.writer.History()
}
