// Package export writes analysis results to files under a configured
// directory in JSON, CSV, comparison-table and narrative-report formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"investment-agent/internal/apperrors"
	"investment-agent/internal/dto"
	"investment-agent/pkg/logger"
	"investment-agent/pkg/utils"
)

// metadataVersion tags the report export envelope.
const metadataVersion = "1.0"

type exportMetadata struct {
	ExportedAt time.Time `json:"exported_at"`
	Version    string    `json:"version"`
}

type jsonEnvelope struct {
	Metadata exportMetadata `json:"metadata"`
	Analysis any            `json:"analysis"`
}

// Writer persists exports to disk and lists previously written files.
type Writer struct {
	dir string
	log *logger.Logger
	now func() time.Time
}

func NewWriter(dir string, log *logger.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: failed to create export dir: %v", apperrors.ErrExport, err)
	}
	return &Writer{dir: dir, log: log, now: time.Now}, nil
}

// WriteJSON writes data as indented JSON, exactly as given: reading the file
// back yields the exported value. An empty filename gets a timestamped
// default.
func (w *Writer) WriteJSON(data any, filename string) (string, error) {
	if filename == "" {
		filename = w.timestamped("analysis", "")
	}
	filename = ensureExt(filename, ".json")

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
	}
	return w.write(filename, payload)
}

// WriteReport wraps the analysis payload in the metadata envelope
// ({exported_at, version}) and writes it through WriteJSON. Only report
// exports carry the envelope; plain JSON exports stay unwrapped.
func (w *Writer) WriteReport(data any, filename string) (string, error) {
	if data == nil {
		return "", fmt.Errorf("%w: empty report payload", apperrors.ErrExport)
	}
	if filename == "" {
		filename = w.timestamped("report", "")
	}
	return w.WriteJSON(jsonEnvelope{
		Metadata: exportMetadata{ExportedAt: w.now(), Version: metadataVersion},
		Analysis: data,
	}, filename)
}

// WriteCSV writes a slice of flat records as CSV. Column order is the sorted
// key set of the first record; missing keys render empty. An empty record
// set is an error since a header cannot be derived.
func (w *Writer) WriteCSV(records []map[string]any, filename string) (string, error) {
	if len(records) == 0 {
		return "", fmt.Errorf("%w: no records to export", apperrors.ErrExport)
	}
	if filename == "" {
		filename = w.timestamped("analysis", "")
	}
	filename = ensureExt(filename, ".csv")

	header := make([]string, 0, len(records[0]))
	for k := range records[0] {
		header = append(header, k)
	}
	sort.Strings(header)

	var sb strings.Builder
	cw := csv.NewWriter(&sb)
	if err := cw.Write(header); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
	}
	for _, rec := range records {
		row := make([]string, len(header))
		for i, k := range header {
			if v, ok := rec[k]; ok && v != nil {
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
	}
	return w.write(filename, []byte(sb.String()))
}

// WriteComparison renders a side-by-side table as CSV: one row per metric,
// one column per symbol.
func (w *Writer) WriteComparison(table dto.ComparisonTable, filename string) (string, error) {
	if len(table.Metrics) == 0 {
		return "", fmt.Errorf("%w: empty comparison table", apperrors.ErrExport)
	}
	if filename == "" {
		filename = w.timestamped("comparison", strings.Join(table.Symbols, "_"))
	}
	filename = ensureExt(filename, ".csv")

	var sb strings.Builder
	cw := csv.NewWriter(&sb)
	if err := cw.Write(append([]string{"Metric"}, table.Symbols...)); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
	}
	for i, metric := range table.Metrics {
		row := make([]string, 0, len(table.Symbols)+1)
		row = append(row, metric)
		for _, sym := range table.Symbols {
			col := table.Columns[sym]
			if i < len(col) {
				row = append(row, col[i])
			} else {
				row = append(row, "N/A")
			}
		}
		if err := cw.Write(row); err != nil {
			return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
	}
	return w.write(filename, []byte(sb.String()))
}

// WriteMarkdown writes a narrative report as markdown with a generated-at
// header.
func (w *Writer) WriteMarkdown(content, stocks, filename string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty report content", apperrors.ErrExport)
	}
	if filename == "" {
		filename = w.timestamped("report", sanitizeStocks(stocks))
	}
	filename = ensureExt(filename, ".md")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Investment Analysis Report: %s\n\n", stocks))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", w.now().Format("2006-01-02 15:04:05")))
	sb.WriteString(content)
	sb.WriteString("\n")
	return w.write(filename, []byte(sb.String()))
}

// History lists the files in the export directory, newest first.
func (w *Writer) History() ([]dto.ExportFileInfo, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExport, err)
	}

	var files []dto.ExportFileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, dto.ExportFileInfo{
			Filename:  e.Name(),
			Path:      filepath.Join(w.dir, e.Name()),
			SizeMB:    utils.RoundTo(float64(info.Size())/(1024*1024), 4),
			CreatedAt: info.ModTime().Format(time.RFC3339),
		})
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].CreatedAt > files[j].CreatedAt
	})
	return files, nil
}

func (w *Writer) write(filename string, payload []byte) (string, error) {
	// Reject traversal in caller-supplied filenames.
	if filepath.Base(filename) != filename {
		return "", fmt.Errorf("%w: invalid filename %q", apperrors.ErrExport, filename)
	}

	path := filepath.Join(w.dir, filename)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrExport, err)
	}
	w.log.Info("wrote export file",
		logger.StringField("path", path),
		logger.IntField("bytes", len(payload)))
	return path, nil
}

func (w *Writer) timestamped(prefix, label string) string {
	ts := w.now().Format("20060102_150405")
	if label == "" {
		return fmt.Sprintf("%s_%s", prefix, ts)
	}
	return fmt.Sprintf("%s_%s_%s", prefix, label, ts)
}

func ensureExt(filename, ext string) string {
	if strings.HasSuffix(strings.ToLower(filename), ext) {
		return filename
	}
	return filename + ext
}

func sanitizeStocks(stocks string) string {
	s := strings.ReplaceAll(stocks, " vs ", "_")
	s = strings.ReplaceAll(s, ", ", "_")
	s = strings.ReplaceAll(s, ",", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
