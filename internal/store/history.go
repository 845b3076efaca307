// Package store persists analysis history and user settings as flat JSON
// files. Each store serializes access with a mutex and writes through a
// temp file followed by a rename, so a crash mid-write never leaves a
// truncated file behind.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"investment-agent/internal/dto"
	"investment-agent/pkg/logger"
)

const historyFileName = "analysis_history.json"

type historyEnvelope struct {
	History     []dto.HistoryEntry `json:"history"`
	LastUpdated time.Time          `json:"last_updated"`
	Count       int                `json:"count"`
}

// HistoryStore is an append-only log of analysis runs.
type HistoryStore struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
	now  func() time.Time
}

// NewHistoryStore creates the data directory if needed. A missing history
// file is not an error; it is treated as an empty log.
func NewHistoryStore(dir string, log *logger.Logger) (*HistoryStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}
	return &HistoryStore{
		path: filepath.Join(dir, historyFileName),
		log:  log,
		now:  time.Now,
	}, nil
}

// Append adds one entry to the end of the log. A missing or corrupt file is
// replaced by a fresh log containing only the new entry.
func (s *HistoryStore) Append(entry dto.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := s.load()
	env.History = append(env.History, entry)
	env.Count = len(env.History)
	env.LastUpdated = s.now()

	if err := writeJSONAtomic(s.path, env); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	s.log.Debug("appended history entry",
		logger.StringField("stocks", entry.Stocks),
		logger.IntField("count", env.Count))
	return nil
}

// Load returns entries in append order. A positive limit keeps only the most
// recent limit entries, still oldest first; a non-positive limit returns
// everything.
func (s *HistoryStore) Load(limit int) ([]dto.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := s.load()
	entries := make([]dto.HistoryEntry, len(env.History))
	copy(entries, env.History)
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

// Clear removes the history file entirely.
func (s *HistoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Stats summarizes the log: entry count, unique symbols, per-type counts and
// the covered date range.
func (s *HistoryStore) Stats() (dto.HistoryStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	env := s.load()
	stats := dto.HistoryStats{
		TotalAnalyses: len(env.History),
		AnalysisTypes: make(map[string]int),
	}

	uniq := make(map[string]struct{})
	for _, e := range env.History {
		for _, sym := range splitStocks(e.Stocks) {
			uniq[sym] = struct{}{}
		}
		stats.AnalysisTypes[e.Type]++

		if stats.DateRange == nil {
			stats.DateRange = &dto.DateRange{Earliest: e.Timestamp, Latest: e.Timestamp}
			continue
		}
		if e.Timestamp.Before(stats.DateRange.Earliest) {
			stats.DateRange.Earliest = e.Timestamp
		}
		if e.Timestamp.After(stats.DateRange.Latest) {
			stats.DateRange.Latest = e.Timestamp
		}
	}

	stats.UniqueStocks = make([]string, 0, len(uniq))
	for sym := range uniq {
		stats.UniqueStocks = append(stats.UniqueStocks, sym)
	}
	sort.Strings(stats.UniqueStocks)
	return stats, nil
}

// load reads the envelope under the lock. Unreadable content degrades to an
// empty log so a corrupt file never blocks new analyses.
func (s *HistoryStore) load() historyEnvelope {
	var env historyEnvelope
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("failed to read history file", logger.ErrorField(err))
		}
		return env
	}
	if err := json.Unmarshal(data, &env); err != nil {
		s.log.Warn("history file is corrupt, starting fresh", logger.ErrorField(err))
		return historyEnvelope{}
	}
	return env
}

// splitStocks extracts symbols from a stored label like "AAPL vs MSFT" or
// "AAPL, MSFT".
func splitStocks(stocks string) []string {
	fields := strings.FieldsFunc(stocks, func(r rune) bool {
		return r == ','
	})

	var symbols []string
	for _, f := range fields {
		for _, part := range strings.Split(f, " vs ") {
			sym := strings.ToUpper(strings.TrimSpace(part))
			if sym != "" {
				symbols = append(symbols, sym)
			}
		}
	}
	return symbols
}

// writeJSONAtomic marshals v and replaces path in one rename.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
