package perf

import (
	"sync"
	"time"

	"investment-agent/pkg/logger"
)

// Sample is one recorded operation timing.
type Sample struct {
	Operation string    `json:"operation"`
	Duration  float64   `json:"duration_seconds"`
	Timestamp time.Time `json:"timestamp"`
}

// OperationStats aggregates samples for a single operation.
type OperationStats struct {
	Count           int     `json:"count"`
	TotalDuration   float64 `json:"total_duration"`
	AverageDuration float64 `json:"average_duration"`
	MinDuration     float64 `json:"min_duration"`
	MaxDuration     float64 `json:"max_duration"`
}

// Stats is the collector-wide view.
type Stats struct {
	TotalCalls      int                       `json:"total_calls"`
	AverageDuration float64                   `json:"average_duration"`
	MinDuration     float64                   `json:"min_duration"`
	MaxDuration     float64                   `json:"max_duration"`
	Operations      map[string]OperationStats `json:"operations"`
}

// Collector accumulates operation timings. It is injected into call sites
// rather than held as package state so callers control its lifetime.
type Collector struct {
	log *logger.Logger

	mu      sync.Mutex
	samples []Sample
}

func NewCollector(log *logger.Logger) *Collector {
	return &Collector{log: log}
}

// Record appends one timing sample and logs it.
func (c *Collector) Record(operation string, duration time.Duration) {
	c.mu.Lock()
	c.samples = append(c.samples, Sample{
		Operation: operation,
		Duration:  duration.Seconds(),
		Timestamp: time.Now(),
	})
	c.mu.Unlock()

	c.log.Debug("Operation timed",
		logger.StringField("operation", operation),
		logger.DurationField("duration", duration),
	)
}

// StartTimer returns a Timer whose Stop records the elapsed duration.
func (c *Collector) StartTimer(operation string) *Timer {
	return &Timer{collector: c, operation: operation, start: time.Now()}
}

// Stats aggregates all recorded samples.
func (c *Collector) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{Operations: make(map[string]OperationStats)}
	if len(c.samples) == 0 {
		return stats
	}

	var total float64
	stats.MinDuration = c.samples[0].Duration
	for _, s := range c.samples {
		total += s.Duration
		if s.Duration < stats.MinDuration {
			stats.MinDuration = s.Duration
		}
		if s.Duration > stats.MaxDuration {
			stats.MaxDuration = s.Duration
		}

		op := stats.Operations[s.Operation]
		op.Count++
		op.TotalDuration += s.Duration
		if op.Count == 1 || s.Duration < op.MinDuration {
			op.MinDuration = s.Duration
		}
		if s.Duration > op.MaxDuration {
			op.MaxDuration = s.Duration
		}
		stats.Operations[s.Operation] = op
	}

	stats.TotalCalls = len(c.samples)
	stats.AverageDuration = total / float64(len(c.samples))
	for name, op := range stats.Operations {
		op.AverageDuration = op.TotalDuration / float64(op.Count)
		stats.Operations[name] = op
	}
	return stats
}

// Reset discards all recorded samples.
func (c *Collector) Reset() {
	c.mu.Lock()
	c.samples = nil
	c.mu.Unlock()
	c.log.Info("Performance metrics reset")
}

// Timer measures one operation. Stop is safe to call exactly once.
type Timer struct {
	collector *Collector
	operation string
	start     time.Time
}

func (t *Timer) Stop() {
	t.collector.Record(t.operation, time.Since(t.start))
}
