package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about one ingestion run. Prometheus
// counters live in the metrics package; this is the per-run snapshot returned
// to callers and logged at completion.
type IngestionMetrics struct {
	mu             sync.RWMutex
	StartTime      time.Time
	Duration       time.Duration
	SeasonsFetched int
	TotalGames     int
	StoredGames    int
	QuoteRows      int
	Errors         int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.SeasonsFetched = 0
	m.TotalGames = 0
	m.StoredGames = 0
	m.QuoteRows = 0
	m.Errors = 0
}

// RecordSeason records one fetched season and its game counts
func (m *IngestionMetrics) RecordSeason(fetched, stored int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SeasonsFetched++
	m.TotalGames += fetched
	m.StoredGames += stored
}

// RecordQuotes records stored quote rows
func (m *IngestionMetrics) RecordQuotes(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QuoteRows += n
}

// RecordError increments error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return fmt.Sprintf(
		"IngestionMetrics{Seasons=%d, Games=%d, Stored=%d, QuoteRows=%d, Errors=%d, Duration=%v}",
		m.SeasonsFetched,
		m.TotalGames,
		m.StoredGames,
		m.QuoteRows,
		m.Errors,
		m.Duration,
	)
}
