// Package stats summarises recorded searches and the process serving them
package stats

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/heliomed/nearbycare/internal/config"
	"github.com/jmoiron/sqlx"
)

type Stats struct {
	Timestamp time.Time     `json:"timestamp"`
	Searches  SearchStats   `json:"searches"`
	Database  DatabaseStats `json:"database"`
	Runtime   RuntimeStats  `json:"runtime"`
}

// SearchStats aggregates the recorded search history
type SearchStats struct {
	Total           int64            `json:"total"`
	ByStatus        map[string]int64 `json:"by_status"`
	ByErrorKind     map[string]int64 `json:"by_error_kind"`
	AvgResults      float64          `json:"avg_results"`
	AvgDurationMs   float64          `json:"avg_duration_ms"`
	DroppedFeatures int64            `json:"dropped_features"`
}

type DatabaseStats struct {
	Type      string `json:"type"`
	SizeBytes int64  `json:"size_bytes"`
}

type RuntimeStats struct {
	NumGoroutines  int    `json:"num_goroutines"`
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	UptimeSeconds  int64  `json:"uptime_seconds"`
}

// Collector reads statistics from the search_history table
type Collector struct {
	db        *sqlx.DB
	config    config.DBConfig
	startTime time.Time
}

func NewCollector(db *sqlx.DB, cfg config.DBConfig) *Collector {
	return &Collector{
		db:        db,
		config:    cfg,
		startTime: time.Now(),
	}
}

func (c *Collector) Collect(ctx context.Context) (*Stats, error) {
	searches, err := c.collectSearchStats(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Timestamp: time.Now(),
		Searches:  *searches,
		Database:  c.collectDatabaseStats(ctx),
		Runtime:   c.collectRuntimeStats(),
	}, nil
}

type groupCount struct {
	Label string `db:"label"`
	Count int64  `db:"count"`
}

type searchAggregates struct {
	AvgResults    float64 `db:"avg_results"`
	AvgDurationMs float64 `db:"avg_duration_ms"`
	Dropped       int64   `db:"dropped"`
}

func (c *Collector) collectSearchStats(ctx context.Context) (*SearchStats, error) {
	stats := &SearchStats{
		ByStatus:    make(map[string]int64),
		ByErrorKind: make(map[string]int64),
	}

	var byStatus []groupCount
	err := c.db.SelectContext(ctx, &byStatus,
		`SELECT status AS label, COUNT(*) AS count FROM search_history GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count searches: %w", err)
	}
	for _, g := range byStatus {
		stats.ByStatus[g.Label] = g.Count
		stats.Total += g.Count
	}

	var byKind []groupCount
	err = c.db.SelectContext(ctx, &byKind, `
		SELECT error_kind AS label, COUNT(*) AS count
		FROM search_history
		WHERE error_kind IS NOT NULL
		GROUP BY error_kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to count search errors: %w", err)
	}
	for _, g := range byKind {
		stats.ByErrorKind[g.Label] = g.Count
	}

	var agg searchAggregates
	err = c.db.GetContext(ctx, &agg, `
		SELECT
			COALESCE(AVG(result_count), 0) AS avg_results,
			COALESCE(AVG(duration_ms), 0) AS avg_duration_ms,
			COALESCE(SUM(dropped_duplicates + dropped_unnamed + dropped_no_coords), 0) AS dropped
		FROM search_history`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate searches: %w", err)
	}
	stats.AvgResults = agg.AvgResults
	stats.AvgDurationMs = agg.AvgDurationMs
	stats.DroppedFeatures = agg.Dropped

	return stats, nil
}

// collectDatabaseStats is best-effort; the size query is not available everywhere
func (c *Collector) collectDatabaseStats(ctx context.Context) DatabaseStats {
	stats := DatabaseStats{Type: string(c.config.Type)}

	query := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
	if c.config.Type == config.DBTypePostgreSQL {
		query = "SELECT pg_total_relation_size('search_history')"
	}
	_ = c.db.GetContext(ctx, &stats.SizeBytes, query)

	return stats
}

func (c *Collector) collectRuntimeStats() RuntimeStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return RuntimeStats{
		NumGoroutines:  runtime.NumGoroutine(),
		HeapAllocBytes: m.HeapAlloc,
		UptimeSeconds:  int64(time.Since(c.startTime).Seconds()),
	}
}
