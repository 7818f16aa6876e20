package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector interface for search layer metrics
type Collector interface {
	SearchQuery(engine string, duration time.Duration, err error)
	SearchIndex(engine, operation string, err error)
	PageServed(index string, pageNumber, items int)
	PageCorrected(index string)
	HealthCheck(component string, healthy bool)
}

// NoOpCollector implements Collector with no-op methods
type NoOpCollector struct{}

func (NoOpCollector) SearchQuery(string, time.Duration, error) {}
func (NoOpCollector) SearchIndex(string, string, error)        {}
func (NoOpCollector) PageServed(string, int, int)              {}
func (NoOpCollector) PageCorrected(string)                     {}
func (NoOpCollector) HealthCheck(string, bool)                 {}

// SlowQueryThreshold marks a search as slow
const SlowQueryThreshold = time.Second

// SearchCollector collects search layer metrics in memory
type SearchCollector struct {
	queries     atomic.Int64
	errors      atomic.Int64
	slowQueries atomic.Int64
	indexOps    atomic.Int64
	indexErrors atomic.Int64
	pages       atomic.Int64
	items       atomic.Int64
	corrections atomic.Int64

	lastQuery atomic.Value // time.Time

	healthChecks map[string]*atomic.Bool
	healthMu     sync.RWMutex

	history  []Metric
	limit    int
	historyMu sync.Mutex
}

// Metric represents a single recorded event
type Metric struct {
	Type      string    `json:"type"`
	Value     int64     `json:"value"`
	Labels    Labels    `json:"labels"`
	Timestamp time.Time `json:"timestamp"`
}

// Labels for metric categorization
type Labels map[string]string

// NewSearchCollector creates a collector keeping at most limit recent events
func NewSearchCollector(limit int) *SearchCollector {
	if limit <= 0 {
		limit = 100
	}
	c := &SearchCollector{
		healthChecks: make(map[string]*atomic.Bool),
		history:      make([]Metric, 0, limit),
		limit:        limit,
	}
	c.lastQuery.Store(time.Time{})
	return c
}

// SearchQuery records search query metrics
func (c *SearchCollector) SearchQuery(engine string, duration time.Duration, err error) {
	c.queries.Add(1)
	c.lastQuery.Store(time.Now())

	if err != nil {
		c.errors.Add(1)
	}
	if duration > SlowQueryThreshold {
		c.slowQueries.Add(1)
	}

	c.record("search_query", duration.Milliseconds(), Labels{
		"engine":  engine,
		"success": boolToString(err == nil),
		"slow":    boolToString(duration > SlowQueryThreshold),
	})
}

// SearchIndex records document and index operation metrics
func (c *SearchCollector) SearchIndex(engine, operation string, err error) {
	c.indexOps.Add(1)
	if err != nil {
		c.indexErrors.Add(1)
	}

	c.record("search_index", 1, Labels{
		"engine":    engine,
		"operation": operation,
		"success":   boolToString(err == nil),
	})
}

// PageServed records a materialized page
func (c *SearchCollector) PageServed(index string, pageNumber, items int) {
	c.pages.Add(1)
	c.items.Add(int64(items))
	c.record("page_served", int64(pageNumber), Labels{"index": index})
}

// PageCorrected records an out-of-range page request that was refetched
func (c *SearchCollector) PageCorrected(index string) {
	c.corrections.Add(1)
	c.record("page_corrected", 1, Labels{"index": index})
}

// HealthCheck records health check metrics
func (c *SearchCollector) HealthCheck(component string, healthy bool) {
	c.healthMu.Lock()
	if _, exists := c.healthChecks[component]; !exists {
		c.healthChecks[component] = &atomic.Bool{}
	}
	healthCheck := c.healthChecks[component]
	c.healthMu.Unlock()

	healthCheck.Store(healthy)

	c.record("health_check", boolToInt(healthy), Labels{
		"component": component,
	})
}

func (c *SearchCollector) record(metricType string, value int64, labels Labels) {
	m := Metric{
		Type:      metricType,
		Value:     value,
		Labels:    labels,
		Timestamp: time.Now(),
	}

	c.historyMu.Lock()
	defer c.historyMu.Unlock()
	if len(c.history) >= c.limit {
		copy(c.history, c.history[1:])
		c.history = c.history[:len(c.history)-1]
	}
	c.history = append(c.history, m)
}

// Recent returns recorded events of the given type, oldest first. Empty type returns all.
func (c *SearchCollector) Recent(metricType string) []Metric {
	c.historyMu.Lock()
	defer c.historyMu.Unlock()

	var out []Metric
	for _, m := range c.history {
		if metricType == "" || m.Type == metricType {
			out = append(out, m)
		}
	}
	return out
}

// Stats returns current statistics
func (c *SearchCollector) Stats() map[string]any {
	c.healthMu.RLock()
	healthStatus := make(map[string]bool, len(c.healthChecks))
	for component, status := range c.healthChecks {
		healthStatus[component] = status.Load()
	}
	c.healthMu.RUnlock()

	return map[string]any{
		"search": map[string]any{
			"queries":      c.queries.Load(),
			"errors":       c.errors.Load(),
			"slow_queries": c.slowQueries.Load(),
			"index_ops":    c.indexOps.Load(),
			"index_errors": c.indexErrors.Load(),
			"last_query":   c.lastQuery.Load(),
		},
		"paging": map[string]any{
			"pages":       c.pages.Load(),
			"items":       c.items.Load(),
			"corrections": c.corrections.Load(),
		},
		"health":    healthStatus,
		"timestamp": time.Now(),
	}
}

func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
