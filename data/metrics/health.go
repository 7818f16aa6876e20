package metrics

import (
	"context"
	"sort"
	"sync"
	"time"
)

// HealthCheckTimeout bounds a single component check
const HealthCheckTimeout = 3 * time.Second

// HealthMonitor monitors search engine health
type HealthMonitor struct {
	collector  Collector
	mu         sync.RWMutex
	components map[string]HealthChecker
}

// HealthChecker interface for health checking
type HealthChecker interface {
	Check(ctx context.Context) error
	Name() string
}

// CheckFunc adapts a function to HealthChecker
type CheckFunc struct {
	ComponentName string
	Fn            func(ctx context.Context) error
}

func (f CheckFunc) Check(ctx context.Context) error { return f.Fn(ctx) }
func (f CheckFunc) Name() string                    { return f.ComponentName }

// NewHealthMonitor creates a new health monitor
func NewHealthMonitor(collector Collector) *HealthMonitor {
	if collector == nil {
		collector = NoOpCollector{}
	}
	return &HealthMonitor{
		collector:  collector,
		components: make(map[string]HealthChecker),
	}
}

// RegisterComponent registers a component for health monitoring
func (h *HealthMonitor) RegisterComponent(checker HealthChecker) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components[checker.Name()] = checker
}

// Components returns registered component names in sorted order
func (h *HealthMonitor) Components() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.components))
	for name := range h.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckAll performs health check on all registered components
func (h *HealthMonitor) CheckAll(ctx context.Context) map[string]bool {
	results := make(map[string]bool)
	for _, name := range h.Components() {
		results[name] = h.CheckComponent(ctx, name)
	}
	return results
}

// CheckComponent checks a specific component
func (h *HealthMonitor) CheckComponent(ctx context.Context, name string) bool {
	h.mu.RLock()
	checker, exists := h.components[name]
	h.mu.RUnlock()
	if !exists {
		return false
	}

	checkCtx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()

	healthy := checker.Check(checkCtx) == nil
	h.collector.HealthCheck(name, healthy)
	return healthy
}
