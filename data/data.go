// Package data opens the search layer described by configuration.
package data

import (
	"context"
	"errors"
	"fmt"

	"github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/data/metrics"
	"github.com/ncobase/pagination/data/search"
	"github.com/ncobase/pagination/validator"
)

// Data holds the search client together with its paging defaults
type Data struct {
	Search *search.Client
	Paging *config.Paging

	collector     metrics.Collector
	healthMonitor *metrics.HealthMonitor
}

// Option function type for configuring Data
type Option func(*Data)

// WithMetricsCollector sets the metrics collector
func WithMetricsCollector(collector metrics.Collector) Option {
	return func(d *Data) {
		if collector != nil {
			d.collector = collector
		}
	}
}

// New connects every configured search engine. Drivers must be registered
// beforehand, usually by importing data/all.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Data, func(), error) {
	if cfg == nil {
		return nil, nil, errors.New("data: config is nil")
	}
	if err := validator.Struct(cfg); err != nil {
		return nil, nil, fmt.Errorf("data: invalid config: %w", err)
	}

	d := &Data{Paging: cfg.Paging, collector: metrics.NoOpCollector{}}
	for _, opt := range opts {
		opt(d)
	}
	if d.Paging == nil {
		d.Paging = config.DefaultPaging()
	}

	client, err := search.Open(ctx, cfg.Search, d.collector)
	if err != nil {
		return nil, nil, fmt.Errorf("data: %w", err)
	}
	d.Search = client

	d.healthMonitor = metrics.NewHealthMonitor(d.collector)
	for _, checker := range client.Checkers() {
		d.healthMonitor.RegisterComponent(checker)
	}

	cleanup := func() {
		d.Search = nil
	}
	return d, cleanup, nil
}

// Collector returns the metrics collector
func (d *Data) Collector() metrics.Collector {
	return d.collector
}

// Health reports the reachability of every connected engine
func (d *Data) Health(ctx context.Context) map[string]bool {
	if d.healthMonitor == nil {
		return nil
	}
	return d.healthMonitor.CheckAll(ctx)
}
