package data_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ncobase/pagination/data"
	"github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/data/metrics"
	"github.com/ncobase/pagination/data/search"
	"github.com/ncobase/pagination/ecode"

	_ "github.com/ncobase/pagination/data/all"
)

func TestNew_MemoryEngine(t *testing.T) {
	cfg := &config.Config{Search: config.DefaultSearch()}
	cfg.Search.Memory.Enabled = true

	collector := metrics.NewSearchCollector(10)
	d, cleanup, err := data.New(context.Background(), cfg, data.WithMetricsCollector(collector))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer cleanup()

	if d.Search.GetEngine() != search.Memory {
		t.Errorf("engine = %q, want memory", d.Search.GetEngine())
	}
	if d.Paging == nil || d.Paging.DefaultPageSize != 50 {
		t.Errorf("paging = %+v, want defaults", d.Paging)
	}
	if d.Collector() != collector {
		t.Error("collector option ignored")
	}

	health := d.Health(context.Background())
	if !health[string(search.Memory)] {
		t.Errorf("health = %v", health)
	}
}

func TestNew_NoEngine(t *testing.T) {
	_, _, err := data.New(context.Background(), &config.Config{Search: config.DefaultSearch()})
	if !errors.Is(err, search.ErrNoEngineAvailable) {
		t.Errorf("New() error = %v, want ErrNoEngineAvailable", err)
	}

	bad := &config.Config{Search: config.DefaultSearch()}
	bad.Search.DefaultEngine = "solr"
	if _, _, err := data.New(context.Background(), bad); !errors.Is(err, ecode.ErrInvalidArgument) {
		t.Errorf("New(bad engine) error = %v, want ErrInvalidArgument", err)
	}

	if _, _, err := data.New(context.Background(), nil); err == nil {
		t.Error("New(nil) succeeded")
	}
}
