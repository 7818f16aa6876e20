package metrics

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSearchCollector_Stats(t *testing.T) {
	c := NewSearchCollector(10)
	c.SearchQuery("memory", 10*time.Millisecond, nil)
	c.SearchQuery("memory", 2*time.Second, errors.New("boom"))
	c.SearchIndex("memory", "index", nil)
	c.PageServed("books", 1, 50)
	c.PageServed("books", 2, 7)
	c.PageCorrected("books")

	stats := c.Stats()
	search := stats["search"].(map[string]any)
	if search["queries"].(int64) != 2 || search["errors"].(int64) != 1 || search["slow_queries"].(int64) != 1 {
		t.Errorf("unexpected search stats %v", search)
	}
	paging := stats["paging"].(map[string]any)
	if paging["pages"].(int64) != 2 || paging["items"].(int64) != 57 || paging["corrections"].(int64) != 1 {
		t.Errorf("unexpected paging stats %v", paging)
	}
	if got := len(c.Recent("page_served")); got != 2 {
		t.Errorf("expected 2 page events, got %d", got)
	}
}

func TestSearchCollector_HistoryLimit(t *testing.T) {
	c := NewSearchCollector(3)
	for i := 1; i <= 5; i++ {
		c.PageServed("books", i, 1)
	}
	recent := c.Recent("")
	if len(recent) != 3 {
		t.Fatalf("expected 3 events, got %d", len(recent))
	}
	if recent[0].Value != 3 || recent[2].Value != 5 {
		t.Errorf("expected pages 3..5, got %d..%d", recent[0].Value, recent[2].Value)
	}
}

func TestHealthMonitor(t *testing.T) {
	c := NewSearchCollector(10)
	h := NewHealthMonitor(c)
	h.RegisterComponent(CheckFunc{ComponentName: "up", Fn: func(context.Context) error { return nil }})
	h.RegisterComponent(CheckFunc{ComponentName: "down", Fn: func(context.Context) error { return errors.New("down") }})

	results := h.CheckAll(context.Background())
	if !results["up"] || results["down"] {
		t.Errorf("unexpected results %v", results)
	}
	if h.CheckComponent(context.Background(), "missing") {
		t.Error("unknown component must be unhealthy")
	}
	health := c.Stats()["health"].(map[string]bool)
	if !health["up"] || health["down"] {
		t.Errorf("unexpected recorded health %v", health)
	}
}
