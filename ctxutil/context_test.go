package ctxutil

import (
	"context"
	"testing"
)

func TestEnsureTraceID(t *testing.T) {
	ctx, id := EnsureTraceID(context.Background())
	if id == "" {
		t.Fatal("expected generated trace id")
	}
	if got := GetTraceID(ctx); got != id {
		t.Errorf("expected %q, got %q", id, got)
	}

	again, same := EnsureTraceID(ctx)
	if same != id || GetTraceID(again) != id {
		t.Errorf("expected existing trace id %q to be kept, got %q", id, same)
	}
}

func TestSetTraceID(t *testing.T) {
	ctx := SetTraceID(context.Background(), "abc")
	if got := GetTraceID(ctx); got != "abc" {
		t.Errorf("expected abc, got %q", got)
	}
	if got := GetTraceID(context.Background()); got != "" {
		t.Errorf("expected empty trace id, got %q", got)
	}
}
