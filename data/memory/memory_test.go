package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/data/search"
	"github.com/ncobase/pagination/query"
	"github.com/ncobase/pagination/sorting"
)

func seed(t *testing.T, a *Adapter, docs ...map[string]any) {
	t.Helper()
	for i, doc := range docs {
		id, _ := doc["id"].(string)
		if id == "" {
			id = string(rune('a' + i))
		}
		if err := a.Index(context.Background(), &search.IndexRequest{Index: "books", DocumentID: id, Document: doc}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func ids(resp *search.Response) []string {
	out := make([]string, len(resp.Hits))
	for i, h := range resp.Hits {
		out[i] = h.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearch_Clauses(t *testing.T) {
	a := New()
	seed(t, a,
		map[string]any{"id": "1", "author": "ann", "tags": []any{"x", "y"}, "year": 2001},
		map[string]any{"id": "2", "author": "bob", "tags": []any{}, "year": 2005},
		map[string]any{"id": "3", "author": "cat", "year": 2010},
	)

	tests := []struct {
		name string
		q    *query.Query
		want []string
	}{
		{"match all", query.MatchAll(), []string{"1", "2", "3"}},
		{"term", query.New(query.Term{Field: "author", Value: "bob"}), []string{"2"}},
		{"numeric term", query.New(query.Term{Field: "year", Value: "2010"}), []string{"3"}},
		{"terms", query.New(query.Terms{Field: "author", Values: []string{"ann", "cat"}}), []string{"1", "3"}},
		{"terms on array", query.New(query.Terms{Field: "tags", Values: []string{"y"}}), []string{"1"}},
		{"missing", query.New(query.Missing{Field: "tags"}), []string{"2", "3"}},
		{"range", query.New(query.Range{Field: "year", GT: 2001, LT: 2010}), []string{"2"}},
		{"conjunction", query.New(query.Missing{Field: "tags"}, query.Term{Field: "author", Value: "cat"}), []string{"3"}},
		{"raw", query.Raw(`{"bool":{"should":[{"term":{"author":"ann"}},{"term":{"author":"bob"}}]}}`), []string{"1", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := a.Search(context.Background(), &search.Request{Index: "books", Query: tt.q, Size: 10})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := ids(resp); !equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if resp.Total != int64(len(tt.want)) {
				t.Errorf("expected total %d, got %d", len(tt.want), resp.Total)
			}
		})
	}
}

func TestSearch_DateRange(t *testing.T) {
	a := New()
	seed(t, a,
		map[string]any{"id": "old", "at": "2020-01-01T00:00:00Z"},
		map[string]any{"id": "new", "at": "2024-06-01T00:00:00Z"},
	)
	since := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	resp, err := a.Search(context.Background(), &search.Request{Index: "books", Query: query.New(query.Range{Field: "at", GT: since}), Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(resp); !equal(got, []string{"new"}) {
		t.Errorf("expected [new], got %v", got)
	}
}

func TestSearch_SortAndSlice(t *testing.T) {
	a := New()
	seed(t, a,
		map[string]any{"id": "1", "n": 3, "g": "b"},
		map[string]any{"id": "2", "n": 1, "g": "a"},
		map[string]any{"id": "3", "g": "a"},
		map[string]any{"id": "4", "n": 2, "g": "b"},
	)

	resp, err := a.Search(context.Background(), &search.Request{Index: "books", Sort: sorting.By("n", false), Size: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(resp); !equal(got, []string{"2", "4", "1", "3"}) {
		t.Errorf("ascending: got %v", got)
	}

	resp, _ = a.Search(context.Background(), &search.Request{Index: "books", Sort: sorting.By("n", true), Size: 10})
	if got := ids(resp); !equal(got, []string{"1", "4", "2", "3"}) {
		t.Errorf("descending keeps missing last: got %v", got)
	}

	resp, _ = a.Search(context.Background(), &search.Request{Index: "books", Sort: sorting.By("g", false).Then("n", true), From: 1, Size: 2})
	if got := ids(resp); !equal(got, []string{"3", "1"}) {
		t.Errorf("multi key slice: got %v", got)
	}
	if resp.Total != 4 {
		t.Errorf("expected total 4, got %d", resp.Total)
	}

	resp, _ = a.Search(context.Background(), &search.Request{Index: "books", From: 10, Size: 2})
	if len(resp.Hits) != 0 || resp.Total != 4 {
		t.Errorf("past the end: %+v", resp)
	}
}

func TestSearch_Errors(t *testing.T) {
	a := New()
	_, err := a.Search(context.Background(), &search.Request{Index: "nope"})
	if !search.IsNotFound(err) || !errors.Is(err, search.ErrIndexNotFound) {
		t.Errorf("expected index not found, got %v", err)
	}

	seed(t, a, map[string]any{"id": "1"})
	_, err = a.Search(context.Background(), &search.Request{Index: "books", Query: query.Raw(`{"match":{"a":"b"}}`)})
	var se *search.ServerError
	if !errors.As(err, &se) || se.Type != "parsing_exception" {
		t.Errorf("expected parsing exception, got %v", err)
	}
}

func TestDocuments(t *testing.T) {
	ctx := context.Background()
	a := New()

	if err := a.Index(ctx, &search.IndexRequest{Index: "books", Document: map[string]any{"title": "t"}}); err != nil {
		t.Fatal(err)
	}
	if a.Count("books") != 1 {
		t.Fatalf("expected generated id document")
	}
	if err := a.Index(ctx, &search.IndexRequest{Index: "books", Document: "scalar"}); err == nil {
		t.Error("expected error for non object document")
	}

	seed(t, a, map[string]any{"id": "x", "title": "x"})
	got, err := a.Get(ctx, "books", "x")
	if err != nil || !got.Found {
		t.Fatalf("expected document, got %+v %v", got, err)
	}
	var body map[string]any
	_ = json.Unmarshal(got.Source, &body)
	if body["title"] != "x" {
		t.Errorf("unexpected source %s", got.Source)
	}

	if err := a.Delete(ctx, "books", "x", search.RefreshTrue); err != nil {
		t.Fatal(err)
	}
	if got, _ := a.Get(ctx, "books", "x"); got.Found {
		t.Error("expected deleted document to be gone")
	}
	if err := a.Delete(ctx, "books", "x", search.RefreshTrue); !search.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCreateIndex(t *testing.T) {
	ctx := context.Background()
	a := New()
	if err := a.CreateIndex(ctx, "books", nil); err != nil {
		t.Fatal(err)
	}
	if ok, _ := a.IndexExists(ctx, "books"); !ok {
		t.Error("expected index to exist")
	}
	var se *search.ServerError
	if err := a.CreateIndex(ctx, "books", nil); !errors.As(err, &se) || se.Type != "resource_already_exists_exception" {
		t.Errorf("expected already exists, got %v", err)
	}
}

func TestDriver(t *testing.T) {
	d, err := search.GetDriver(search.Memory)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.Connect(context.Background(), config.DefaultSearch()); !errors.Is(err, search.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}

	cfg := config.DefaultSearch()
	cfg.Memory.Enabled = true
	client, err := search.Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if client.GetEngine() != search.Memory {
		t.Errorf("expected memory engine, got %s", client.GetEngine())
	}
}
