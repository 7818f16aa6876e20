package meilisearch

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/data/search"
	"github.com/ncobase/pagination/query"
	"github.com/ncobase/pagination/sorting"
)

func TestCompileFilter(t *testing.T) {
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		q    *query.Query
		want string
	}{
		{"nil", nil, ""},
		{"match all", query.MatchAll(), ""},
		{"term", query.New(query.Term{Field: "status", Value: "open"}), `status = "open"`},
		{"escaped term", query.New(query.Term{Field: "title", Value: `say "hi"`}), `title = "say \"hi\""`},
		{"terms", query.New(query.Terms{Field: "tag", Values: []string{"a", "b"}}), `tag IN ["a", "b"]`},
		{"empty terms", query.New(query.Terms{Field: "tag"}), ""},
		{"missing", query.New(query.Missing{Field: "owner"}), `owner NOT EXISTS OR owner IS EMPTY OR owner IS NULL`},
		{"time range", query.New(query.Range{Field: "created_at", GTE: since}), "created_at >= 1704067200"},
		{"numeric range", query.New(query.Range{Field: "size", GT: 1, LTE: "2.5"}), "size > 1 AND size <= 2.5"},
		{
			"conjunction",
			query.New(query.Term{Field: "status", Value: "open"}, query.Missing{Field: "owner"}),
			`(status = "open") AND (owner NOT EXISTS OR owner IS EMPTY OR owner IS NULL)`,
		},
		{"raw expression", query.Raw(`"rating > 3"`), "rating > 3"},
		{
			"raw scoped by type",
			query.Raw(`"rating > 3"`).And(query.Term{Field: "doc_type", Value: "note"}),
			`(rating > 3) AND (doc_type = "note")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := compileFilter(tt.q)
			if err != nil {
				t.Fatalf("compileFilter() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("compileFilter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompileFilter_Errors(t *testing.T) {
	tests := []struct {
		name string
		q    *query.Query
	}{
		{"raw dsl", query.Raw(`{"match_all":{}}`)},
		{"bad range bound", query.New(query.Range{Field: "size", GT: "soon-ish"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileFilter(tt.q)
			var se *search.ServerError
			if !errors.As(err, &se) || se.Status != 400 {
				t.Fatalf("compileFilter() error = %v, want 400 server error", err)
			}
		})
	}
}

func TestCompileSort(t *testing.T) {
	if got := compileSort(nil); got != nil {
		t.Errorf("compileSort(nil) = %v, want nil", got)
	}

	got := compileSort(sorting.By("created_at", true).Then("title", false))
	want := []string{"created_at:desc", "title:asc"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("compileSort() = %v, want %v", got, want)
	}
}

func TestSearchRequest_Paging(t *testing.T) {
	aligned, err := searchRequest(&search.Request{From: 20, Size: 10})
	if err != nil {
		t.Fatalf("searchRequest() error = %v", err)
	}
	if aligned.Page != 3 || aligned.HitsPerPage != 10 || aligned.Offset != 0 || aligned.Limit != 0 {
		t.Errorf("aligned request = page %d/%d offset %d/%d", aligned.Page, aligned.HitsPerPage, aligned.Offset, aligned.Limit)
	}

	unaligned, err := searchRequest(&search.Request{From: 5, Size: 10})
	if err != nil {
		t.Fatalf("searchRequest() error = %v", err)
	}
	if unaligned.Page != 0 || unaligned.Offset != 5 || unaligned.Limit != 10 {
		t.Errorf("unaligned request = page %d offset %d limit %d", unaligned.Page, unaligned.Offset, unaligned.Limit)
	}
	if unaligned.Filter != nil {
		t.Errorf("filter = %v, want nil", unaligned.Filter)
	}
}

func TestHitID(t *testing.T) {
	if got := hitID([]byte(`{"id":"a1","title":"x"}`)); got != "a1" {
		t.Errorf("hitID() = %q, want a1", got)
	}
	if got := hitID([]byte(`{"id":42}`)); got != "42" {
		t.Errorf("hitID() = %q, want 42", got)
	}
}

func TestDriver_NotConfigured(t *testing.T) {
	d := &driver{}
	if _, err := d.Connect(t.Context(), &config.Search{Meilisearch: &config.Meilisearch{}}); !errors.Is(err, search.ErrNotConfigured) {
		t.Fatalf("Connect() error = %v, want ErrNotConfigured", err)
	}
	a, err := d.Connect(t.Context(), &config.Search{Meilisearch: &config.Meilisearch{Host: "http://localhost:7700"}})
	if err != nil || a.Type() != search.Meilisearch {
		t.Fatalf("Connect() = %v, %v", a, err)
	}
}
