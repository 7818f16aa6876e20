package paging_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ncobase/pagination/data/memory"
	"github.com/ncobase/pagination/data/search"
	"github.com/ncobase/pagination/ecode"
	"github.com/ncobase/pagination/paging"
	"github.com/ncobase/pagination/query"
	"github.com/ncobase/pagination/sorting"
)

type note struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Rank   int    `json:"rank"`
}

func (n note) DocumentID() string { return n.ID }

func seededClient(t *testing.T) *paging.Client[note] {
	t.Helper()
	ctx := context.Background()

	sc := search.NewClient(nil, nil, memory.New())
	c, err := paging.NewClient[note](ctx, sc, "notes", paging.WithCreateIndex(nil))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	for i := range 9 {
		status := "open"
		if i%3 == 0 {
			status = "closed"
		}
		n := note{ID: fmt.Sprintf("n%d", i), Status: status, Rank: i}
		if _, err := c.Save(ctx, n, paging.WithDocumentType("note"), paging.WithRefresh(search.RefreshTrue)); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	if _, err := c.Save(ctx, note{ID: "x1", Status: "open", Rank: 100}, paging.WithDocumentType("draft")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	return c
}

func TestMemory_FilteredTraversal(t *testing.T) {
	c := seededClient(t)
	ctx := context.Background()

	filter := query.NewFilter(query.Rules(query.NewField("status")))
	q, err := filter.Parse([]byte(`{"status": ["open"]}`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	page, err := c.Paged(ctx, 1, 4, q, sorting.By("rank", true), paging.WithDocumentType("note"))
	if err != nil {
		t.Fatalf("Paged() error = %v", err)
	}
	if page.TotalCount != 6 || page.NumberOfPages() != 2 {
		t.Fatalf("total = %d pages = %d, want 6 and 2", page.TotalCount, page.NumberOfPages())
	}

	var ranks []int
	for n, err := range page.AllData(ctx) {
		if err != nil {
			t.Fatal(err)
		}
		ranks = append(ranks, n.Rank)
	}
	want := []int{8, 7, 5, 4, 2, 1}
	if fmt.Sprint(ranks) != fmt.Sprint(want) {
		t.Errorf("ranks = %v, want %v", ranks, want)
	}
}

func TestMemory_AllAndAny(t *testing.T) {
	c := seededClient(t)
	ctx := context.Background()

	all, err := c.All(ctx, nil, sorting.By("rank", false))
	if err != nil {
		t.Fatal(err)
	}
	items, err := all.Collect()
	if err != nil {
		t.Fatal(err)
	}
	if all.TotalCount != 10 || len(items) != 10 || items[9].ID != "x1" {
		t.Errorf("All() = %d of %d", len(items), all.TotalCount)
	}

	drafts, err := c.AllRequest(ctx, &paging.Request{OrderingKey: "rank"}, nil, paging.WithDocumentType("draft"))
	if err != nil {
		t.Fatal(err)
	}
	if drafts.TotalCount != 1 {
		t.Errorf("drafts = %d, want 1", drafts.TotalCount)
	}

	missing := query.New(query.Term{Field: "status", Value: "archived"})
	if any, err := c.Any(ctx, missing); err != nil || any {
		t.Errorf("Any(archived) = %v, %v", any, err)
	}
	if any, err := c.Any(ctx, query.New(query.Missing{Field: "owner"})); err != nil || !any {
		t.Errorf("Any(owner missing) = %v, %v", any, err)
	}
}

func TestMemory_GetDelete(t *testing.T) {
	c := seededClient(t)
	ctx := context.Background()

	got, err := c.Get(ctx, "n4")
	if err != nil || got.Rank != 4 {
		t.Fatalf("Get() = %+v, %v", got, err)
	}

	deleted, err := c.Delete(ctx, "n4", paging.WithRefresh(search.RefreshTrue))
	if err != nil || deleted.ID != "n4" {
		t.Fatalf("Delete() = %+v, %v", deleted, err)
	}
	if _, err := c.Get(ctx, "n4"); !errors.Is(err, ecode.ErrNotFound) {
		t.Errorf("Get() after delete error = %v", err)
	}
	if _, err := c.Delete(ctx, "n4"); !errors.Is(err, ecode.ErrNotFound) {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestMemory_UnknownIndexIsEmpty(t *testing.T) {
	sc := search.NewClient(nil, nil, memory.New())
	c, err := paging.NewClient[note](context.Background(), sc, "absent")
	if err != nil {
		t.Fatal(err)
	}

	page, err := c.Paged(context.Background(), 1, 10, nil, sorting.By("rank", true))
	if err != nil {
		t.Fatalf("Paged() error = %v", err)
	}
	if page.TotalCount != 0 || len(page.Data) != 0 || page.HasNext() {
		t.Errorf("page = %+v", page)
	}
}
