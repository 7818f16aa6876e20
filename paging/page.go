package paging

import (
	"context"
	"encoding/json"
	"iter"

	"github.com/ncobase/pagination/query"
	"github.com/ncobase/pagination/sorting"
)

// Page is one page of search results together with what is needed to fetch
// its neighbours. A Page is never modified after it is returned.
type Page[T any] struct {
	Data         []T
	TotalCount   int64
	Query        *query.Query
	Sort         sorting.Spec
	DocumentType string

	coords Coordinates
	client *Client[T]
}

// Coordinates returns the page number and size the page was served with
func (p *Page[T]) Coordinates() Coordinates { return p.coords }

func (p *Page[T]) PageNumber() int { return p.coords.pageNumber }

func (p *Page[T]) PageSize() int { return p.coords.pageSize }

// NumberOfPages is the page count at this page size, at least 1
func (p *Page[T]) NumberOfPages() int64 {
	size := int64(max(p.coords.pageSize, 1))
	return (p.TotalCount-1)/size + 1
}

func (p *Page[T]) HasPrevious() bool {
	return p.coords.pageNumber > 1
}

func (p *Page[T]) HasNext() bool {
	return int64(p.coords.pageNumber) < p.NumberOfPages()
}

// Previous fetches the page before p. It returns nil, nil on the first page.
func (p *Page[T]) Previous(ctx context.Context) (*Page[T], error) {
	if !p.HasPrevious() {
		return nil, nil
	}
	return p.sibling(ctx, p.coords.pageNumber-1)
}

// Next fetches the page after p. It returns nil, nil on the last page.
func (p *Page[T]) Next(ctx context.Context) (*Page[T], error) {
	if !p.HasNext() {
		return nil, nil
	}
	return p.sibling(ctx, p.coords.pageNumber+1)
}

func (p *Page[T]) sibling(ctx context.Context, pageNumber int) (*Page[T], error) {
	opts := callOptions{documentType: p.DocumentType}
	return p.client.paged(ctx, pageNumber, p.coords.pageSize, p.Query, p.Sort, opts, false)
}

// AllPages yields p followed by every later page. A failed fetch is yielded
// as the last element.
func (p *Page[T]) AllPages(ctx context.Context) iter.Seq2[*Page[T], error] {
	return func(yield func(*Page[T], error) bool) {
		if !yield(p, nil) {
			return
		}
		for page, err := range p.AllPagesAfter(ctx) {
			if !yield(page, err) {
				return
			}
		}
	}
}

// AllPagesAfter yields every page after p
func (p *Page[T]) AllPagesAfter(ctx context.Context) iter.Seq2[*Page[T], error] {
	return func(yield func(*Page[T], error) bool) {
		current := p
		for {
			next, err := current.Next(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if next == nil {
				return
			}
			if !yield(next, nil) {
				return
			}
			current = next
		}
	}
}

// AllData yields the items of p and every later page in order
func (p *Page[T]) AllData(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for page, err := range p.AllPages(ctx) {
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range page.Data {
				if !yield(item, nil) {
					return
				}
			}
		}
	}
}

func (p *Page[T]) MarshalJSON() ([]byte, error) {
	data := p.Data
	if data == nil {
		data = []T{}
	}
	return json.Marshal(struct {
		Data          []T          `json:"data"`
		TotalCount    int64        `json:"total_count"`
		PageNumber    int          `json:"page_number"`
		PageSize      int          `json:"page_size"`
		NumberOfPages int64        `json:"number_of_pages"`
		Sort          sorting.Spec `json:"sort,omitempty"`
	}{data, p.TotalCount, p.coords.pageNumber, p.coords.pageSize, p.NumberOfPages(), p.Sort})
}

// AllResponse is the lazily fetched result of Client.All
type AllResponse[T any] struct {
	TotalCount int64
	Data       iter.Seq2[T, error]
}

// EmptyResponse returns a response without documents
func EmptyResponse[T any]() *AllResponse[T] {
	return &AllResponse[T]{Data: func(func(T, error) bool) {}}
}

// Empty reports whether the response matched no documents
func (r *AllResponse[T]) Empty() bool {
	return r == nil || r.TotalCount == 0
}

// Collect fetches every document of the response
func (r *AllResponse[T]) Collect() ([]T, error) {
	items := make([]T, 0)
	if r == nil || r.Data == nil {
		return items, nil
	}
	for item, err := range r.Data {
		if err != nil {
			return items, err
		}
		items = append(items, item)
	}
	return items, nil
}
