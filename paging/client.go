package paging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/ncobase/pagination/data/metrics"
	"github.com/ncobase/pagination/data/search"
	"github.com/ncobase/pagination/ecode"
	"github.com/ncobase/pagination/logging/logger"
	"github.com/ncobase/pagination/query"
	"github.com/ncobase/pagination/sorting"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ncobase/pagination/paging"

// Backend is the search backend a Client pages over. *search.Client
// implements it.
type Backend interface {
	Search(ctx context.Context, req *search.Request) (*search.Response, error)
	Get(ctx context.Context, index, id string) (*search.GetResponse, error)
	Index(ctx context.Context, req *search.IndexRequest) error
	Delete(ctx context.Context, index, id string, refresh search.Refresh) error
	CreateIndex(ctx context.Context, index string, schema *search.Schema) error
}

// Identifier is implemented by documents that carry their own id
type Identifier interface {
	DocumentID() string
}

// Client pages over the documents of one index, decoding them as T
type Client[T any] struct {
	backend         Backend
	index           string
	defaultPageSize int
	maxPageSize     int
	collector       metrics.Collector
	tracer          trace.Tracer
}

// NewClient creates a client over index
func NewClient[T any](ctx context.Context, backend Backend, index string, opts ...Option) (*Client[T], error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is nil", ecode.ErrInvalidArgument)
	}
	if index == "" {
		return nil, fmt.Errorf("%w: %s", ecode.ErrInvalidArgument, ecode.FieldIsEmpty("index"))
	}

	o := clientOptions{
		defaultPageSize: DefaultPageSize,
		maxPageSize:     MaxPageSize,
		collector:       metrics.NoOpCollector{},
		tracer:          otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if o.createIndex {
		if err := backend.CreateIndex(ctx, index, o.schema); err != nil && !ecode.IsAlreadyExists(err.Error()) {
			return nil, backendError(err)
		}
	}

	return &Client[T]{
		backend:         backend,
		index:           index,
		defaultPageSize: o.defaultPageSize,
		maxPageSize:     o.maxPageSize,
		collector:       o.collector,
		tracer:          o.tracer,
	}, nil
}

// Index returns the index the client pages over
func (c *Client[T]) Index() string {
	return c.index
}

// normalize applies the page number and size defaults
func (c *Client[T]) normalize(pageNumber, pageSize int) Coordinates {
	pageNumber = max(DefaultPageNumber, pageNumber)
	if pageSize <= 0 {
		pageSize = c.defaultPageSize
	}
	pageSize = min(pageSize, c.maxPageSize)
	// keeps the item offsets within int
	pageNumber = min(pageNumber, math.MaxInt/pageSize)
	return Coordinates{pageNumber: pageNumber, pageSize: pageSize}
}

// Paged returns page pageNumber of pageSize items matching q in sort order.
// A nil q matches every document. A page starting beyond the match count is
// answered with page 1 at the default size.
func (c *Client[T]) Paged(ctx context.Context, pageNumber, pageSize int, q *query.Query, sort sorting.Spec, opts ...CallOption) (*Page[T], error) {
	return c.paged(ctx, pageNumber, pageSize, q, sort, newCallOptions(opts), true)
}

func (c *Client[T]) paged(ctx context.Context, pageNumber, pageSize int, q *query.Query, sort sorting.Spec, o callOptions, correct bool) (*Page[T], error) {
	coords := c.normalize(pageNumber, pageSize)
	if q == nil {
		q = query.MatchAll()
	}

	ctx, span := c.tracer.Start(ctx, "paging.Paged", trace.WithAttributes(
		attribute.String("paging.index", c.index),
		attribute.Int("paging.page_number", coords.pageNumber),
		attribute.Int("paging.page_size", coords.pageSize),
		attribute.StringSlice("paging.sort", sort.Fields()),
	))
	defer span.End()

	from := coords.StartItemIndex()
	logger.Debugf(ctx, "paging search index=%s from=%d size=%d", c.index, from, coords.pageSize)

	resp, err := c.backend.Search(ctx, &search.Request{
		Index:        c.index,
		DocumentType: o.documentType,
		Query:        q,
		Sort:         sort,
		From:         from,
		Size:         coords.pageSize,
	})
	if err != nil {
		if !search.IsBenign(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Errorf(ctx, "paging search on %s failed: %v", c.index, err)
			return nil, backendError(err)
		}
		logger.Warnf(ctx, "paging search on %s degraded: %v", c.index, err)
	}

	items, total, err := decodeHits[T](resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	page := &Page[T]{
		Data:         items,
		TotalCount:   total,
		Query:        q,
		Sort:         sort,
		DocumentType: o.documentType,
		coords:       coords,
		client:       c,
	}

	if correct && int64(from) > total {
		logger.Infof(ctx, "page %d of %s is past the last page %d, serving page %d",
			coords.pageNumber, c.index, page.NumberOfPages(), DefaultPageNumber)
		c.collector.PageCorrected(c.index)
		span.SetAttributes(attribute.Bool("paging.corrected", true))
		return c.paged(ctx, 0, 0, q, sort, o, false)
	}

	span.SetAttributes(
		attribute.Int64("paging.total_count", total),
		attribute.Int("paging.items", len(items)),
	)
	c.collector.PageServed(c.index, coords.pageNumber, len(items))
	return page, nil
}

func decodeHits[T any](resp *search.Response) ([]T, int64, error) {
	if resp == nil {
		return []T{}, 0, nil
	}
	items := make([]T, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		var item T
		if err := json.Unmarshal(hit.Source, &item); err != nil {
			return nil, 0, ecode.ParseError("document "+hit.ID, err)
		}
		items = append(items, item)
	}
	return items, resp.Total, nil
}

// PagedRequest pages with the coordinates and ordering of req
func (c *Client[T]) PagedRequest(ctx context.Context, req *Request, q *query.Query, opts ...CallOption) (*Page[T], error) {
	if req == nil {
		return nil, errInvalidRequest
	}
	return c.Paged(ctx, req.PageNumber, req.PageSize, q, req.SortSpec(), opts...)
}

var errInvalidRequest = fmt.Errorf("%w: Invalid request.", ecode.ErrInvalidArgument)

// Any reports whether at least one document matches q
func (c *Client[T]) Any(ctx context.Context, q *query.Query, opts ...CallOption) (bool, error) {
	page, err := c.Paged(ctx, 0, 1, q, nil, opts...)
	if err != nil {
		return false, err
	}
	return len(page.Data) > 0, nil
}

// All returns every document matching q. Documents are fetched lazily, a page
// of the maximum size at a time, as the returned sequence is consumed.
func (c *Client[T]) All(ctx context.Context, q *query.Query, sort sorting.Spec, opts ...CallOption) (*AllResponse[T], error) {
	page, err := c.Paged(ctx, 0, math.MaxInt, q, sort, opts...)
	if err != nil {
		return nil, err
	}
	if page.TotalCount == 0 {
		return EmptyResponse[T](), nil
	}
	return &AllResponse[T]{TotalCount: page.TotalCount, Data: page.AllData(ctx)}, nil
}

// AllRequest returns every document matching q in the ordering of req
func (c *Client[T]) AllRequest(ctx context.Context, req *Request, q *query.Query, opts ...CallOption) (*AllResponse[T], error) {
	if req == nil {
		return nil, errInvalidRequest
	}
	return c.All(ctx, q, req.SortSpec(), opts...)
}

// Get returns the document stored under id
func (c *Client[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	if strings.TrimSpace(id) == "" {
		return zero, ecode.NoSuchObject(id)
	}

	resp, err := c.backend.Get(ctx, c.index, id)
	if err != nil {
		if search.IsNotFound(err) {
			return zero, ecode.NoSuchObject(id)
		}
		logger.Errorf(ctx, "get %s from %s failed: %v", id, c.index, err)
		return zero, backendError(err)
	}
	if resp == nil || !resp.Found {
		return zero, ecode.NoSuchObject(id)
	}

	var doc T
	if err := json.Unmarshal(resp.Source, &doc); err != nil {
		return zero, ecode.ParseError("document "+id, err)
	}
	return doc, nil
}

// Save indexes data and returns it. The id comes from WithID, then from
// Identifier, else a new one is generated.
func (c *Client[T]) Save(ctx context.Context, data T, opts ...CallOption) (T, error) {
	o := newCallOptions(opts)

	id := o.id
	if id == "" {
		if ider, ok := any(data).(Identifier); ok {
			id = ider.DocumentID()
		} else if ider, ok := any(&data).(Identifier); ok {
			id = ider.DocumentID()
		}
	}
	if id == "" {
		id = uuid.NewString()
	}

	err := c.backend.Index(ctx, &search.IndexRequest{
		Index:        c.index,
		DocumentType: o.documentType,
		DocumentID:   id,
		Document:     data,
		Refresh:      o.refresh,
	})
	if err != nil {
		logger.Errorf(ctx, "save %s to %s failed: %v", id, c.index, err)
		var zero T
		return zero, backendError(err)
	}
	return data, nil
}

// Delete removes the document stored under id and returns it
func (c *Client[T]) Delete(ctx context.Context, id string, opts ...CallOption) (T, error) {
	doc, err := c.Get(ctx, id)
	if err != nil {
		return doc, err
	}

	o := newCallOptions(opts)
	if err := c.backend.Delete(ctx, c.index, id, o.refresh); err != nil {
		var zero T
		if search.IsNotFound(err) {
			return zero, ecode.NoSuchObject(id)
		}
		logger.Errorf(ctx, "delete %s from %s failed: %v", id, c.index, err)
		return zero, backendError(err)
	}
	return doc, nil
}

// Search runs req unchanged, defaulting its index to the client's
func (c *Client[T]) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if req == nil {
		return nil, errInvalidRequest
	}
	r := *req
	if r.Index == "" {
		r.Index = c.index
	}
	return c.backend.Search(ctx, &r)
}

// backendError converts a backend failure into an ecode.BackendError.
// Context errors pass through unchanged.
func backendError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ecode.ErrParse) {
		return err
	}
	var be *ecode.BackendError
	if errors.As(err, &be) {
		return be
	}
	var se *search.ServerError
	if errors.As(err, &se) {
		return ecode.NewBackendError(err.Error(), se.Debug)
	}
	return ecode.NewBackendError(err.Error(), "")
}
