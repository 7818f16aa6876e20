package paging

import (
	dc "github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/data/metrics"
	"github.com/ncobase/pagination/data/search"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Client
type Option func(*clientOptions)

type clientOptions struct {
	createIndex     bool
	schema          *search.Schema
	defaultPageSize int
	maxPageSize     int
	collector       metrics.Collector
	tracer          trace.Tracer
}

// WithCreateIndex creates the index when the client is built. A nil schema
// uses the backend defaults.
func WithCreateIndex(schema *search.Schema) Option {
	return func(o *clientOptions) {
		o.createIndex = true
		o.schema = schema
	}
}

// WithPaging overrides the default and maximum page sizes
func WithPaging(p *dc.Paging) Option {
	return func(o *clientOptions) {
		if p == nil {
			return
		}
		if p.DefaultPageSize > 0 {
			o.defaultPageSize = p.DefaultPageSize
		}
		if p.MaxPageSize > 0 {
			o.maxPageSize = p.MaxPageSize
		}
	}
}

// WithCollector records served and corrected pages
func WithCollector(c metrics.Collector) Option {
	return func(o *clientOptions) {
		if c != nil {
			o.collector = c
		}
	}
}

// WithTracer sets the tracer paged searches are recorded with
func WithTracer(t trace.Tracer) Option {
	return func(o *clientOptions) {
		if t != nil {
			o.tracer = t
		}
	}
}

// CallOption configures a single operation
type CallOption func(*callOptions)

type callOptions struct {
	documentType string
	refresh      search.Refresh
	id           string
}

func newCallOptions(opts []CallOption) callOptions {
	o := callOptions{refresh: search.RefreshFalse}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDocumentType scopes searches to, and tags saved documents with, a
// document type
func WithDocumentType(documentType string) CallOption {
	return func(o *callOptions) { o.documentType = documentType }
}

// WithRefresh sets when a save or delete becomes visible to searches
func WithRefresh(r search.Refresh) CallOption {
	return func(o *callOptions) { o.refresh = r }
}

// WithID sets the id a document is saved under
func WithID(id string) CallOption {
	return func(o *callOptions) { o.id = id }
}
