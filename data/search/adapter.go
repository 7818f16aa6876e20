package search

import (
	"context"
)

// Adapter interface for search engine implementations.
//
// Index names passed to an adapter are fully qualified. Errors reported by the
// engine itself are returned as *ServerError; Search may return both a
// response and a benign error.
type Adapter interface {
	Search(ctx context.Context, req *Request) (*Response, error)
	Get(ctx context.Context, index, id string) (*GetResponse, error)
	Index(ctx context.Context, req *IndexRequest) error
	Delete(ctx context.Context, index, id string, refresh Refresh) error
	IndexExists(ctx context.Context, indexName string) (bool, error)
	CreateIndex(ctx context.Context, indexName string, schema *Schema) error
	Health(ctx context.Context) error
	Type() Engine
}
