// Package meilisearch provides a Meilisearch search driver.
//
// This driver uses meilisearch-go (github.com/meilisearch/meilisearch-go) as the underlying client.
// It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/pagination/data/meilisearch"
//
// Compiled queries are translated into Meilisearch filter expressions, so
// every filtered or sorted field has to be declared filterable or sortable on
// the index. Raw queries must be a JSON string holding a filter expression.
package meilisearch

import (
	"context"

	"github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/data/meilisearch/client"
	"github.com/ncobase/pagination/data/search"
)

// driver implements search.Driver for Meilisearch.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() search.Engine {
	return search.Meilisearch
}

// Connect creates a Meilisearch adapter from the search configuration.
//
// Reachability is not checked here; the search client health checks every
// adapter when it selects an engine.
func (d *driver) Connect(_ context.Context, cfg *config.Search) (search.Adapter, error) {
	if cfg == nil || cfg.Meilisearch == nil || cfg.Meilisearch.Host == "" {
		return nil, search.ErrNotConfigured
	}
	return NewAdapter(client.NewMeilisearch(cfg.Meilisearch.Host, cfg.Meilisearch.APIKey)), nil
}

func init() {
	search.RegisterDriver(&driver{})
}
