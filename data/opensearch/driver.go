// Package opensearch provides an OpenSearch search driver.
//
// This driver uses opensearch-go (github.com/opensearch-project/opensearch-go/v4)
// as the underlying client. It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/pagination/data/opensearch"
//
// OpenSearch speaks the Elasticsearch query DSL, so compiled queries and sort
// specs are sent unchanged.
package opensearch

import (
	"context"
	"fmt"

	"github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/data/opensearch/client"
	"github.com/ncobase/pagination/data/search"
)

// driver implements search.Driver for OpenSearch.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() search.Engine {
	return search.OpenSearch
}

// Connect creates an OpenSearch adapter from the search configuration.
func (d *driver) Connect(_ context.Context, cfg *config.Search) (search.Adapter, error) {
	if cfg == nil || cfg.OpenSearch == nil || len(cfg.OpenSearch.Addresses) == 0 {
		return nil, search.ErrNotConfigured
	}

	osCfg := cfg.OpenSearch
	c, err := client.NewClient(osCfg.Addresses, osCfg.Username, osCfg.Password, osCfg.InsecureSkipTLS)
	if err != nil {
		return nil, fmt.Errorf("opensearch: failed to create client: %w", err)
	}

	return NewAdapter(c), nil
}

func init() {
	search.RegisterDriver(&driver{})
}
