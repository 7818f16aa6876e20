// Package elasticsearch provides an Elasticsearch search driver.
//
// This driver uses go-elasticsearch/v8 (github.com/elastic/go-elasticsearch/v8) as
// the underlying client. It registers itself automatically when imported:
//
//	import _ "github.com/ncobase/pagination/data/elasticsearch"
//
// The driver is enabled by configuring at least one address under
// data.search.elasticsearch.addresses.
package elasticsearch

import (
	"context"
	"fmt"

	"github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/data/elasticsearch/client"
	"github.com/ncobase/pagination/data/search"
)

// driver implements search.Driver for Elasticsearch.
type driver struct{}

// Name returns the driver identifier used in configuration files.
func (d *driver) Name() search.Engine {
	return search.Elasticsearch
}

// Connect creates an Elasticsearch adapter from the search configuration.
func (d *driver) Connect(_ context.Context, cfg *config.Search) (search.Adapter, error) {
	if cfg == nil || cfg.Elasticsearch == nil || len(cfg.Elasticsearch.Addresses) == 0 {
		return nil, search.ErrNotConfigured
	}

	esCfg := cfg.Elasticsearch
	c, err := client.NewClient(esCfg.Addresses, esCfg.Username, esCfg.Password)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: failed to create client: %w", err)
	}

	return NewAdapter(c), nil
}

func init() {
	search.RegisterDriver(&driver{})
}
