package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/data/metrics"
	"github.com/ncobase/pagination/ecode"
	"github.com/ncobase/pagination/query"
	"github.com/sony/gobreaker"
)

// enginePriority is the order engines are picked in when no default is healthy
var enginePriority = []Engine{OpenSearch, Elasticsearch, Meilisearch, Memory}

// Client routes search operations to the selected engine
type Client struct {
	adapters     map[Engine]Adapter
	collector    metrics.Collector
	breaker      *gobreaker.CircuitBreaker
	searchConfig *config.Search

	mu          sync.RWMutex
	engine      Engine
	indexPrefix string
	indexCache  map[string]bool
}

// NewClient creates a new search client over the provided adapters
func NewClient(searchConfig *config.Search, collector metrics.Collector, adapters ...Adapter) *Client {
	if searchConfig == nil {
		searchConfig = config.DefaultSearch()
	}
	if searchConfig.DocumentTypeField == "" {
		searchConfig.DocumentTypeField = config.DefaultDocumentTypeField
	}
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}

	adapterMap := make(map[Engine]Adapter)
	for _, a := range adapters {
		if a != nil {
			adapterMap[a.Type()] = a
		}
	}

	c := &Client{
		adapters:     adapterMap,
		collector:    collector,
		searchConfig: searchConfig,
		indexPrefix:  searchConfig.IndexPrefix,
		indexCache:   make(map[string]bool),
	}

	if b := searchConfig.Breaker; b != nil && b.Enabled {
		c.breaker = newBreaker(b)
	}

	c.setEngine()
	return c
}

func newBreaker(b *config.Breaker) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "search",
		MaxRequests: b.MaxRequests,
		Interval:    b.Interval,
		Timeout:     b.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		// Missing indexes, missing sort mappings, missing documents and
		// malformed caller queries are answers from a healthy engine.
		IsSuccessful: func(err error) bool {
			return err == nil || IsBenign(err) || errors.Is(err, ecode.ErrParse) || errors.Is(err, context.Canceled)
		},
	})
}

// SetIndexPrefix changes the prefix applied to every index name
func (c *Client) SetIndexPrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.indexPrefix = prefix
	c.indexCache = make(map[string]bool)
}

// GetIndexPrefix returns the index prefix
func (c *Client) GetIndexPrefix() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexPrefix
}

// GetSearchConfig returns the search configuration
func (c *Client) GetSearchConfig() *config.Search {
	return c.searchConfig
}

// IndexName returns the fully qualified name of index
func (c *Client) IndexName(index string) string {
	prefix := c.GetIndexPrefix()
	if prefix == "" {
		return index
	}
	return fmt.Sprintf("%s-%s", prefix, index)
}

func (c *Client) setEngine() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Use configured default engine if specified and available
	if c.searchConfig.DefaultEngine != "" {
		eng := Engine(c.searchConfig.DefaultEngine)
		if adapter, ok := c.adapters[eng]; ok && adapter.Health(ctx) == nil {
			c.engine = eng
			return
		}
	}

	for _, eng := range enginePriority {
		if adapter, ok := c.adapters[eng]; ok && adapter.Health(ctx) == nil {
			c.engine = eng
			return
		}
	}
}

func (c *Client) getAdapter() (Adapter, error) {
	c.mu.RLock()
	eng := c.engine
	c.mu.RUnlock()

	if eng == "" {
		c.setEngine()
		c.mu.RLock()
		eng = c.engine
		c.mu.RUnlock()
		if eng == "" {
			return nil, ErrNoEngineAvailable
		}
	}

	if adapter, ok := c.adapters[eng]; ok {
		return adapter, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrEngineNotFound, eng)
}

// GetEngine returns the selected engine
func (c *Client) GetEngine() Engine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine
}

// GetAvailableEngines returns engines that pass a health check
func (c *Client) GetAvailableEngines(ctx context.Context) []Engine {
	var engines []Engine
	for _, eng := range enginePriority {
		if adapter, ok := c.adapters[eng]; ok && adapter.Health(ctx) == nil {
			engines = append(engines, eng)
		}
	}
	return engines
}

// Health checks every configured engine
func (c *Client) Health(ctx context.Context) map[Engine]error {
	results := make(map[Engine]error, len(c.adapters))
	for eng, adapter := range c.adapters {
		err := adapter.Health(ctx)
		c.collector.HealthCheck(string(eng), err == nil)
		results[eng] = err
	}
	return results
}

// Checkers exposes every engine to a health monitor
func (c *Client) Checkers() []metrics.HealthChecker {
	checkers := make([]metrics.HealthChecker, 0, len(c.adapters))
	for _, eng := range enginePriority {
		adapter, ok := c.adapters[eng]
		if !ok {
			continue
		}
		checkers = append(checkers, metrics.CheckFunc{ComponentName: string(eng), Fn: adapter.Health})
	}
	return checkers
}

// execute runs fn through the circuit breaker when one is configured
func (c *Client) execute(fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, fn()
	})
	return err
}

// Search runs req on the selected engine. A document type scopes the query to
// documents carrying that type. Benign errors are returned together with a
// response.
func (c *Client) Search(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: search request is nil", ecode.ErrInvalidArgument)
	}
	adapter, err := c.getAdapter()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	scoped := *req
	scoped.Index = c.IndexName(req.Index)
	if req.DocumentType != "" {
		scoped.Query = req.Query.And(query.Term{Field: c.searchConfig.DocumentTypeField, Value: req.DocumentType})
	}

	var resp *Response
	err = c.execute(func() error {
		var serr error
		resp, serr = adapter.Search(ctx, &scoped)
		return serr
	})

	duration := time.Since(start)
	c.collector.SearchQuery(string(adapter.Type()), duration, err)

	if resp != nil {
		resp.Duration = duration
		resp.Engine = adapter.Type()
	}
	return resp, err
}

// Get fetches one document by id
func (c *Client) Get(ctx context.Context, index, id string) (*GetResponse, error) {
	adapter, err := c.getAdapter()
	if err != nil {
		return nil, err
	}

	var resp *GetResponse
	err = c.execute(func() error {
		var gerr error
		resp, gerr = adapter.Get(ctx, c.IndexName(index), id)
		return gerr
	})
	c.collector.SearchIndex(string(adapter.Type()), "get", err)
	return resp, err
}

// Index stores one document. The document type, when set, is written into
// the document so scoped searches find it.
func (c *Client) Index(ctx context.Context, req *IndexRequest) error {
	if req == nil {
		return fmt.Errorf("%w: index request is nil", ecode.ErrInvalidArgument)
	}
	adapter, err := c.getAdapter()
	if err != nil {
		return err
	}

	prefixed := *req
	prefixed.Index = c.IndexName(req.Index)
	if req.DocumentType != "" {
		doc, err := stampDocumentType(req.Document, c.searchConfig.DocumentTypeField, req.DocumentType)
		if err != nil {
			return err
		}
		prefixed.Document = doc
	}

	if c.searchConfig.AutoCreateIndex {
		schema := &Schema{Settings: c.searchConfig.IndexSettings}
		if err := c.ensureIndex(ctx, adapter, prefixed.Index, schema); err != nil {
			return fmt.Errorf("failed to ensure index exists: %w", err)
		}
	}

	err = c.execute(func() error {
		return adapter.Index(ctx, &prefixed)
	})
	c.collector.SearchIndex(string(adapter.Type()), "index", err)
	return err
}

// Delete removes one document
func (c *Client) Delete(ctx context.Context, index, id string, refresh Refresh) error {
	adapter, err := c.getAdapter()
	if err != nil {
		return err
	}

	err = c.execute(func() error {
		return adapter.Delete(ctx, c.IndexName(index), id, refresh)
	})
	c.collector.SearchIndex(string(adapter.Type()), "delete", err)
	return err
}

// IndexExists reports whether index exists on the selected engine
func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	adapter, err := c.getAdapter()
	if err != nil {
		return false, err
	}
	return adapter.IndexExists(ctx, c.IndexName(index))
}

// CreateIndex creates index unless it already exists
func (c *Client) CreateIndex(ctx context.Context, index string, schema *Schema) error {
	adapter, err := c.getAdapter()
	if err != nil {
		return err
	}
	if schema == nil {
		schema = &Schema{Settings: c.searchConfig.IndexSettings}
	}
	err = c.ensureIndex(ctx, adapter, c.IndexName(index), schema)
	c.collector.SearchIndex(string(adapter.Type()), "create_index", err)
	return err
}

func (c *Client) ensureIndex(ctx context.Context, adapter Adapter, indexName string, schema *Schema) error {
	cacheKey := fmt.Sprintf("%s:%s", adapter.Type(), indexName)

	c.mu.RLock()
	exists := c.indexCache[cacheKey]
	c.mu.RUnlock()
	if exists {
		return nil
	}

	indexExists, err := adapter.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}

	if !indexExists {
		if err := adapter.CreateIndex(ctx, indexName, schema); err != nil && !isAlreadyExists(err) {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	c.mu.Lock()
	c.indexCache[cacheKey] = true
	c.mu.Unlock()
	return nil
}

func isAlreadyExists(err error) bool {
	var se *ServerError
	if errors.As(err, &se) {
		return ecode.IsAlreadyExists(se.Type) || ecode.IsAlreadyExists(se.Reason)
	}
	return false
}

func stampDocumentType(document any, field, documentType string) (map[string]any, error) {
	var doc map[string]any
	switch d := document.(type) {
	case map[string]any:
		doc = make(map[string]any, len(d)+1)
		for k, v := range d {
			doc[k] = v
		}
	default:
		data, err := json.Marshal(document)
		if err != nil {
			return nil, fmt.Errorf("error encoding document: %w", err)
		}
		if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
			return nil, fmt.Errorf("%w: document must encode as a JSON object", ecode.ErrInvalidArgument)
		}
	}
	doc[field] = documentType
	return doc, nil
}
