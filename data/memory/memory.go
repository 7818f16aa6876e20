// Package memory provides an in-process search engine that evaluates the
// Elasticsearch query subset produced by the query package. It registers
// itself automatically when imported:
//
//	import _ "github.com/ncobase/pagination/data/memory"
//
// The engine is enabled with data.search.memory.enabled.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/data/search"
)

type index struct {
	docs  map[string]json.RawMessage
	order []string
}

// Adapter is an in-memory search.Adapter safe for concurrent use
type Adapter struct {
	mu      sync.RWMutex
	indexes map[string]*index
}

// New creates an empty engine
func New() *Adapter {
	return &Adapter{indexes: make(map[string]*index)}
}

func (a *Adapter) Type() search.Engine {
	return search.Memory
}

func indexNotFound(name string) *search.ServerError {
	return &search.ServerError{
		Status: http.StatusNotFound,
		Type:   "index_not_found_exception",
		Reason: fmt.Sprintf("no such index [%s]", name),
	}
}

func (a *Adapter) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	source, err := querySource(req)
	if err != nil {
		return nil, err
	}

	a.mu.RLock()
	idx, ok := a.indexes[req.Index]
	if !ok {
		a.mu.RUnlock()
		return nil, indexNotFound(req.Index)
	}
	type candidate struct {
		id   string
		raw  json.RawMessage
		body map[string]any
	}
	var matched []candidate
	for _, id := range idx.order {
		raw := idx.docs[id]
		var body map[string]any
		if err := json.Unmarshal(raw, &body); err != nil {
			continue
		}
		ok, err := evaluate(source, body)
		if err != nil {
			a.mu.RUnlock()
			return nil, err
		}
		if ok {
			matched = append(matched, candidate{id: id, raw: raw, body: body})
		}
	}
	a.mu.RUnlock()

	if len(req.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for _, rule := range req.Sort {
				if rule.Field == "" {
					continue
				}
				vi, vj := lookup(matched[i].body, rule.Field), lookup(matched[j].body, rule.Field)
				c := compareSortValues(vi, vj)
				if c == 0 {
					continue
				}
				// documents without a value sort last in both directions
				if vi == nil || vj == nil {
					return c < 0
				}
				if rule.Descending {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	resp := &search.Response{Total: int64(len(matched)), Hits: []search.Hit{}}
	from := max(req.From, 0)
	if from >= len(matched) {
		return resp, nil
	}
	end := len(matched)
	if req.Size >= 0 && from+req.Size < end {
		end = from + req.Size
	}
	for _, m := range matched[from:end] {
		resp.Hits = append(resp.Hits, search.Hit{ID: m.id, Score: 1, Source: m.raw})
	}
	return resp, nil
}

func querySource(req *search.Request) (map[string]any, error) {
	if req.Query == nil {
		return nil, nil
	}
	data, err := req.Query.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var source map[string]any
	if err := json.Unmarshal(data, &source); err != nil {
		return nil, &search.ServerError{Status: http.StatusBadRequest, Type: "parsing_exception", Reason: err.Error()}
	}
	return source, nil
}

func (a *Adapter) Get(ctx context.Context, indexName, id string) (*search.GetResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()

	resp := &search.GetResponse{ID: id}
	if idx, ok := a.indexes[indexName]; ok {
		if raw, ok := idx.docs[id]; ok {
			resp.Found = true
			resp.Source = raw
		}
	}
	return resp, nil
}

func (a *Adapter) Index(ctx context.Context, req *search.IndexRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(req.Document)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}
	if len(raw) == 0 || raw[0] != '{' {
		return &search.ServerError{
			Status: http.StatusBadRequest,
			Type:   "mapper_parsing_exception",
			Reason: "failed to parse, document is empty or not an object",
		}
	}

	id := req.DocumentID
	if id == "" {
		id = uuid.NewString()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	idx := a.indexLocked(req.Index)
	if _, exists := idx.docs[id]; !exists {
		idx.order = append(idx.order, id)
	}
	idx.docs[id] = raw
	return nil
}

func (a *Adapter) indexLocked(name string) *index {
	idx, ok := a.indexes[name]
	if !ok {
		idx = &index{docs: make(map[string]json.RawMessage)}
		a.indexes[name] = idx
	}
	return idx
}

func (a *Adapter) Delete(ctx context.Context, indexName, id string, _ search.Refresh) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	idx, ok := a.indexes[indexName]
	if !ok {
		return indexNotFound(indexName)
	}
	if _, ok := idx.docs[id]; !ok {
		return &search.ServerError{Status: http.StatusNotFound, Type: "not_found", Reason: fmt.Sprintf("document [%s] not found", id)}
	}
	delete(idx.docs, id)
	for i, existing := range idx.order {
		if existing == id {
			idx.order = append(idx.order[:i], idx.order[i+1:]...)
			break
		}
	}
	return nil
}

func (a *Adapter) IndexExists(_ context.Context, indexName string) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.indexes[indexName]
	return ok, nil
}

func (a *Adapter) CreateIndex(_ context.Context, indexName string, _ *search.Schema) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.indexes[indexName]; ok {
		return &search.ServerError{
			Status: http.StatusBadRequest,
			Type:   "resource_already_exists_exception",
			Reason: fmt.Sprintf("index [%s] already exists", indexName),
		}
	}
	a.indexLocked(indexName)
	return nil
}

func (a *Adapter) Health(ctx context.Context) error {
	return ctx.Err()
}

// Count returns the number of documents in an index
func (a *Adapter) Count(indexName string) int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if idx, ok := a.indexes[indexName]; ok {
		return len(idx.docs)
	}
	return 0
}

type driver struct{}

func (driver) Name() search.Engine {
	return search.Memory
}

func (driver) Connect(_ context.Context, cfg *config.Search) (search.Adapter, error) {
	if cfg == nil || cfg.Memory == nil || !cfg.Memory.Enabled {
		return nil, search.ErrNotConfigured
	}
	return New(), nil
}

func init() {
	search.RegisterDriver(driver{})
}
