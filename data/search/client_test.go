package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/data/metrics"
	"github.com/ncobase/pagination/query"
)

type fakeAdapter struct {
	engine     Engine
	healthErr  error
	searchErr  error
	createErr  error
	exists     bool
	lastSearch *Request
	lastIndex  *IndexRequest
	created    []string
}

func (f *fakeAdapter) Search(_ context.Context, req *Request) (*Response, error) {
	f.lastSearch = req
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &Response{Total: 1, Hits: []Hit{{ID: "1", Source: json.RawMessage(`{"a":1}`)}}}, nil
}

func (f *fakeAdapter) Get(_ context.Context, _, id string) (*GetResponse, error) {
	return &GetResponse{Found: id == "1", ID: id}, nil
}

func (f *fakeAdapter) Index(_ context.Context, req *IndexRequest) error {
	f.lastIndex = req
	return nil
}

func (f *fakeAdapter) Delete(context.Context, string, string, Refresh) error { return nil }

func (f *fakeAdapter) IndexExists(context.Context, string) (bool, error) { return f.exists, nil }

func (f *fakeAdapter) CreateIndex(_ context.Context, name string, _ *Schema) error {
	f.created = append(f.created, name)
	return f.createErr
}

func (f *fakeAdapter) Health(context.Context) error { return f.healthErr }

func (f *fakeAdapter) Type() Engine { return f.engine }

func testConfig() *config.Search {
	cfg := config.DefaultSearch()
	cfg.IndexPrefix = "app"
	cfg.DefaultEngine = ""
	return cfg
}

func TestClient_EnginePriority(t *testing.T) {
	es := &fakeAdapter{engine: Elasticsearch}
	os := &fakeAdapter{engine: OpenSearch, healthErr: errors.New("down")}
	ms := &fakeAdapter{engine: Meilisearch}

	c := NewClient(testConfig(), nil, es, os, ms)
	if c.GetEngine() != Elasticsearch {
		t.Errorf("expected elasticsearch when opensearch is down, got %s", c.GetEngine())
	}

	cfg := testConfig()
	cfg.DefaultEngine = "meilisearch"
	c = NewClient(cfg, nil, es, os, ms)
	if c.GetEngine() != Meilisearch {
		t.Errorf("expected configured default meilisearch, got %s", c.GetEngine())
	}

	c = NewClient(testConfig(), nil)
	if _, err := c.Search(context.Background(), &Request{Index: "books"}); !errors.Is(err, ErrNoEngineAvailable) {
		t.Errorf("expected ErrNoEngineAvailable, got %v", err)
	}
}

func TestClient_SearchPrefixesAndScopes(t *testing.T) {
	es := &fakeAdapter{engine: Elasticsearch}
	collector := metrics.NewSearchCollector(10)
	c := NewClient(testConfig(), collector, es)

	q := query.New(query.Term{Field: "author", Value: "x"})
	resp, err := c.Search(context.Background(), &Request{Index: "books", DocumentType: "novel", Query: q})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Engine != Elasticsearch || resp.Total != 1 {
		t.Errorf("unexpected response %+v", resp)
	}
	if es.lastSearch.Index != "app-books" {
		t.Errorf("expected prefixed index, got %q", es.lastSearch.Index)
	}
	clauses := es.lastSearch.Query.Clauses()
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(clauses))
	}
	if term, ok := clauses[1].(query.Term); !ok || term.Field != config.DefaultDocumentTypeField || term.Value != "novel" {
		t.Errorf("expected document type term last, got %#v", clauses[1])
	}
	if q.Len() != 1 {
		t.Error("caller query must not be modified")
	}
	if got := collector.Stats()["search"].(map[string]any)["queries"].(int64); got != 1 {
		t.Errorf("expected 1 recorded query, got %d", got)
	}
}

func TestClient_IndexStampsDocumentTypeAndCreatesIndex(t *testing.T) {
	es := &fakeAdapter{engine: Elasticsearch}
	c := NewClient(testConfig(), nil, es)

	type book struct {
		Title string `json:"title"`
	}
	err := c.Index(context.Background(), &IndexRequest{Index: "books", DocumentType: "novel", Document: book{Title: "T"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := es.lastIndex.Document.(map[string]any)
	if doc["title"] != "T" || doc[config.DefaultDocumentTypeField] != "novel" {
		t.Errorf("unexpected document %v", doc)
	}
	if len(es.created) != 1 || es.created[0] != "app-books" {
		t.Errorf("expected index creation, got %v", es.created)
	}

	// cached after the first call
	_ = c.Index(context.Background(), &IndexRequest{Index: "books", Document: map[string]any{}})
	if len(es.created) != 1 {
		t.Errorf("expected a single creation, got %v", es.created)
	}

	if err := c.Index(context.Background(), &IndexRequest{Index: "books", DocumentType: "x", Document: nil}); err == nil {
		t.Error("expected error for a null document")
	}
}

func TestClient_CreateIndexIsIdempotent(t *testing.T) {
	es := &fakeAdapter{engine: Elasticsearch, createErr: &ServerError{Status: 400, Type: "resource_already_exists_exception"}}
	c := NewClient(testConfig(), nil, es)
	if err := c.CreateIndex(context.Background(), "books", nil); err != nil {
		t.Errorf("already exists must not fail, got %v", err)
	}

	es = &fakeAdapter{engine: Elasticsearch, createErr: &ServerError{Status: 400, Type: "illegal_argument_exception"}}
	c = NewClient(testConfig(), nil, es)
	if err := c.CreateIndex(context.Background(), "books", nil); err == nil {
		t.Error("expected failure")
	}

	es = &fakeAdapter{engine: Elasticsearch, exists: true}
	c = NewClient(testConfig(), nil, es)
	if err := c.CreateIndex(context.Background(), "books", nil); err != nil || len(es.created) != 0 {
		t.Errorf("existing index must not be recreated: %v %v", err, es.created)
	}
}

func TestClient_BreakerIgnoresBenignErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Breaker = &config.Breaker{Enabled: true, MaxRequests: 1}

	es := &fakeAdapter{engine: Elasticsearch, searchErr: &ServerError{Status: http.StatusNotFound, Type: "index_not_found_exception"}}
	c := NewClient(cfg, nil, es)
	for i := 0; i < 5; i++ {
		if _, err := c.Search(context.Background(), &Request{Index: "books"}); !IsNotFound(err) {
			t.Fatalf("expected not found, got %v", err)
		}
	}

	es.searchErr = &ServerError{Status: 500, Type: "boom"}
	for i := 0; i < 10; i++ {
		_, _ = c.Search(context.Background(), &Request{Index: "books"})
	}
	if _, err := c.Search(context.Background(), &Request{Index: "books"}); err == nil || IsNotFound(err) {
		t.Errorf("expected open breaker error, got %v", err)
	}
}

func TestServerErrorClassification(t *testing.T) {
	sortErr := DecodeServerError(400, []byte(`{"error":{"root_cause":[{"type":"query_shard_exception","reason":"No mapping found for [title] in order to sort on"}],"type":"search_phase_execution_exception","reason":"all shards failed","failed_shards":[{"reason":{"type":"query_shard_exception","reason":"No mapping found for [title] in order to sort on"}}]},"status":400}`))
	if sortErr.Type != "search_phase_execution_exception" || sortErr.Reason != "all shards failed" {
		t.Errorf("unexpected decode %+v", sortErr)
	}
	if !IsSortMappingMissing(sortErr) || !IsBenign(sortErr) {
		t.Error("expected sort mapping missing")
	}

	notFound := DecodeServerError(404, []byte(`{"error":{"type":"index_not_found_exception","reason":"no such index [x]"},"status":404}`))
	if !IsNotFound(notFound) || !errors.Is(notFound, ErrIndexNotFound) {
		t.Error("expected index not found")
	}

	plain := DecodeServerError(500, []byte(`oops`))
	if plain.Debug != "oops" || IsBenign(plain) {
		t.Errorf("unexpected plain error %+v", plain)
	}
}

func TestRequestBody(t *testing.T) {
	req := &Request{From: 10, Size: 5}
	data, err := json.Marshal(req.Body())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"from":10,"query":{"bool":{"must":[]}},"size":5,"track_total_hits":true}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}

	req.Query = query.Raw(`{"match_all":{}}`)
	data, _ = json.Marshal(req.Body())
	want = `{"from":10,"query":{"match_all":{}},"size":5,"track_total_hits":true}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestIndexBody(t *testing.T) {
	data, err := IndexBody(&Schema{Settings: &config.IndexSettings{Shards: 2, Replicas: 1, SearchableFields: []string{"title^2"}, FilterableFields: []string{"doc_type", "created_at"}}})
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatal(err)
	}
	fields := MappedFields(body)
	if len(fields) != 3 || fields[0] != "created_at" || fields[1] != "doc_type" || fields[2] != "title" {
		t.Errorf("unexpected fields %v", fields)
	}

	custom, _ := IndexBody(&Schema{Mapping: json.RawMessage(`{"mappings":{}}`)})
	if string(custom) != `{"mappings":{}}` {
		t.Errorf("explicit mapping must win, got %s", custom)
	}
}
