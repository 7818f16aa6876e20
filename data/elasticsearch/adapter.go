package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ncobase/pagination/data/elasticsearch/client"
	"github.com/ncobase/pagination/data/search"
)

// Adapter implements search.Adapter over Elasticsearch
type Adapter struct {
	client *client.Client
}

func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Type() search.Engine {
	return search.Elasticsearch
}

func (a *Adapter) ready() error {
	if a.client == nil || a.client.GetClient() == nil {
		return errors.New("elasticsearch client not available")
	}
	return nil
}

func (a *Adapter) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req.Body())
	if err != nil {
		return nil, fmt.Errorf("elasticsearch encode query error: %w", err)
	}

	res, err := a.client.Search(ctx, req.Index, body)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, search.DecodeServerError(res.StatusCode, res.Body)
	}

	resp, err := search.DecodeHits(res.Body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch parsing error: %w", err)
	}
	return resp, nil
}

func (a *Adapter) Get(ctx context.Context, index, id string) (*search.GetResponse, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}

	res, err := a.client.GetDocument(ctx, index, id)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusNotFound {
		return &search.GetResponse{ID: id}, nil
	}
	if res.IsError() {
		return nil, search.DecodeServerError(res.StatusCode, res.Body)
	}

	var doc struct {
		ID     string          `json:"_id"`
		Found  bool            `json:"found"`
		Source json.RawMessage `json:"_source"`
	}
	if err := json.Unmarshal(res.Body, &doc); err != nil {
		return nil, fmt.Errorf("elasticsearch parsing error: %w", err)
	}
	return &search.GetResponse{Found: doc.Found, ID: doc.ID, Source: doc.Source}, nil
}

func (a *Adapter) Index(ctx context.Context, req *search.IndexRequest) error {
	if err := a.ready(); err != nil {
		return err
	}

	document, err := json.Marshal(req.Document)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	res, err := a.client.IndexDocument(ctx, req.Index, req.DocumentID, document, string(req.Refresh))
	if err != nil {
		return fmt.Errorf("elasticsearch indexing error: %w", err)
	}
	if res.IsError() {
		return search.DecodeServerError(res.StatusCode, res.Body)
	}
	return nil
}

func (a *Adapter) Delete(ctx context.Context, index, id string, r search.Refresh) error {
	if err := a.ready(); err != nil {
		return err
	}

	res, err := a.client.DeleteDocument(ctx, index, id, string(r))
	if err != nil {
		return fmt.Errorf("elasticsearch deletion error: %w", err)
	}
	if res.IsError() {
		return search.DecodeServerError(res.StatusCode, res.Body)
	}
	return nil
}

func (a *Adapter) IndexExists(ctx context.Context, indexName string) (bool, error) {
	if err := a.ready(); err != nil {
		return false, err
	}
	exists, err := a.client.IndexExists(ctx, indexName)
	if err != nil {
		return false, fmt.Errorf("failed to check elasticsearch index existence: %w", err)
	}
	return exists, nil
}

func (a *Adapter) CreateIndex(ctx context.Context, indexName string, schema *search.Schema) error {
	if err := a.ready(); err != nil {
		return err
	}

	body, err := search.IndexBody(schema)
	if err != nil {
		return fmt.Errorf("elasticsearch encode index body error: %w", err)
	}

	res, err := a.client.CreateIndex(ctx, indexName, body)
	if err != nil {
		return fmt.Errorf("failed to create elasticsearch index: %w", err)
	}
	if res.IsError() {
		return search.DecodeServerError(res.StatusCode, res.Body)
	}
	return nil
}

func (a *Adapter) Health(ctx context.Context) error {
	if err := a.ready(); err != nil {
		return err
	}
	res, err := a.client.Info(ctx)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("elasticsearch error: status %d", res.StatusCode)
	}
	return nil
}
