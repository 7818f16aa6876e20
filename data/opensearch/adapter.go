package opensearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ncobase/pagination/data/opensearch/client"
	"github.com/ncobase/pagination/data/search"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// Adapter implements search.Adapter over OpenSearch
type Adapter struct {
	client *client.Client
}

func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Type() search.Engine {
	return search.OpenSearch
}

func (a *Adapter) ready() error {
	if a.client == nil || a.client.GetClient() == nil {
		return errors.New("opensearch client not available")
	}
	return nil
}

// serverError converts SDK errors into search.ServerError
func serverError(err error, status int) error {
	var structErr *opensearch.StructError
	if errors.As(err, &structErr) {
		return &search.ServerError{
			Status: structErr.Status,
			Type:   structErr.Err.Type,
			Reason: structErr.Err.Reason,
			Debug:  err.Error(),
		}
	}
	var stringErr *opensearch.StringError
	if errors.As(err, &stringErr) {
		return &search.ServerError{Status: stringErr.Status, Reason: stringErr.Err, Debug: err.Error()}
	}
	if status >= http.StatusBadRequest {
		return &search.ServerError{Status: status, Debug: err.Error()}
	}
	return err
}

func statusOf(inspect opensearchapi.Inspect) int {
	if inspect.Response == nil {
		return 0
	}
	return inspect.Response.StatusCode
}

func (a *Adapter) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req.Body())
	if err != nil {
		return nil, fmt.Errorf("opensearch encode query error: %w", err)
	}

	osResp, err := a.client.Search(ctx, req.Index, body)
	if err != nil {
		status := 0
		if osResp != nil {
			status = statusOf(osResp.Inspect())
		}
		return nil, serverError(err, status)
	}

	hits := make([]search.Hit, len(osResp.Hits.Hits))
	for i, hit := range osResp.Hits.Hits {
		hits[i] = search.Hit{
			ID:     hit.ID,
			Score:  float64(hit.Score),
			Source: hit.Source,
		}
	}

	return &search.Response{
		Total: int64(osResp.Hits.Total.Value),
		Hits:  hits,
	}, nil
}

func (a *Adapter) Get(ctx context.Context, index, id string) (*search.GetResponse, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}

	resp, err := a.client.GetDocument(ctx, index, id)
	status := 0
	if resp != nil {
		status = statusOf(resp.Inspect())
	}
	if status == http.StatusNotFound {
		return &search.GetResponse{ID: id}, nil
	}
	if err != nil {
		return nil, serverError(err, status)
	}
	return &search.GetResponse{Found: resp.Found, ID: resp.ID, Source: resp.Source}, nil
}

func (a *Adapter) Index(ctx context.Context, req *search.IndexRequest) error {
	if err := a.ready(); err != nil {
		return err
	}

	document, err := json.Marshal(req.Document)
	if err != nil {
		return fmt.Errorf("error encoding document: %w", err)
	}

	resp, err := a.client.IndexDocument(ctx, req.Index, req.DocumentID, document, string(req.Refresh))
	if err != nil {
		status := 0
		if resp != nil {
			status = statusOf(resp.Inspect())
		}
		return serverError(err, status)
	}
	return nil
}

func (a *Adapter) Delete(ctx context.Context, index, id string, refresh search.Refresh) error {
	if err := a.ready(); err != nil {
		return err
	}

	resp, err := a.client.DeleteDocument(ctx, index, id, string(refresh))
	if err != nil {
		status := 0
		if resp != nil {
			status = statusOf(resp.Inspect())
		}
		return serverError(err, status)
	}
	return nil
}

func (a *Adapter) IndexExists(ctx context.Context, indexName string) (bool, error) {
	if err := a.ready(); err != nil {
		return false, err
	}
	return a.client.IndexExists(ctx, indexName)
}

func (a *Adapter) CreateIndex(ctx context.Context, indexName string, schema *search.Schema) error {
	if err := a.ready(); err != nil {
		return err
	}

	body, err := search.IndexBody(schema)
	if err != nil {
		return fmt.Errorf("opensearch encode index body error: %w", err)
	}
	if err := a.client.CreateIndex(ctx, indexName, body); err != nil {
		return serverError(err, 0)
	}
	return nil
}

func (a *Adapter) Health(ctx context.Context) error {
	if err := a.ready(); err != nil {
		return err
	}
	_, err := a.client.Health(ctx)
	return err
}
