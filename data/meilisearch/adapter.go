package meilisearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/meilisearch/meilisearch-go"
	"github.com/ncobase/pagination/data/meilisearch/client"
	"github.com/ncobase/pagination/data/search"
	"github.com/spf13/cast"
)

// primaryKey is the document attribute holding the document id
const primaryKey = "id"

// Adapter implements search.Adapter over Meilisearch
type Adapter struct {
	client *client.Client
}

func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Type() search.Engine {
	return search.Meilisearch
}

func (a *Adapter) ready() error {
	if a.client == nil || a.client.GetClient() == nil {
		return errors.New("meilisearch client not available")
	}
	return nil
}

// serverError converts SDK errors into search.ServerError
func serverError(err error) error {
	var msErr *meilisearch.Error
	if errors.As(err, &msErr) && msErr.StatusCode >= http.StatusBadRequest {
		return &search.ServerError{
			Status: msErr.StatusCode,
			Type:   msErr.MeilisearchApiError.Code,
			Reason: msErr.MeilisearchApiError.Message,
			Debug:  err.Error(),
		}
	}
	return err
}

// searchRequest translates req. Page aligned requests use page numbers so the
// engine reports an exact total.
func searchRequest(req *search.Request) (*client.SearchParams, error) {
	filter, err := compileFilter(req.Query)
	if err != nil {
		return nil, err
	}

	params := &client.SearchParams{Sort: compileSort(req.Sort)}
	if filter != "" {
		params.Filter = filter
	}
	if req.Size > 0 && req.From%req.Size == 0 {
		params.Page = int64(req.From/req.Size + 1)
		params.HitsPerPage = int64(req.Size)
	} else {
		params.Offset = int64(req.From)
		params.Limit = int64(req.Size)
	}
	return params, nil
}

func (a *Adapter) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}

	params, err := searchRequest(req)
	if err != nil {
		return nil, err
	}

	msResp, err := a.client.SearchWithContext(ctx, req.Index, "", params)
	if err != nil {
		return nil, serverError(err)
	}

	hits := make([]search.Hit, 0, len(msResp.Hits))
	for _, hit := range msResp.Hits {
		source, err := json.Marshal(hit)
		if err != nil {
			return nil, fmt.Errorf("meilisearch decode hit error: %w", err)
		}
		hits = append(hits, search.Hit{ID: hitID(source), Score: 1.0, Source: source})
	}

	total := int64(msResp.EstimatedTotalHits)
	if params.HitsPerPage > 0 {
		total = int64(msResp.TotalHits)
	}
	return &search.Response{Total: total, Hits: hits}, nil
}

func hitID(source []byte) string {
	var doc struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(source, &doc); err != nil {
		return ""
	}
	return cast.ToString(doc.ID)
}

func (a *Adapter) Get(_ context.Context, index, id string) (*search.GetResponse, error) {
	if err := a.ready(); err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := a.client.GetDocument(index, id, &doc); err != nil {
		err = serverError(err)
		if search.IsNotFound(err) {
			return &search.GetResponse{Found: false, ID: id}, nil
		}
		return nil, err
	}

	source, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("meilisearch decode document error: %w", err)
	}
	return &search.GetResponse{Found: true, ID: id, Source: source}, nil
}

// wait blocks until task finishes when refresh asks for it
func (a *Adapter) wait(task *meilisearch.TaskInfo, refresh search.Refresh) error {
	if task == nil || (refresh != search.RefreshTrue && refresh != search.RefreshWaitFor) {
		return nil
	}
	return a.waitTask(task)
}

func (a *Adapter) waitTask(task *meilisearch.TaskInfo) error {
	done, err := a.client.WaitForTask(task.TaskUID)
	if err != nil {
		return serverError(err)
	}
	if done.Status == meilisearch.TaskStatusFailed {
		return &search.ServerError{
			Status: http.StatusBadRequest,
			Type:   "task_failed",
			Reason: fmt.Sprintf("task %d failed", task.TaskUID),
			Debug:  fmt.Sprintf("%+v", done.Error),
		}
	}
	return nil
}

func (a *Adapter) Index(_ context.Context, req *search.IndexRequest) error {
	if err := a.ready(); err != nil {
		return err
	}

	doc, ok := req.Document.(map[string]any)
	if !ok {
		data, err := json.Marshal(req.Document)
		if err != nil {
			return fmt.Errorf("meilisearch encode document error: %w", err)
		}
		if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
			return &search.ServerError{
				Status: http.StatusBadRequest,
				Type:   "invalid_document",
				Reason: "document must be a JSON object",
			}
		}
	}
	if req.DocumentID != "" {
		doc[primaryKey] = req.DocumentID
	}

	task, err := a.client.AddDocuments(req.Index, []any{doc}, primaryKey)
	if err != nil {
		return serverError(err)
	}
	return a.wait(task, req.Refresh)
}

func (a *Adapter) Delete(ctx context.Context, index, id string, refresh search.Refresh) error {
	if err := a.ready(); err != nil {
		return err
	}

	// Meilisearch deletes missing documents silently
	resp, err := a.Get(ctx, index, id)
	if err != nil {
		return err
	}
	if !resp.Found {
		return &search.ServerError{
			Status: http.StatusNotFound,
			Type:   "document_not_found",
			Reason: fmt.Sprintf("document %s not found in %s", id, index),
		}
	}

	task, err := a.client.DeleteDocument(index, id)
	if err != nil {
		return serverError(err)
	}
	return a.wait(task, refresh)
}

func (a *Adapter) IndexExists(_ context.Context, index string) (bool, error) {
	if err := a.ready(); err != nil {
		return false, err
	}
	if _, err := a.client.GetIndex(index); err != nil {
		err = serverError(err)
		if search.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check meilisearch index existence: %w", err)
	}
	return true, nil
}

// CreateIndex creates index with id as primary key and applies the attribute
// settings of schema. Mappings are Elasticsearch specific and ignored.
func (a *Adapter) CreateIndex(_ context.Context, index string, schema *search.Schema) error {
	if err := a.ready(); err != nil {
		return err
	}

	task, err := a.client.CreateIndex(&meilisearch.IndexConfig{Uid: index, PrimaryKey: primaryKey})
	if err != nil {
		return serverError(err)
	}
	if err := a.waitTask(task); err != nil {
		return err
	}

	if schema == nil || schema.Settings == nil {
		return nil
	}
	s := schema.Settings
	if err := a.client.UpdateAttributes(index, searchableFields(s.SearchableFields), s.FilterableFields, s.SortableFields); err != nil {
		return serverError(err)
	}
	return nil
}

// searchableFields strips boost suffixes such as title^2
func searchableFields(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, search.FieldName(f))
	}
	return out
}

func (a *Adapter) Health(_ context.Context) error {
	if err := a.ready(); err != nil {
		return err
	}
	health, err := a.client.Health()
	if err != nil {
		return err
	}
	if health.Status != "available" {
		return fmt.Errorf("meilisearch status: %s", health.Status)
	}
	return nil
}
