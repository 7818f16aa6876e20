package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"
)

// ErrNoClient is returned by every call on a client without a host
var ErrNoClient = errors.New("meilisearch client is nil")

// TaskInterval is the polling interval used while waiting for tasks
const TaskInterval = 50 * time.Millisecond

// Client Meilisearch client wrapper
type Client struct {
	client meilisearch.ServiceManager
}

// SearchParams is an alias for meilisearch.SearchRequest type
type SearchParams = meilisearch.SearchRequest

// NewMeilisearch creates new Meilisearch client
func NewMeilisearch(host, apiKey string) *Client {
	if host == "" {
		return &Client{client: nil}
	}
	ms := meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
	return &Client{client: ms}
}

// GetClient returns the underlying meilisearch client
func (c *Client) GetClient() meilisearch.ServiceManager {
	if c == nil {
		return nil
	}
	return c.client
}

func (c *Client) ready() error {
	if c == nil || c.client == nil {
		return ErrNoClient
	}
	return nil
}

// SearchWithContext performs search with context
func (c *Client) SearchWithContext(ctx context.Context, index, query string, options *meilisearch.SearchRequest) (*meilisearch.SearchResponse, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	resp, err := c.client.Index(index).SearchWithContext(ctx, query, options)
	if err != nil {
		return nil, fmt.Errorf("meilisearch search error: %w", err)
	}
	return resp, nil
}

// AddDocuments adds documents to Meilisearch and returns the enqueued task
func (c *Client) AddDocuments(index string, documents []any, primaryKey string) (*meilisearch.TaskInfo, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	var pk *string
	if primaryKey != "" {
		pk = &primaryKey
	}

	task, err := c.client.Index(index).AddDocuments(documents, &meilisearch.DocumentOptions{PrimaryKey: pk})
	if err != nil {
		return nil, fmt.Errorf("meilisearch add documents error: %w", err)
	}
	return task, nil
}

// GetDocument gets a single document from Meilisearch
func (c *Client) GetDocument(index, documentID string, documentPtr any) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.client.Index(index).GetDocument(documentID, nil, documentPtr); err != nil {
		return fmt.Errorf("meilisearch get document error: %w", err)
	}
	return nil
}

// DeleteDocument deletes a single document from Meilisearch
func (c *Client) DeleteDocument(index, documentID string) (*meilisearch.TaskInfo, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	task, err := c.client.Index(index).DeleteDocument(documentID, nil)
	if err != nil {
		return nil, fmt.Errorf("meilisearch delete document error: %w", err)
	}
	return task, nil
}

// GetIndex gets index information
func (c *Client) GetIndex(indexUID string) (*meilisearch.IndexResult, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	index, err := c.client.GetIndex(indexUID)
	if err != nil {
		return nil, fmt.Errorf("meilisearch get index error: %w", err)
	}
	return index, nil
}

// CreateIndex creates a new index
func (c *Client) CreateIndex(config *meilisearch.IndexConfig) (*meilisearch.TaskInfo, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	taskInfo, err := c.client.CreateIndex(config)
	if err != nil {
		return nil, fmt.Errorf("meilisearch create index error: %w", err)
	}
	return taskInfo, nil
}

// UpdateAttributes configures searchable, filterable and sortable attributes.
// Empty lists are left untouched.
func (c *Client) UpdateAttributes(indexUID string, searchable, filterable, sortable []string) error {
	if err := c.ready(); err != nil {
		return err
	}
	index := c.client.Index(indexUID)

	if len(searchable) > 0 {
		if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
			return fmt.Errorf("meilisearch update searchable attributes error: %w", err)
		}
	}
	if len(filterable) > 0 {
		filterableAny := make([]any, len(filterable))
		for i, f := range filterable {
			filterableAny[i] = f
		}
		if _, err := index.UpdateFilterableAttributes(&filterableAny); err != nil {
			return fmt.Errorf("meilisearch update filterable attributes error: %w", err)
		}
	}
	if len(sortable) > 0 {
		if _, err := index.UpdateSortableAttributes(&sortable); err != nil {
			return fmt.Errorf("meilisearch update sortable attributes error: %w", err)
		}
	}
	return nil
}

// WaitForTask waits for a task to complete
func (c *Client) WaitForTask(taskUID int64) (*meilisearch.Task, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	task, err := c.client.WaitForTask(taskUID, TaskInterval)
	if err != nil {
		return nil, fmt.Errorf("meilisearch wait for task error: %w", err)
	}
	return task, nil
}

// Health checks the health of Meilisearch
func (c *Client) Health() (*meilisearch.Health, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	health, err := c.client.Health()
	if err != nil {
		return nil, fmt.Errorf("meilisearch health error: %w", err)
	}
	return health, nil
}
