package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ErrNoClient is returned by every call on a client without addresses
var ErrNoClient = errors.New("elasticsearch client is nil")

// Client Elasticsearch client
type Client struct {
	client *elasticsearch.Client
}

// Result is a raw Elasticsearch response
type Result struct {
	StatusCode int
	Body       []byte
}

// IsError reports whether the response status is not 2xx
func (r *Result) IsError() bool {
	return r.StatusCode < 200 || r.StatusCode > 299
}

// NewClient new Elasticsearch client
func NewClient(addresses []string, username, password string) (*Client, error) {
	if len(addresses) == 0 {
		return &Client{client: nil}, nil
	}

	return NewClientWithConfig(elasticsearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	})
}

// NewClientWithConfig creates a client from a full SDK configuration
func NewClientWithConfig(cfg elasticsearch.Config) (*Client, error) {
	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation error: %w", err)
	}
	return &Client{client: es}, nil
}

func (c *Client) ready() error {
	if c == nil || c.client == nil {
		return ErrNoClient
	}
	return nil
}

// read drains and closes an esapi response
func read(res *esapi.Response, err error) (*Result, error) {
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch read response error: %w", err)
	}
	return &Result{StatusCode: res.StatusCode, Body: body}, nil
}

// Search searches indexName with a JSON query body
func (c *Client) Search(ctx context.Context, indexName string, body []byte) (*Result, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return read(c.client.Search(
		c.client.Search.WithContext(ctx),
		c.client.Search.WithIndex(indexName),
		c.client.Search.WithBody(bytes.NewReader(body)),
		c.client.Search.WithTrackTotalHits(true),
	))
}

// GetDocument fetches one document
func (c *Client) GetDocument(ctx context.Context, indexName, documentID string) (*Result, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return read(c.client.Get(indexName, documentID, c.client.Get.WithContext(ctx)))
}

// IndexDocument index document to Elasticsearch
func (c *Client) IndexDocument(ctx context.Context, indexName, documentID string, document []byte, refresh string) (*Result, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: documentID,
		Body:       bytes.NewReader(document),
		Refresh:    refresh,
	}
	return read(req.Do(ctx, c.client))
}

// DeleteDocument delete document from Elasticsearch
func (c *Client) DeleteDocument(ctx context.Context, indexName, documentID, refresh string) (*Result, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	req := esapi.DeleteRequest{
		Index:      indexName,
		DocumentID: documentID,
		Refresh:    refresh,
	}
	return read(req.Do(ctx, c.client))
}

// IndexExists checks if an index exists
func (c *Client) IndexExists(ctx context.Context, indexName string) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}
	res, err := read(c.client.Indices.Exists([]string{indexName}, c.client.Indices.Exists.WithContext(ctx)))
	if err != nil {
		return false, err
	}
	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("elasticsearch index exists error: status %d", res.StatusCode)
	}
}

// CreateIndex creates an index with a settings and mappings body
func (c *Client) CreateIndex(ctx context.Context, indexName string, body []byte) (*Result, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return read(c.client.Indices.Create(
		indexName,
		c.client.Indices.Create.WithContext(ctx),
		c.client.Indices.Create.WithBody(bytes.NewReader(body)),
	))
}

// Info returns cluster information
func (c *Client) Info(ctx context.Context) (*Result, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return read(c.client.Info(c.client.Info.WithContext(ctx)))
}

// GetClient get Elasticsearch client
func (c *Client) GetClient() *elasticsearch.Client {
	return c.client
}
