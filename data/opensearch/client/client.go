package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// ErrNoClient is returned by every call on a client without addresses
var ErrNoClient = errors.New("opensearch client is nil")

// Client OpenSearch client
type Client struct {
	client *opensearchapi.Client
}

// NewClient creates a new OpenSearch client
func NewClient(addresses []string, username, password string, insecure bool) (*Client, error) {
	if len(addresses) == 0 {
		return &Client{client: nil}, nil
	}

	// Configure transport with TLS options
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: insecure,
		},
	}

	client, err := opensearchapi.NewClient(
		opensearchapi.Config{
			Client: opensearch.Config{
				Addresses:  addresses,
				Username:   username,
				Password:   password,
				Transport:  transport,
				MaxRetries: 3,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("opensearch client creation error: %w", err)
	}

	return &Client{client: client}, nil
}

func (c *Client) ready() error {
	if c == nil || c.client == nil {
		return ErrNoClient
	}
	return nil
}

// Search performs a search in OpenSearch
func (c *Client) Search(ctx context.Context, indexName string, body []byte) (*opensearchapi.SearchResp, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{indexName},
		Body:    bytes.NewReader(body),
	})
}

// GetDocument fetches one document
func (c *Client) GetDocument(ctx context.Context, indexName, documentID string) (*opensearchapi.DocumentGetResp, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.client.Document.Get(ctx, opensearchapi.DocumentGetReq{
		Index:      indexName,
		DocumentID: documentID,
	})
}

// IndexDocument indexes a document in OpenSearch
func (c *Client) IndexDocument(ctx context.Context, indexName, documentID string, document []byte, refresh string) (*opensearchapi.IndexResp, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.client.Index(ctx, opensearchapi.IndexReq{
		Index:      indexName,
		DocumentID: documentID,
		Body:       bytes.NewReader(document),
		Params:     opensearchapi.IndexParams{Refresh: refresh},
	})
}

// DeleteDocument deletes a document from OpenSearch
func (c *Client) DeleteDocument(ctx context.Context, indexName, documentID, refresh string) (*opensearchapi.DocumentDeleteResp, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	return c.client.Document.Delete(ctx, opensearchapi.DocumentDeleteReq{
		Index:      indexName,
		DocumentID: documentID,
		Params:     opensearchapi.DocumentDeleteParams{Refresh: refresh},
	})
}

// CreateIndex creates a new index with optional mappings
func (c *Client) CreateIndex(ctx context.Context, indexName string, body []byte) error {
	if err := c.ready(); err != nil {
		return err
	}

	createReq := opensearchapi.IndicesCreateReq{Index: indexName}
	if len(body) > 0 {
		createReq.Body = bytes.NewReader(body)
	}
	_, err := c.client.Indices.Create(ctx, createReq)
	return err
}

// IndexExists checks if an index exists
func (c *Client) IndexExists(ctx context.Context, indexName string) (bool, error) {
	if err := c.ready(); err != nil {
		return false, err
	}

	res, err := c.client.Indices.Exists(ctx, opensearchapi.IndicesExistsReq{
		Indices: []string{indexName},
	})
	if res != nil && res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opensearch index exists error: %w", err)
	}
	return res.StatusCode == http.StatusOK, nil
}

// Health checks cluster health
func (c *Client) Health(ctx context.Context) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}

	res, err := c.client.Cluster.Health(ctx, &opensearchapi.ClusterHealthReq{})
	if err != nil {
		return "", fmt.Errorf("opensearch health check error: %w", err)
	}
	return res.Status, nil
}

// GetClient returns the OpenSearch client
func (c *Client) GetClient() *opensearchapi.Client {
	return c.client
}
