package search

import (
	"encoding/json"
	"time"

	"github.com/ncobase/pagination/data/config"
	"github.com/ncobase/pagination/query"
	"github.com/ncobase/pagination/sorting"
)

// Engine represents search engine type
type Engine string

const (
	Elasticsearch Engine = "elasticsearch"
	OpenSearch    Engine = "opensearch"
	Meilisearch   Engine = "meilisearch"
	Memory        Engine = "memory"
)

// Refresh controls when an indexed or deleted document becomes searchable
type Refresh string

const (
	RefreshFalse   Refresh = "false"
	RefreshTrue    Refresh = "true"
	RefreshWaitFor Refresh = "wait_for"
)

// Request represents unified search request
type Request struct {
	Index        string       `json:"index"`
	DocumentType string       `json:"document_type,omitempty"`
	Query        *query.Query `json:"query,omitempty"`
	Sort         sorting.Spec `json:"sort,omitempty"`
	From         int          `json:"from,omitempty"`
	Size         int          `json:"size,omitempty"`
}

// Body renders the request as an Elasticsearch compatible search body. Raw
// queries are embedded verbatim.
func (r *Request) Body() map[string]any {
	q := r.Query
	if q == nil {
		q = query.MatchAll()
	}
	body := map[string]any{
		"query":            q,
		"from":             r.From,
		"size":             r.Size,
		"track_total_hits": true,
	}
	if sort := r.Sort.Source(); len(sort) > 0 {
		body["sort"] = sort
	}
	return body
}

// Response represents unified search response
type Response struct {
	Total    int64         `json:"total"`
	Hits     []Hit         `json:"hits"`
	Duration time.Duration `json:"duration"`
	Engine   Engine        `json:"engine"`
}

// Hit represents search result item
type Hit struct {
	ID     string          `json:"id"`
	Score  float64         `json:"score"`
	Source json.RawMessage `json:"source"`
}

// GetResponse represents a single document lookup
type GetResponse struct {
	Found  bool            `json:"found"`
	ID     string          `json:"id"`
	Source json.RawMessage `json:"source,omitempty"`
}

// IndexRequest represents document indexing request
type IndexRequest struct {
	Index        string  `json:"index"`
	DocumentType string  `json:"document_type,omitempty"`
	DocumentID   string  `json:"document_id,omitempty"`
	Document     any     `json:"document"`
	Refresh      Refresh `json:"refresh,omitempty"`
}

// Schema describes an index to create. Mapping, when set, is the full index
// body for Elasticsearch compatible engines and takes precedence over Settings.
type Schema struct {
	Mapping  json.RawMessage
	Settings *config.IndexSettings
}
