package search

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/ncobase/pagination/data/config"
)

// hitsEnvelope is the search response shape shared by Elasticsearch and OpenSearch
type hitsEnvelope struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string          `json:"_id"`
			Score  *float64        `json:"_score"`
			Source json.RawMessage `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// DecodeHits decodes an Elasticsearch compatible search response body
func DecodeHits(body []byte) (*Response, error) {
	var env hitsEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	hits := make([]Hit, len(env.Hits.Hits))
	for i, h := range env.Hits.Hits {
		hits[i] = Hit{ID: h.ID, Source: h.Source}
		if h.Score != nil {
			hits[i].Score = *h.Score
		}
	}
	return &Response{Total: env.Hits.Total.Value, Hits: hits}, nil
}

// errorEnvelope is the error body shared by Elasticsearch and OpenSearch
type errorEnvelope struct {
	Error json.RawMessage `json:"error"`
}

type errorCause struct {
	Type      string       `json:"type"`
	Reason    string       `json:"reason"`
	CausedBy  *errorCause  `json:"caused_by"`
	RootCause []errorCause `json:"root_cause"`
	Failed    []struct {
		Reason errorCause `json:"reason"`
	} `json:"failed_shards"`
}

// DecodeServerError builds a ServerError from an Elasticsearch compatible
// error response. The raw body is kept as debug information.
func DecodeServerError(status int, body []byte) *ServerError {
	se := &ServerError{Status: status, Debug: strings.TrimSpace(string(body))}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || len(env.Error) == 0 {
		return se
	}

	var cause errorCause
	if err := json.Unmarshal(env.Error, &cause); err != nil {
		// Some endpoints report the error as a plain string
		var text string
		if json.Unmarshal(env.Error, &text) == nil {
			se.Reason = text
		}
		return se
	}

	se.Type = cause.Type
	se.Reason = cause.Reason
	switch {
	case cause.CausedBy != nil:
		se.CausedBy = cause.CausedBy.Reason
	case len(cause.Failed) > 0:
		se.CausedBy = cause.Failed[0].Reason.Reason
	case len(cause.RootCause) > 0 && cause.RootCause[0].Reason != cause.Reason:
		se.CausedBy = cause.RootCause[0].Reason
	}
	return se
}

// IndexBody renders the create index body for Elasticsearch compatible engines
func IndexBody(schema *Schema) ([]byte, error) {
	if schema != nil && len(schema.Mapping) > 0 {
		return schema.Mapping, nil
	}

	var settings *config.IndexSettings
	if schema != nil {
		settings = schema.Settings
	}
	return json.Marshal(BuildMapping(settings))
}

// BuildMapping renders index settings and field mappings
func BuildMapping(settings *config.IndexSettings) map[string]any {
	shards := 1
	replicas := 0
	refreshInterval := "1s"
	var searchableFields, filterableFields, sortableFields []string

	if settings != nil {
		if settings.Shards > 0 {
			shards = settings.Shards
		}
		if settings.Replicas >= 0 {
			replicas = settings.Replicas
		}
		if settings.RefreshInterval != "" {
			refreshInterval = settings.RefreshInterval
		}
		searchableFields = settings.SearchableFields
		filterableFields = settings.FilterableFields
		sortableFields = settings.SortableFields
	}

	properties := make(map[string]any)
	for _, field := range searchableFields {
		properties[FieldName(field)] = map[string]any{
			"type":   "text",
			"fields": map[string]any{"keyword": map[string]any{"type": "keyword", "ignore_above": 256}},
		}
	}
	for _, field := range append(append([]string{}, filterableFields...), sortableFields...) {
		if _, ok := properties[field]; ok {
			continue
		}
		if field == "created_at" || field == "updated_at" {
			properties[field] = map[string]any{"type": "date"}
		} else {
			properties[field] = map[string]any{"type": "keyword"}
		}
	}

	return map[string]any{
		"settings": map[string]any{
			"number_of_shards":   shards,
			"number_of_replicas": replicas,
			"refresh_interval":   refreshInterval,
		},
		"mappings": map[string]any{
			"properties": properties,
		},
	}
}

// FieldName strips a boost suffix such as ^2 from a searchable field
func FieldName(field string) string {
	if i := strings.IndexByte(field, '^'); i >= 0 {
		return field[:i]
	}
	return field
}

// MappedFields returns the field names a mapping declares, sorted
func MappedFields(mapping map[string]any) []string {
	mappings, _ := mapping["mappings"].(map[string]any)
	props, _ := mappings["properties"].(map[string]any)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
