package query

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ncobase/pagination/ecode"
)

// Clause is a single condition of a compiled query.
type Clause interface {
	// Source renders the clause in Elasticsearch query DSL.
	Source() map[string]any
}

// Term matches documents whose field equals Value.
type Term struct {
	Field string
	Value string
}

func (c Term) Source() map[string]any {
	return map[string]any{"term": map[string]any{c.Field: c.Value}}
}

// Terms matches documents whose field equals any of Values.
type Terms struct {
	Field  string
	Values []string
}

func (c Terms) Source() map[string]any {
	values := make([]string, len(c.Values))
	copy(values, c.Values)
	return map[string]any{"terms": map[string]any{c.Field: values}}
}

// Missing matches documents that have no indexed value for Field.
type Missing struct {
	Field string
}

func (c Missing) Source() map[string]any {
	return map[string]any{
		"bool": map[string]any{
			"must_not": []any{
				map[string]any{"exists": map[string]any{"field": c.Field}},
			},
		},
	}
}

// Range bounds Field. Nil bounds are left open.
type Range struct {
	Field string
	GT    any
	GTE   any
	LT    any
	LTE   any
}

func (c Range) Source() map[string]any {
	bounds := map[string]any{}
	for name, v := range map[string]any{"gt": c.GT, "gte": c.GTE, "lt": c.LT, "lte": c.LTE} {
		if v == nil {
			continue
		}
		if t, ok := v.(time.Time); ok {
			v = t.UTC().Format(time.RFC3339Nano)
		}
		bounds[name] = v
	}
	return map[string]any{"range": map[string]any{c.Field: bounds}}
}

// RawClause embeds caller supplied query DSL as a clause.
type RawClause struct {
	JSON json.RawMessage
}

func (c RawClause) Source() map[string]any {
	source, err := c.Object()
	if err != nil {
		return map[string]any{}
	}
	return source
}

// Object decodes the clause, failing unless it holds a JSON object
func (c RawClause) Object() (map[string]any, error) {
	var source map[string]any
	if err := json.Unmarshal(c.JSON, &source); err != nil || source == nil {
		return nil, ecode.ParseError("raw query", fmt.Errorf("want a JSON object, got %.40s", c.JSON))
	}
	return source, nil
}
