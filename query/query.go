package query

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ncobase/pagination/ecode"
)

// Query is a compiled boolean query: a conjunction of clauses, or a raw
// caller supplied query. A Query is immutable once built.
type Query struct {
	must []Clause
	raw  json.RawMessage
}

// New creates a query requiring every clause
func New(clauses ...Clause) *Query {
	must := make([]Clause, 0, len(clauses))
	for _, c := range clauses {
		if c != nil {
			must = append(must, c)
		}
	}
	return &Query{must: must}
}

// MatchAll returns a query without clauses
func MatchAll() *Query {
	return New()
}

// Raw wraps a query DSL document that is passed to the backend as-is
func Raw(source string) *Query {
	return &Query{raw: json.RawMessage(source)}
}

// From converts a caller supplied value into a Query.
//
// A *Query is returned as-is and nil matches everything. Strings, byte slices
// and json.RawMessage are taken as raw query JSON; any other value is
// marshalled to JSON and used raw.
func From(v any) (*Query, error) {
	switch q := v.(type) {
	case nil:
		return MatchAll(), nil
	case *Query:
		if q == nil {
			return MatchAll(), nil
		}
		return q, nil
	case Query:
		return &q, nil
	case string:
		return checkedRaw([]byte(q))
	case []byte:
		return checkedRaw(q)
	case json.RawMessage:
		return checkedRaw(q)
	default:
		data, err := json.Marshal(q)
		if err != nil {
			return nil, ecode.ParseError("query", err)
		}
		return checkedRaw(data)
	}
}

func checkedRaw(data []byte) (*Query, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return MatchAll(), nil
	}
	if !json.Valid(data) {
		return nil, ecode.ParseError("query", fmt.Errorf("not valid JSON"))
	}
	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	return &Query{raw: raw}, nil
}

// IsRaw reports whether the query is a raw passthrough
func (q *Query) IsRaw() bool {
	return q != nil && q.raw != nil
}

// RawSource returns the raw query JSON, nil for compiled queries
func (q *Query) RawSource() json.RawMessage {
	if q == nil {
		return nil
	}
	return q.raw
}

// Clauses returns a copy of the compiled clauses in order
func (q *Query) Clauses() []Clause {
	if q == nil {
		return nil
	}
	clauses := make([]Clause, len(q.must))
	copy(clauses, q.must)
	return clauses
}

// Len returns the number of compiled clauses
func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return len(q.must)
}

// And returns a new query that also requires clauses. A raw query is kept as
// the first clause of the result.
func (q *Query) And(clauses ...Clause) *Query {
	if q == nil {
		return New(clauses...)
	}
	base := q.Clauses()
	if q.IsRaw() {
		base = []Clause{RawClause{JSON: q.raw}}
	}
	return New(append(base, clauses...)...)
}

// Source renders the query in Elasticsearch query DSL. A raw query that is
// not a JSON object renders as an empty clause; DSL reports it instead.
func (q *Query) Source() map[string]any {
	if q.IsRaw() {
		return RawClause{JSON: q.raw}.Source()
	}

	must := make([]any, 0, q.Len())
	for _, c := range q.Clauses() {
		must = append(must, c.Source())
	}
	return map[string]any{"bool": map[string]any{"must": must}}
}

// DSL renders the query in Elasticsearch query DSL, failing with ErrParse
// when a raw query or raw clause is not a JSON object.
func (q *Query) DSL() (map[string]any, error) {
	if q.IsRaw() {
		return RawClause{JSON: q.raw}.Object()
	}

	must := make([]any, 0, q.Len())
	for _, c := range q.Clauses() {
		if raw, ok := c.(RawClause); ok {
			source, err := raw.Object()
			if err != nil {
				return nil, err
			}
			must = append(must, source)
			continue
		}
		must = append(must, c.Source())
	}
	return map[string]any{"bool": map[string]any{"must": must}}, nil
}

// MarshalJSON renders the query DSL
func (q *Query) MarshalJSON() ([]byte, error) {
	if q.IsRaw() {
		if _, err := (RawClause{JSON: q.raw}).Object(); err != nil {
			return nil, err
		}
		return q.raw, nil
	}
	source, err := q.DSL()
	if err != nil {
		return nil, err
	}
	return json.Marshal(source)
}
