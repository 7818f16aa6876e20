package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/ncobase/pagination/ecode"
	"github.com/spf13/cast"
)

// Document is the generic key/value view of a filter request.
type Document map[string]any

// Provider derives clauses from a filter document.
type Provider interface {
	Clauses(doc Document) ([]Clause, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(doc Document) ([]Clause, error)

// Clauses calls f(doc)
func (f ProviderFunc) Clauses(doc Document) ([]Clause, error) {
	return f(doc)
}

// Rules returns a provider emitting one clause per field present in the
// document, in field order.
func Rules(fields ...Field) Provider {
	rules := make([]Field, len(fields))
	copy(rules, fields)
	return ruleSet(rules)
}

type ruleSet []Field

func (r ruleSet) Clauses(doc Document) ([]Clause, error) {
	var clauses []Clause
	for _, field := range r {
		value, ok := doc[field.RequestName]
		if !ok || value == nil {
			continue
		}

		clause, err := clauseFor(field, value)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	return clauses, nil
}

func clauseFor(field Field, value any) (Clause, error) {
	switch v := value.(type) {
	case []any:
		return listClause(field, v)
	case []string:
		items := make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
		return listClause(field, items)
	case map[string]any:
		return nil, ecode.ParseError(field.RequestName, fmt.Errorf("expected scalar or array, got object"))
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return listClause(field, items)
	}

	s, err := scalarString(field.RequestName, value)
	if err != nil {
		return nil, err
	}
	return Term{Field: field.BackendName, Value: s}, nil
}

func listClause(field Field, items []any) (Clause, error) {
	// An explicitly empty list selects documents without the field.
	if len(items) == 0 {
		return Missing{Field: field.BackendName}, nil
	}

	values := make([]string, 0, len(items))
	for _, item := range items {
		s, err := scalarString(field.RequestName, item)
		if err != nil {
			return nil, err
		}
		values = append(values, s)
	}
	return Terms{Field: field.BackendName, Values: values}, nil
}

func scalarString(name string, v any) (string, error) {
	switch v.(type) {
	case map[string]any, []any:
		return "", ecode.ParseError(name, fmt.Errorf("expected scalar, got %T", v))
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", ecode.ParseError(name, err)
	}
	return s, nil
}

// Filter is an ordered list of clause providers.
type Filter struct {
	providers []Provider
}

// NewFilter creates a filter from providers
func NewFilter(providers ...Provider) Filter {
	return Filter{}.With(providers...)
}

// With returns a filter whose clauses follow those of f
func (f Filter) With(providers ...Provider) Filter {
	next := make([]Provider, 0, len(f.providers)+len(providers))
	next = append(next, f.providers...)
	for _, p := range providers {
		if p != nil {
			next = append(next, p)
		}
	}
	return Filter{providers: next}
}

// Compile builds the query for doc. Absent fields produce no clause, so an
// empty document compiles to a query matching everything.
func (f Filter) Compile(doc Document) (*Query, error) {
	var clauses []Clause
	for _, p := range f.providers {
		cs, err := p.Clauses(doc)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, cs...)
	}
	return New(clauses...), nil
}

// Parse decodes a JSON object and compiles it
func (f Filter) Parse(data []byte) (*Query, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return f.Compile(doc)
}

// ParseFields compiles data with a rule per name in fields, or per key of the
// document when fields is empty.
func ParseFields(data []byte, fields ...string) (*Query, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		fields = slices.Sorted(maps.Keys(doc))
	}
	return NewFilter(Rules(Fields(fields...)...)).Compile(doc)
}

// ParseDocument decodes a JSON object into a Document, keeping numbers as json.Number
func ParseDocument(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, ecode.ParseError("filter", err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ecode.ParseError("filter", fmt.Errorf("expected object, got %T", raw))
	}
	return Document(obj), nil
}

// Decode unmarshals data into target and compiles the same document with f.
// target may be nil when only the query is needed.
func Decode(data []byte, target any, f Filter) (*Query, error) {
	if target != nil {
		if err := json.Unmarshal(data, target); err != nil {
			return nil, ecode.ParseError("filter", err)
		}
	}
	return f.Parse(data)
}
