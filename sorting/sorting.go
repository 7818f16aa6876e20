// Package sorting translates sort requests into ordered sort rules and back.
//
// The request form is a list of single-key objects, first entry wins:
//
//	[{"created_at": {"order": "desc"}}, {"title": {"order": "asc"}}]
//
// A missing or unknown order is descending. The serialized form emits one
// object per rule:
//
//	[{"field": "created_at", "order": "Descending"}, {"field": "title", "order": "Ascending"}]
//
// Parse accepts both forms, so serializing and parsing again yields the same
// rules.
package sorting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ncobase/pagination/ecode"
)

// Order represents sorting direction.
type Order string

const (
	Ascending  Order = "asc"  // Ascending order
	Descending Order = "desc" // Descending order
)

// Rule is one sorting priority level.
type Rule struct {
	Field      string
	Descending bool
}

// Order returns the rule direction
func (r Rule) Order() Order {
	if r.Descending {
		return Descending
	}
	return Ascending
}

// name returns the serialized direction name
func (r Rule) name() string {
	if r.Descending {
		return "Descending"
	}
	return "Ascending"
}

// Spec is an ordered list of rules, highest priority first.
type Spec []Rule

// By creates a single rule spec
func By(field string, descending bool) Spec {
	return Spec{{Field: field, Descending: descending}}
}

// Then returns s extended with a lower priority rule
func (s Spec) Then(field string, descending bool) Spec {
	next := make(Spec, 0, len(s)+1)
	next = append(next, s...)
	return append(next, Rule{Field: field, Descending: descending})
}

// Fields returns the rule fields in priority order
func (s Spec) Fields() []string {
	fields := make([]string, len(s))
	for i, r := range s {
		fields[i] = r.Field
	}
	return fields
}

// Parse parses the request or serialized form of a sort spec
func Parse(data []byte) (Spec, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var entries []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, ecode.ParseError("sort", err)
		}
	case '{':
		entries = []json.RawMessage{data}
	default:
		return nil, ecode.ParseError("sort", fmt.Errorf("expected array of objects"))
	}

	spec := make(Spec, 0, len(entries))
	for _, entry := range entries {
		rules, err := parseEntry(entry)
		if err != nil {
			return nil, err
		}
		spec = append(spec, rules...)
	}
	return spec, nil
}

func parseEntry(entry json.RawMessage) ([]Rule, error) {
	members, err := orderedMembers(entry)
	if err != nil {
		return nil, err
	}

	// Serialized form: {"field": "name", "order": "Ascending"}
	if raw, ok := lookup(members, "field"); ok {
		var field string
		if json.Unmarshal(raw, &field) == nil {
			var order string
			if o, ok := lookup(members, "order"); ok {
				_ = json.Unmarshal(o, &order)
			}
			return []Rule{{Field: field, Descending: !isAscending(order)}}, nil
		}
	}

	rules := make([]Rule, 0, len(members))
	for _, m := range members {
		order, err := memberOrder(m.key, m.value)
		if err != nil {
			return nil, err
		}
		rules = append(rules, Rule{Field: m.key, Descending: !isAscending(order)})
	}
	return rules, nil
}

// memberOrder reads {"order": "asc"} or the "asc" shorthand
func memberOrder(key string, raw json.RawMessage) (string, error) {
	var order string
	if err := json.Unmarshal(raw, &order); err == nil {
		return order, nil
	}

	var opts struct {
		Order *string `json:"order"`
	}
	if err := json.Unmarshal(raw, &opts); err != nil {
		return "", ecode.ParseError("sort "+key, err)
	}
	if opts.Order == nil {
		return "", nil
	}
	return *opts.Order, nil
}

func isAscending(order string) bool {
	order = strings.TrimSpace(order)
	return strings.EqualFold(order, string(Ascending)) || strings.EqualFold(order, "ascending")
}

type member struct {
	key   string
	value json.RawMessage
}

// orderedMembers decodes an object keeping its key order
func orderedMembers(data json.RawMessage) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, ecode.ParseError("sort", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ecode.ParseError("sort", fmt.Errorf("expected object entry"))
	}

	var members []member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, ecode.ParseError("sort", err)
		}
		key, _ := keyTok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, ecode.ParseError("sort", err)
		}
		members = append(members, member{key: key, value: value})
	}
	return members, nil
}

func lookup(members []member, key string) (json.RawMessage, bool) {
	for _, m := range members {
		if m.key == key {
			return m.value, true
		}
	}
	return nil, false
}

// UnmarshalJSON parses either form
func (s *Spec) UnmarshalJSON(data []byte) error {
	spec, err := Parse(data)
	if err != nil {
		return err
	}
	*s = spec
	return nil
}

type serializedRule struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// MarshalJSON emits the serialized form
func (s Spec) MarshalJSON() ([]byte, error) {
	out := make([]serializedRule, len(s))
	for i, r := range s {
		out[i] = serializedRule{Field: r.Field, Order: r.name()}
	}
	return json.Marshal(out)
}

// Source renders the spec as Elasticsearch sort clauses. Unmapped fields sort
// as keyword so a missing mapping does not fail the search. The _score and
// _doc sorts take no mapping options.
func (s Spec) Source() []any {
	out := make([]any, 0, len(s))
	for _, r := range s {
		if r.Field == "" {
			continue
		}
		opts := map[string]any{"order": string(r.Order())}
		if r.Field != "_score" && r.Field != "_doc" {
			opts["unmapped_type"] = "keyword"
		}
		out = append(out, map[string]any{r.Field: opts})
	}
	return out
}
