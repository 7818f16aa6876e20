package query

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ncobase/pagination/ecode"
)

func TestSource_EmptyQueryMatchesAll(t *testing.T) {
	data, err := json.Marshal(MatchAll())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"bool":{"must":[]}}` {
		t.Errorf("unexpected source %s", data)
	}
}

func TestSource_Conjunction(t *testing.T) {
	q := New(Term{Field: "status", Value: "open"}, Terms{Field: "tag", Values: []string{"a", "b"}})

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"bool":{"must":[{"term":{"status":"open"}},{"terms":{"tag":["a","b"]}}]}}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestFrom(t *testing.T) {
	compiled := New(Term{Field: "a", Value: "b"})

	tests := []struct {
		name    string
		in      any
		raw     bool
		clauses int
	}{
		{"nil", nil, false, 0},
		{"compiled", compiled, false, 1},
		{"string", `{"match_all":{}}`, true, 0},
		{"bytes", []byte(`{"match_all":{}}`), true, 0},
		{"native", map[string]any{"match_all": map[string]any{}}, true, 0},
		{"blank", "  ", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := From(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if q.IsRaw() != tt.raw || q.Len() != tt.clauses {
				t.Errorf("expected raw=%v clauses=%d, got raw=%v clauses=%d", tt.raw, tt.clauses, q.IsRaw(), q.Len())
			}
		})
	}

	if q, _ := From(compiled); q != compiled {
		t.Error("expected compiled query to pass through unchanged")
	}

	if _, err := From("{not json"); !errors.Is(err, ecode.ErrParse) {
		t.Errorf("expected ErrParse for invalid raw JSON, got %v", err)
	}
}

func TestRawMarshalsVerbatim(t *testing.T) {
	q := Raw(`{"match":{"title":"go"}}`)
	data, _ := json.Marshal(q)
	if string(data) != `{"match":{"title":"go"}}` {
		t.Errorf("unexpected raw output %s", data)
	}
}

func TestRawNonObject(t *testing.T) {
	for _, q := range []*Query{
		Raw(`"rating > 3"`),
		Raw(`[1,2]`),
		Raw(`"rating > 3"`).And(Term{Field: "doc_type", Value: "note"}),
	} {
		if _, err := q.DSL(); !errors.Is(err, ecode.ErrParse) {
			t.Errorf("DSL(%s) error = %v, want ErrParse", q.RawSource(), err)
		}
		if _, err := json.Marshal(q); !errors.Is(err, ecode.ErrParse) {
			t.Errorf("Marshal() error = %v, want ErrParse", err)
		}
	}

	source, err := Raw(`{"match_all":{}}`).And(Term{Field: "doc_type", Value: "note"}).DSL()
	if err != nil {
		t.Fatalf("DSL() error = %v", err)
	}
	must := source["bool"].(map[string]any)["must"].([]any)
	if _, ok := must[0].(map[string]any)["match_all"]; !ok || len(must) != 2 {
		t.Errorf("unexpected scoped raw source %v", source)
	}
}

func TestAnd(t *testing.T) {
	base := New(Term{Field: "a", Value: "1"})
	scoped := base.And(Term{Field: "doc_type", Value: "book"})

	if base.Len() != 1 {
		t.Errorf("expected base to be unchanged, got %d clauses", base.Len())
	}
	if scoped.Len() != 2 {
		t.Errorf("expected 2 clauses, got %d", scoped.Len())
	}

	raw := Raw(`{"match_all":{}}`).And(Term{Field: "doc_type", Value: "book"})
	clauses := raw.Clauses()
	if len(clauses) != 2 {
		t.Fatalf("expected raw and term clauses, got %d", len(clauses))
	}
	if _, ok := clauses[0].(RawClause); !ok {
		t.Errorf("expected raw clause first, got %T", clauses[0])
	}
}

func TestRangeSource(t *testing.T) {
	src := Range{Field: "price", GTE: 10, LT: 20}.Source()
	bounds := src["range"].(map[string]any)["price"].(map[string]any)
	if bounds["gte"] != 10 || bounds["lt"] != 20 {
		t.Errorf("unexpected bounds %v", bounds)
	}
	if _, ok := bounds["gt"]; ok {
		t.Error("did not expect open gt bound to be rendered")
	}
}
