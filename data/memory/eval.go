package memory

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ncobase/pagination/data/search"
	"github.com/spf13/cast"
)

func unsupported(format string, args ...any) error {
	return &search.ServerError{
		Status: http.StatusBadRequest,
		Type:   "parsing_exception",
		Reason: fmt.Sprintf(format, args...),
	}
}

// evaluate reports whether doc matches an Elasticsearch query source. A nil
// source matches everything.
func evaluate(source map[string]any, doc map[string]any) (bool, error) {
	for kind, body := range source {
		var (
			ok  bool
			err error
		)
		switch kind {
		case "match_all":
			ok = true
		case "bool":
			ok, err = evaluateBool(body, doc)
		case "term":
			ok, err = evaluateTerm(body, doc)
		case "terms":
			ok, err = evaluateTerms(body, doc)
		case "exists":
			ok, err = evaluateExists(body, doc)
		case "range":
			ok, err = evaluateRange(body, doc)
		default:
			return false, unsupported("unknown query [%s]", kind)
		}
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func clauses(v any) ([]map[string]any, error) {
	switch c := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return []map[string]any{c}, nil
	case []any:
		out := make([]map[string]any, 0, len(c))
		for _, item := range c {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, unsupported("malformed bool clause %v", item)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, unsupported("malformed bool clause %v", v)
	}
}

func evaluateBool(body any, doc map[string]any) (bool, error) {
	b, ok := body.(map[string]any)
	if !ok {
		return false, unsupported("[bool] malformed query")
	}
	for _, occur := range []string{"must", "filter"} {
		list, err := clauses(b[occur])
		if err != nil {
			return false, err
		}
		for _, c := range list {
			if ok, err := evaluate(c, doc); err != nil || !ok {
				return false, err
			}
		}
	}

	mustNot, err := clauses(b["must_not"])
	if err != nil {
		return false, err
	}
	for _, c := range mustNot {
		if ok, err := evaluate(c, doc); err != nil || ok {
			return false, err
		}
	}

	should, err := clauses(b["should"])
	if err != nil {
		return false, err
	}
	if len(should) == 0 {
		return true, nil
	}
	for _, c := range should {
		ok, err := evaluate(c, doc)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// single returns the only field and value of a leaf query body
func single(kind string, body any) (string, any, error) {
	m, ok := body.(map[string]any)
	if !ok || len(m) != 1 {
		return "", nil, unsupported("[%s] query malformed, expected a single field", kind)
	}
	for field, value := range m {
		return field, value, nil
	}
	return "", nil, nil
}

func evaluateTerm(body any, doc map[string]any) (bool, error) {
	field, value, err := single("term", body)
	if err != nil {
		return false, err
	}
	if m, ok := value.(map[string]any); ok {
		value = m["value"]
	}
	want := cast.ToString(value)
	return anyValue(lookup(doc, field), func(v any) bool {
		return cast.ToString(v) == want
	}), nil
}

func evaluateTerms(body any, doc map[string]any) (bool, error) {
	field, value, err := single("terms", body)
	if err != nil {
		return false, err
	}
	list, ok := value.([]any)
	if !ok {
		return false, unsupported("[terms] query does not support [%s] without an array", field)
	}
	set := make(map[string]struct{}, len(list))
	for _, item := range list {
		set[cast.ToString(item)] = struct{}{}
	}
	return anyValue(lookup(doc, field), func(v any) bool {
		_, ok := set[cast.ToString(v)]
		return ok
	}), nil
}

func evaluateExists(body any, doc map[string]any) (bool, error) {
	m, ok := body.(map[string]any)
	if !ok {
		return false, unsupported("[exists] malformed query")
	}
	field, ok := m["field"].(string)
	if !ok {
		return false, unsupported("[exists] must be provided with a [field]")
	}
	return anyValue(lookup(doc, field), func(any) bool { return true }), nil
}

func evaluateRange(body any, doc map[string]any) (bool, error) {
	field, value, err := single("range", body)
	if err != nil {
		return false, err
	}
	bounds, ok := value.(map[string]any)
	if !ok {
		return false, unsupported("[range] query malformed")
	}
	return anyValue(lookup(doc, field), func(v any) bool {
		for op, bound := range bounds {
			c, ok := compareRange(v, bound)
			if !ok {
				return false
			}
			switch op {
			case "gt":
				ok = c > 0
			case "gte":
				ok = c >= 0
			case "lt":
				ok = c < 0
			case "lte":
				ok = c <= 0
			default:
				// format, time_zone and boost do not bound the range
				ok = true
			}
			if !ok {
				return false
			}
		}
		return true
	}), nil
}

// lookup resolves a dotted field path
func lookup(doc map[string]any, path string) any {
	var current any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[part]
		if !ok {
			return nil
		}
	}
	return current
}

// anyValue applies match to a scalar value or to each element of an array.
// Null and empty arrays never match.
func anyValue(v any, match func(any) bool) bool {
	switch val := v.(type) {
	case nil:
		return false
	case []any:
		for _, item := range val {
			if item != nil && match(item) {
				return true
			}
		}
		return false
	default:
		return match(val)
	}
}

func compareRange(v, bound any) (int, bool) {
	if _, isNum := v.(float64); isNum {
		b, err := cast.ToFloat64E(bound)
		if err != nil {
			return 0, false
		}
		return compareFloat(v.(float64), b), true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	if vt, err := cast.ToTimeE(s); err == nil {
		if bt, err := cast.ToTimeE(bound); err == nil {
			return vt.Compare(bt), true
		}
	}
	return strings.Compare(s, cast.ToString(bound)), true
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareSortValues orders two field values. Missing values sort after
// present ones, numbers before strings.
func compareSortValues(a, b any) int {
	a, b = firstValue(a), firstValue(b)
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	af, aNum := a.(float64)
	bf, bNum := b.(float64)
	switch {
	case aNum && bNum:
		return compareFloat(af, bf)
	case aNum:
		return -1
	case bNum:
		return 1
	}

	as, bs := cast.ToString(a), cast.ToString(b)
	if at, err := time.Parse(time.RFC3339Nano, as); err == nil {
		if bt, err := time.Parse(time.RFC3339Nano, bs); err == nil {
			return at.Compare(bt)
		}
	}
	return strings.Compare(as, bs)
}

func firstValue(v any) any {
	if list, ok := v.([]any); ok {
		for _, item := range list {
			if item != nil {
				return item
			}
		}
		return nil
	}
	return v
}
