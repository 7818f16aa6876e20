package meilisearch

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ncobase/pagination/data/search"
	"github.com/ncobase/pagination/query"
	"github.com/ncobase/pagination/sorting"
	"github.com/spf13/cast"
)

// compileFilter turns q into a Meilisearch filter expression. Raw queries must
// be a JSON string holding a filter expression.
func compileFilter(q *query.Query) (string, error) {
	if q == nil {
		return "", nil
	}
	if q.IsRaw() {
		return rawFilter(q.RawSource())
	}

	parts := make([]string, 0, q.Len())
	for _, c := range q.Clauses() {
		expr, err := clauseFilter(c)
		if err != nil {
			return "", err
		}
		if expr != "" {
			parts = append(parts, expr)
		}
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	for i, p := range parts {
		parts[i] = "(" + p + ")"
	}
	return strings.Join(parts, " AND "), nil
}

func rawFilter(raw json.RawMessage) (string, error) {
	var expr string
	if err := json.Unmarshal(raw, &expr); err != nil {
		return "", &search.ServerError{
			Status: http.StatusBadRequest,
			Type:   "invalid_search_filter",
			Reason: "raw queries must be a filter expression string",
			Debug:  string(raw),
		}
	}
	return strings.TrimSpace(expr), nil
}

func clauseFilter(c query.Clause) (string, error) {
	switch cl := c.(type) {
	case query.Term:
		return fmt.Sprintf("%s = %s", cl.Field, quote(cl.Value)), nil
	case query.Terms:
		if len(cl.Values) == 0 {
			return "", nil
		}
		values := make([]string, len(cl.Values))
		for i, v := range cl.Values {
			values[i] = quote(v)
		}
		return fmt.Sprintf("%s IN [%s]", cl.Field, strings.Join(values, ", ")), nil
	case query.Missing:
		return fmt.Sprintf("%[1]s NOT EXISTS OR %[1]s IS EMPTY OR %[1]s IS NULL", cl.Field), nil
	case query.Range:
		return rangeFilter(cl)
	case query.RawClause:
		return rawFilter(cl.JSON)
	default:
		return "", &search.ServerError{
			Status: http.StatusBadRequest,
			Type:   "invalid_search_filter",
			Reason: fmt.Sprintf("unsupported clause %T", c),
		}
	}
}

func rangeFilter(r query.Range) (string, error) {
	bounds := []struct {
		op    string
		value any
	}{
		{">", r.GT},
		{">=", r.GTE},
		{"<", r.LT},
		{"<=", r.LTE},
	}

	var parts []string
	for _, b := range bounds {
		if b.value == nil {
			continue
		}
		v, err := rangeValue(b.value)
		if err != nil {
			return "", &search.ServerError{
				Status: http.StatusBadRequest,
				Type:   "invalid_search_filter",
				Reason: fmt.Sprintf("range on %s: %v", r.Field, err),
			}
		}
		parts = append(parts, fmt.Sprintf("%s %s %s", r.Field, b.op, v))
	}
	return strings.Join(parts, " AND "), nil
}

// rangeValue renders a bound as a number. Times become unix seconds since
// Meilisearch only compares numbers.
func rangeValue(v any) (string, error) {
	switch t := v.(type) {
	case time.Time:
		return strconv.FormatInt(t.Unix(), 10), nil
	case *time.Time:
		if t == nil {
			return "", fmt.Errorf("nil time")
		}
		return strconv.FormatInt(t.Unix(), 10), nil
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64), nil
		}
		tm, err := cast.ToTimeE(t)
		if err != nil {
			return "", fmt.Errorf("%q is neither a number nor a time", t)
		}
		return strconv.FormatInt(tm.Unix(), 10), nil
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// compileSort renders spec as field:asc tokens
func compileSort(spec sorting.Spec) []string {
	if len(spec) == 0 {
		return nil
	}
	tokens := make([]string, len(spec))
	for i, r := range spec {
		tokens[i] = fmt.Sprintf("%s:%s", r.Field, r.Order())
	}
	return tokens
}
