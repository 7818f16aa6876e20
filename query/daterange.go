package query

import (
	"encoding/json"
	"time"

	"github.com/ncobase/pagination/ecode"
	"github.com/spf13/cast"
)

// DateRange returns a provider bounding backendField strictly after the
// sinceKey value and strictly before the untilKey value. Either bound may be
// absent; without both no clause is emitted.
func DateRange(backendField, sinceKey, untilKey string) Provider {
	return ProviderFunc(func(doc Document) ([]Clause, error) {
		since, err := timeValue(doc, sinceKey)
		if err != nil {
			return nil, err
		}
		until, err := timeValue(doc, untilKey)
		if err != nil {
			return nil, err
		}
		if since == nil && until == nil {
			return nil, nil
		}

		r := Range{Field: backendField}
		if since != nil {
			r.GT = *since
		}
		if until != nil {
			r.LT = *until
		}
		return []Clause{r}, nil
	})
}

func timeValue(doc Document, key string) (*time.Time, error) {
	if key == "" {
		return nil, nil
	}
	v, ok := doc[key]
	if !ok || v == nil {
		return nil, nil
	}
	if n, ok := v.(json.Number); ok {
		secs, err := n.Int64()
		if err != nil {
			return nil, ecode.ParseError(key, err)
		}
		v = secs
	}

	t, err := cast.ToTimeE(v)
	if err != nil {
		return nil, ecode.ParseError(key, err)
	}
	t = t.UTC()
	return &t, nil
}
