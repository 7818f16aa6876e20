package paging

import (
	"github.com/ncobase/pagination/sorting"
)

// Request is a flat page request ordered by a single key
type Request struct {
	PageNumber  int    `json:"page_number"`
	PageSize    int    `json:"page_size"`
	OrderingKey string `json:"ordering_key,omitempty"`
	Descending  bool   `json:"descending,omitempty"`
}

// SortSpec returns the request ordering, nil without an ordering key
func (r *Request) SortSpec() sorting.Spec {
	if r == nil || r.OrderingKey == "" {
		return nil
	}
	return sorting.By(r.OrderingKey, r.Descending)
}
