package search

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNoEngineAvailable = errors.New("no search engine available")
	ErrEngineNotFound    = errors.New("search engine not found")
	ErrNotConfigured     = errors.New("search engine not configured")
	ErrIndexNotFound     = errors.New("index not found")
)

// ServerError is an error reported by a search engine
type ServerError struct {
	Status   int
	Type     string
	Reason   string
	CausedBy string
	// Debug holds low level detail such as the raw response body
	Debug string
}

func (e *ServerError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "search error: status %d", e.Status)
	if e.Type != "" {
		fmt.Fprintf(&b, ": %s", e.Type)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.CausedBy != "" {
		fmt.Fprintf(&b, " (caused by %s)", e.CausedBy)
	}
	return b.String()
}

// Is matches ErrIndexNotFound for missing index errors
func (e *ServerError) Is(target error) bool {
	return target == ErrIndexNotFound && e.Status == http.StatusNotFound &&
		(e.Type == "index_not_found_exception" || e.Type == "index_not_found")
}

// IsSortMappingMissing reports whether err is a search failure caused by
// sorting on a field that has no mapping.
func IsSortMappingMissing(err error) bool {
	var se *ServerError
	if !errors.As(err, &se) {
		return false
	}
	text := strings.ToLower(se.Reason + " " + se.CausedBy + " " + se.Debug)
	return strings.Contains(text, "in order to sort on") ||
		strings.Contains(text, "no mapping found for") ||
		strings.Contains(text, "is not sortable")
}

// IsNotFound reports whether err is a backend 404
func IsNotFound(err error) bool {
	var se *ServerError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

// IsBenign reports whether err may be ignored by a search: the index or the
// sort field does not exist yet.
func IsBenign(err error) bool {
	return IsSortMappingMissing(err) || IsNotFound(err)
}
