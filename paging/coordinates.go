package paging

import (
	"encoding/json"

	"github.com/ncobase/pagination/ecode"
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 50
	MaxPageSize       = 10000
)

// Coordinates identifies a slice of a result set: a 1-based page number and
// a page size.
type Coordinates struct {
	pageNumber int
	pageSize   int
}

// NewCoordinates creates coordinates, rejecting negative values
func NewCoordinates(pageNumber, pageSize int) (Coordinates, error) {
	if pageNumber < 0 {
		return Coordinates{}, ecode.InvalidArgument("page number", pageNumber)
	}
	if pageSize < 0 {
		return Coordinates{}, ecode.InvalidArgument("page size", pageSize)
	}
	return Coordinates{pageNumber: pageNumber, pageSize: pageSize}, nil
}

func (c Coordinates) PageNumber() int { return c.pageNumber }

func (c Coordinates) PageSize() int { return c.pageSize }

// StartItemIndex is the zero-based position of the first item of the page
func (c Coordinates) StartItemIndex() int {
	if c.pageNumber > 0 {
		return (c.pageNumber - 1) * c.pageSize
	}
	return 0
}

// EndItemIndex is the zero-based position just past the page
func (c Coordinates) EndItemIndex() int {
	return c.pageNumber * c.pageSize
}

func (c Coordinates) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PageNumber int `json:"page_number"`
		PageSize   int `json:"page_size"`
	}{c.pageNumber, c.pageSize})
}
