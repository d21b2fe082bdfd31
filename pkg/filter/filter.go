package filter

import (
	"time"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPageNumber keeps PageNumber*MaxPageSize within a 32-bit int.
	MaxPageNumber = 10_000_000
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Request is the body accepted by every POST /{resource}/filter endpoint.
// Filters are keyed by DTO field name; null values are ignored.
type Request struct {
	Filters      map[string]interface{} `json:"filters,omitempty"`
	RangeFilters RangeFilters           `json:"rangeFilters,omitempty"`
	Pagination   Pagination             `json:"pagination"`
}

// RangeFilters holds inclusive time ranges keyed by DTO field name.
type RangeFilters struct {
	Ranges map[string]Range `json:"ranges,omitempty"`
}

// Range is an inclusive time interval; either bound may be omitted.
type Range struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// Pagination selects one page of results. PageNumber is zero based.
type Pagination struct {
	PageNumber    int    `json:"pageNumber"`
	PageSize      int    `json:"pageSize"`
	SortBy        string `json:"sortBy,omitempty"`
	SortDirection string `json:"sortDirection,omitempty"`
}

// NewRequest returns an unfiltered request for the given page.
func NewRequest(pageNumber, pageSize int) Request {
	return Request{
		Pagination: Pagination{PageNumber: pageNumber, PageSize: pageSize},
	}
}

// With returns a copy of the request with an extra equality filter.
// Nested routes use it to pin a foreign key taken from the path.
func (r Request) With(field string, value interface{}) Request {
	filters := make(map[string]interface{}, len(r.Filters)+1)
	for k, v := range r.Filters {
		filters[k] = v
	}
	filters[field] = value
	r.Filters = filters
	return r
}

// normalize clamps paging values into their allowed range.
func (p Pagination) normalize() Pagination {
	if p.PageNumber < 0 {
		p.PageNumber = 0
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Page is one page of results plus the metadata clients need to walk the rest.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	CurrentPage   int   `json:"currentPage"`
}

// NewPage builds a page for the given query from one slice of content and
// the total number of matching rows.
func NewPage[T any](content []T, total int64, q Query) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if q.Limit > 0 {
		totalPages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}
	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		CurrentPage:   q.PageNumber,
	}
}

// MapPage converts the content of a page, keeping its metadata.
func MapPage[S, D any](p Page[S], fn func(S) D) Page[D] {
	content := make([]D, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, fn(item))
	}
	return Page[D]{
		Content:       content,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		CurrentPage:   p.CurrentPage,
	}
}
