package api

import (
	"strconv"
	"strings"

	"github.com/gobuffalo/buffalo"
)

const (
	defaultRecordLimit = 10
	maxRecordLimit     = 50
)

// QueryParams narrows a list endpoint: `filter=status:paid,booking_id:<uuid>&limit=20&page=2`
type QueryParams struct {
	filters map[string]string
	limit   int
	page    int
}

// Limit is the page size, clamped to 1..50
func (q QueryParams) Limit() int {
	return clamp(q.limit, 1, maxRecordLimit)
}

// Page is the 1-based page number
func (q QueryParams) Page() int {
	return max(q.page, 1)
}

// Filter returns the value given for a filter field, or "" if there is none
func (q QueryParams) Filter(field string) string {
	return q.filters[field]
}

// NewQueryParams reads the filter, limit, and page request parameters. Malformed values are ignored.
func NewQueryParams(values buffalo.ParamValues) QueryParams {
	q := QueryParams{
		filters: map[string]string{},
		limit:   intParam(values, "limit", defaultRecordLimit),
		page:    intParam(values, "page", 1),
	}

	for _, pair := range strings.Split(values.Get("filter"), ",") {
		field, value, found := strings.Cut(pair, ":")
		if !found {
			continue
		}
		q.filters[strings.TrimSpace(field)] = strings.TrimSpace(value)
	}
	return q
}

func intParam(values buffalo.ParamValues, name string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(values.Get(name)))
	if err != nil {
		return fallback
	}
	return n
}

func clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}
