package search

import (
	"strings"

	"github.com/letspunt/adpage/pkg/pagination"
)

// Query is a normalized search request.
type Query struct {
	RawTerm string
	Page    pagination.OffsetRequest
}

// NewQuery coerces raw request values. Garbage pagination input falls back
// to the defaults instead of failing.
func NewQuery(term, page, pageSize string, maxPageSize int) Query {
	return Query{
		RawTerm: term,
		Page:    pagination.ParseOffsetRequest(page, pageSize, maxPageSize),
	}
}

// Term is the raw term without surrounding whitespace.
func (q Query) Term() string {
	return strings.TrimSpace(q.RawTerm)
}

func (q Query) HasTerm() bool {
	return q.Term() != ""
}
