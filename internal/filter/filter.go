// Package filter compiles sparse listing criteria into a parameterized SQL
// predicate for the posts table.
package filter

import (
	"strconv"
	"strings"

	"github.com/letspunt/adpage/internal/storage"
	"github.com/letspunt/adpage/pkg/pagination"
)

type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

// ParseOrder returns OrderAsc only for an explicit ascending request.
func ParseOrder(raw string) Order {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "asc", "ascending":
		return OrderAsc
	default:
		return OrderDesc
	}
}

// FilterSet holds optional listing criteria. Zero values mean "not set".
type FilterSet struct {
	UserID   string
	Location string
	Status   string
	Category string
	Slug     string
	PostID   string

	SearchTerm string

	Colors    []string
	Services  []string
	Locations []string
	Countries []string
	Other     []string

	Order Order
	Page  pagination.OffsetRequest
}

type equalityField struct {
	column string
	value  func(FilterSet) (interface{}, bool)
}

// equalityFields is the canonical emission order.
var equalityFields = []equalityField{
	{column: "user_id", value: func(f FilterSet) (interface{}, bool) { return parseID(f.UserID) }},
	{column: "location", value: func(f FilterSet) (interface{}, bool) { return text(f.Location) }},
	{column: "post_status", value: func(f FilterSet) (interface{}, bool) { return text(f.Status) }},
	{column: "category", value: func(f FilterSet) (interface{}, bool) { return text(f.Category) }},
	{column: "slug", value: func(f FilterSet) (interface{}, bool) { return text(f.Slug) }},
	{column: "id", value: func(f FilterSet) (interface{}, bool) { return parseID(f.PostID) }},
}

type setField struct {
	column string
	values func(FilterSet) []string
}

var setFields = []setField{
	{column: "color", values: func(f FilterSet) []string { return f.Colors }},
	{column: "service", values: func(f FilterSet) []string { return f.Services }},
	{column: "location", values: func(f FilterSet) []string { return f.Locations }},
	{column: "country", values: func(f FilterSet) []string { return f.Countries }},
	{column: "other", values: func(f FilterSet) []string { return f.Other }},
}

// Compile turns fs into a clause that extends "... WHERE 1=1". It never
// fails: malformed optional criteria are dropped.
func Compile(fs FilterSet) CompiledPredicate {
	var b builder

	for _, f := range equalityFields {
		v, ok := f.value(fs)
		if !ok {
			continue
		}
		b.write(" AND " + f.column + " = " + b.bind(v))
	}

	for _, f := range setFields {
		values := present(f.values(fs))
		if len(values) == 0 {
			continue
		}
		placeholders := make([]string, len(values))
		for i, v := range values {
			placeholders[i] = b.bind(v)
		}
		b.write(" AND " + f.column + " IN (" + strings.Join(placeholders, ", ") + ")")
	}

	if term := strings.TrimSpace(fs.SearchTerm); term != "" {
		pattern := storage.ContainsPattern(term)
		b.write(" AND (title ILIKE " + b.bind(pattern) + " OR content ILIKE " + b.bind(pattern) + ")")
	}

	order := fs.Order
	if order != OrderAsc {
		order = OrderDesc
	}
	b.write(" ORDER BY created_at " + string(order) + ", id " + string(order))

	page := fs.Page
	page.Normalize(pagination.PageMaxSize)
	b.write(" LIMIT " + b.bind(page.Size) + " OFFSET " + b.bind(page.Offset()))

	return b.predicate()
}

func text(v string) (interface{}, bool) {
	v = strings.TrimSpace(v)
	return v, v != ""
}

func parseID(v string) (interface{}, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return nil, false
	}
	return id, true
}

func present(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
