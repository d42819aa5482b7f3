package filter

import (
	"math"
	"testing"

	"github.com/letspunt/adpage/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Empty(t *testing.T) {
	p := Compile(FilterSet{})

	assert.Equal(t, " ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2", p.ClauseText)
	assert.Equal(t, []interface{}{10, 0}, p.OrderedParams)
	require.NoError(t, p.Validate())
}

func TestCompile_EqualityCanonicalOrder(t *testing.T) {
	fs := FilterSet{
		PostID:   "42",
		Slug:     "red-bike",
		Category: "bikes",
		Status:   "active",
		Location: "Zagreb",
		UserID:   "7",
		Page:     pagination.OffsetRequest{Page: 2, Size: 5},
	}

	p := Compile(fs)

	assert.Equal(t,
		" AND user_id = $1 AND location = $2 AND post_status = $3 AND category = $4 AND slug = $5 AND id = $6"+
			" ORDER BY created_at DESC, id DESC LIMIT $7 OFFSET $8",
		p.ClauseText)
	assert.Equal(t, []interface{}{int64(7), "Zagreb", "active", "bikes", "red-bike", int64(42), 5, 5}, p.OrderedParams)
	require.NoError(t, p.Validate())
}

func TestCompile_Deterministic(t *testing.T) {
	a := FilterSet{Category: "cars", UserID: "3", Colors: []string{"red"}}
	b := FilterSet{Colors: []string{"red"}, UserID: "3", Category: "cars"}

	assert.Equal(t, Compile(a), Compile(b))
}

func TestCompile_MalformedIDsAreElided(t *testing.T) {
	tests := []struct {
		name string
		fs   FilterSet
	}{
		{name: "non numeric user", fs: FilterSet{UserID: "abc"}},
		{name: "non numeric post", fs: FilterSet{PostID: "1; DROP TABLE posts"}},
		{name: "float user", fs: FilterSet{UserID: "1.5"}},
		{name: "whitespace only", fs: FilterSet{UserID: "   ", Location: " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compile(tt.fs)

			assert.NotContains(t, p.ClauseText, "user_id")
			assert.NotContains(t, p.ClauseText, " id =")
			assert.NotContains(t, p.ClauseText, "location")
			assert.Len(t, p.OrderedParams, 2)
			require.NoError(t, p.Validate())
		})
	}
}

func TestCompile_SetFields(t *testing.T) {
	fs := FilterSet{
		Status:    "active",
		Colors:    []string{"red", "blue"},
		Services:  []string{},
		Locations: []string{"Split"},
		Countries: nil,
		Other:     []string{"", "  "},
	}

	p := Compile(fs)

	assert.Equal(t,
		" AND post_status = $1 AND color IN ($2, $3) AND location IN ($4)"+
			" ORDER BY created_at DESC, id DESC LIMIT $5 OFFSET $6",
		p.ClauseText)
	assert.Equal(t, []interface{}{"active", "red", "blue", "Split", 10, 0}, p.OrderedParams)
	assert.NotContains(t, p.ClauseText, "IN ()")
	assert.NotContains(t, p.ClauseText, "service")
	assert.NotContains(t, p.ClauseText, "other")
	require.NoError(t, p.Validate())
}

func TestCompile_SetFieldsPreserveGivenOrder(t *testing.T) {
	p := Compile(FilterSet{Countries: []string{"HR", "AT", "DE"}})

	assert.Equal(t, []interface{}{"HR", "AT", "DE", 10, 0}, p.OrderedParams)
	assert.Contains(t, p.ClauseText, "country IN ($1, $2, $3)")
}

func TestCompile_SearchTerm(t *testing.T) {
	p := Compile(FilterSet{Category: "tools", SearchTerm: "  drill  "})

	assert.Equal(t,
		" AND category = $1 AND (title ILIKE $2 OR content ILIKE $3)"+
			" ORDER BY created_at DESC, id DESC LIMIT $4 OFFSET $5",
		p.ClauseText)
	assert.Equal(t, []interface{}{"tools", "%drill%", "%drill%", 10, 0}, p.OrderedParams)
	require.NoError(t, p.Validate())
}

func TestCompile_OrderAndPagination(t *testing.T) {
	tests := []struct {
		name       string
		order      Order
		page       pagination.OffsetRequest
		wantOrder  string
		wantLimit  int
		wantOffset int
	}{
		{name: "ascending", order: OrderAsc, page: pagination.OffsetRequest{Page: 3, Size: 9}, wantOrder: "ASC", wantLimit: 9, wantOffset: 18},
		{name: "descending", order: OrderDesc, page: pagination.OffsetRequest{Page: 1, Size: 20}, wantOrder: "DESC", wantLimit: 20, wantOffset: 0},
		{name: "unknown order defaults", order: Order("sideways"), wantOrder: "DESC", wantLimit: 10, wantOffset: 0},
		{name: "negative page coerced", page: pagination.OffsetRequest{Page: -4, Size: -1}, wantOrder: "DESC", wantLimit: 10, wantOffset: 0},
		{name: "max int page clamped", page: pagination.OffsetRequest{Page: math.MaxInt, Size: 10}, wantOrder: "DESC", wantLimit: 10, wantOffset: (math.MaxInt/10 - 1) * 10},
		{name: "overflowing page clamped", page: pagination.OffsetRequest{Page: math.MaxInt/5 + 3, Size: 10}, wantOrder: "DESC", wantLimit: 10, wantOffset: (math.MaxInt/10 - 1) * 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compile(FilterSet{Order: tt.order, Page: tt.page})

			assert.Contains(t, p.ClauseText, "ORDER BY created_at "+tt.wantOrder)
			n := len(p.OrderedParams)
			assert.Equal(t, tt.wantLimit, p.OrderedParams[n-2])
			assert.Equal(t, tt.wantOffset, p.OrderedParams[n-1])
			assert.GreaterOrEqual(t, p.OrderedParams[n-1].(int), 0)
		})
	}
}

func TestCompile_PlaceholderParity(t *testing.T) {
	fs := FilterSet{
		UserID:     "1",
		Location:   "Osijek",
		Status:     "active",
		Category:   "furniture",
		Slug:       "old-chair",
		PostID:     "9",
		SearchTerm: "chair",
		Colors:     []string{"brown", "black"},
		Services:   []string{"delivery"},
		Locations:  []string{"Osijek", "Vukovar"},
		Countries:  []string{"HR"},
		Other:      []string{"vintage"},
		Order:      OrderAsc,
		Page:       pagination.OffsetRequest{Page: 4, Size: 25},
	}

	p := Compile(fs)

	require.NoError(t, p.Validate())
	assert.Len(t, p.OrderedParams, 6+2+1+2+1+1+2+2)
}

func TestParseOrder(t *testing.T) {
	assert.Equal(t, OrderAsc, ParseOrder("asc"))
	assert.Equal(t, OrderAsc, ParseOrder(" ASC "))
	assert.Equal(t, OrderDesc, ParseOrder("desc"))
	assert.Equal(t, OrderDesc, ParseOrder(""))
	assert.Equal(t, OrderDesc, ParseOrder("random"))
}

func TestCompiledPredicate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       CompiledPredicate
		wantErr bool
	}{
		{name: "matching", p: CompiledPredicate{ClauseText: " AND a = $1 AND b = $2", OrderedParams: []interface{}{1, 2}}},
		{name: "repeated reference", p: CompiledPredicate{ClauseText: " AND (a = $1 OR b = $1)", OrderedParams: []interface{}{1}}},
		{name: "too few params", p: CompiledPredicate{ClauseText: " AND a = $1 AND b = $2", OrderedParams: []interface{}{1}}, wantErr: true},
		{name: "too many params", p: CompiledPredicate{ClauseText: " AND a = $1", OrderedParams: []interface{}{1, 2}}, wantErr: true},
		{name: "gap", p: CompiledPredicate{ClauseText: " AND a = $1 AND b = $3", OrderedParams: []interface{}{1, 2, 3}}, wantErr: true},
		{name: "out of order", p: CompiledPredicate{ClauseText: " AND a = $2 AND b = $1", OrderedParams: []interface{}{1, 2}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCompiledPredicate_Statement(t *testing.T) {
	p := Compile(FilterSet{Slug: "x"})

	assert.Equal(t,
		"SELECT id FROM posts WHERE 1=1 AND slug = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3",
		p.Statement("SELECT id FROM posts WHERE 1=1 "))
}
