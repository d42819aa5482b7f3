package pagination

import (
	"math"
	"strconv"
	"strings"
)

// OffsetRequest represents an offset-based pagination request
type OffsetRequest struct {
	Page int `json:"page" query:"page"`
	Size int `json:"pageSize" query:"pageSize"`
}

// ParseOffsetRequest builds a normalized request from raw query values.
// Missing, non-numeric or non-positive values fall back to defaults; sizes
// above maxSize are clamped. maxSize <= 0 disables the upper bound.
func ParseOffsetRequest(page, size string, maxSize int) OffsetRequest {
	r := OffsetRequest{
		Page: atoiOr(page, PageDefault),
		Size: atoiOr(size, PageDefaultSize),
	}
	r.Normalize(maxSize)
	return r
}

// Normalize validates and normalizes offset pagination parameters in place
func (r *OffsetRequest) Normalize(maxSize int) {
	if r.Page <= 0 {
		r.Page = PageDefault
	}
	if r.Size <= 0 {
		r.Size = PageDefaultSize
	}
	if maxSize > 0 && r.Size > maxSize {
		r.Size = maxSize
	}
	if maxPage := math.MaxInt / r.Size; r.Page > maxPage {
		r.Page = maxPage
	}
}

// Offset returns the number of rows to skip. It is never negative and
// saturates instead of overflowing.
func (r OffsetRequest) Offset() int {
	if r.Page <= 1 || r.Size <= 0 {
		return 0
	}
	if r.Page-1 > math.MaxInt/r.Size {
		return math.MaxInt / r.Size * r.Size
	}
	return (r.Page - 1) * r.Size
}

// ParseStartIndex parses a raw row offset, defaulting to 0.
func ParseStartIndex(raw string) int {
	v := atoiOr(raw, 0)
	if v < 0 {
		return 0
	}
	return v
}

func atoiOr(raw string, def int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
