package search

import (
	"fmt"
	"time"

	"github.com/letspunt/adpage/internal/domain"
	"github.com/letspunt/adpage/internal/storage"
	"github.com/letspunt/adpage/pkg/utils"
)

// ResultPage is built per request and never cached.
type ResultPage struct {
	Rows       []domain.ListingSummary
	SearchTerm string
	Page       int
	PageSize   int
	Strategy   Strategy
}

func toSummary(row storage.Row, scoreDecimals int) (domain.ListingSummary, error) {
	var s domain.ListingSummary
	var err error

	if s.ID, err = asInt64(row["id"]); err != nil {
		return s, fmt.Errorf("id: %w", err)
	}
	s.Slug = asString(row["slug"])
	s.Title = asString(row["title"])
	s.Content = asString(row["content"])
	s.Category = asString(row["category"])
	if loc, ok := row["location"].(string); ok {
		s.Location = &loc
	}
	if ts, ok := row["created_at"].(time.Time); ok {
		s.CreatedAt = ts
	}

	if raw, ok := row["score"]; ok && raw != nil {
		score, err := asFloat64(raw)
		if err != nil {
			return s, fmt.Errorf("score: %w", err)
		}
		score = utils.RoundDecimal(score, scoreDecimals)
		s.Score = &score
	}

	return s, nil
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int32:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

func asFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
