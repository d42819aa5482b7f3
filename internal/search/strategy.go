package search

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/letspunt/adpage/internal/storage"
)

type Strategy string

const (
	StrategyNone     Strategy = ""
	StrategyPlain    Strategy = "plain"
	StrategyFuzzy    Strategy = "fuzzy"
	StrategyFullText Strategy = "fulltext"
	StrategyExact    Strategy = "exact"
)

const summaryColumns = "id, slug, title, content, location, category, created_at"

// statement is one executable tier query. skip means the tier has nothing to
// run for this term and counts as an empty result.
type statement struct {
	sql    string
	params []interface{}
	skip   bool
}

func plainStatement(q Query, _ Config) statement {
	return statement{
		sql: `SELECT ` + summaryColumns + `
			FROM posts
			ORDER BY id ASC
			LIMIT $1 OFFSET $2`,
		params: []interface{}{q.Page.Size, q.Page.Offset()},
	}
}

// fuzzyStatement ranks by weighted trigram similarity. A row qualifies when
// any field passes pg_trgm.similarity_threshold. Weights come from trusted
// configuration and are formatted into the SQL text.
func fuzzyStatement(q Query, cfg Config) statement {
	w := cfg.Weights
	sql := fmt.Sprintf(`SELECT %s,
				(similarity(title, $1)::float8 * %s
				 + similarity(content, $1)::float8 * %s
				 + COALESCE(similarity(location, $1), 0)::float8 * %s) AS score
			FROM posts
			WHERE title %% $1 OR content %% $1 OR location %% $1
			ORDER BY score DESC, id ASC
			LIMIT $2 OFFSET $3`,
		summaryColumns, sqlFloat(w.Title), sqlFloat(w.Content), sqlFloat(w.Location))

	return statement{
		sql:    sql,
		params: []interface{}{q.Term(), q.Page.Size, q.Page.Offset()},
	}
}

func fullTextStatement(q Query, _ Config) statement {
	tsQuery := conjunctiveQuery(q.Term())
	if tsQuery == "" {
		return statement{skip: true}
	}

	return statement{
		sql: `SELECT ` + summaryColumns + `,
				ts_rank_cd(document, to_tsquery('english', $1))::float8 AS score
			FROM posts
			WHERE document @@ to_tsquery('english', $1)
			ORDER BY score DESC, id ASC
			LIMIT $2 OFFSET $3`,
		params: []interface{}{tsQuery, q.Page.Size, q.Page.Offset()},
	}
}

func exactStatement(q Query, _ Config) statement {
	return statement{
		sql: `SELECT ` + summaryColumns + `
			FROM posts
			WHERE title ILIKE $1 OR content ILIKE $1 OR location ILIKE $1
			ORDER BY id ASC
			LIMIT $2 OFFSET $3`,
		params: []interface{}{storage.ContainsPattern(q.Term()), q.Page.Size, q.Page.Offset()},
	}
}

// conjunctiveQuery splits term on whitespace and joins the sanitized tokens
// with '&' for to_tsquery. It returns "" when no token survives.
func conjunctiveQuery(term string) string {
	var tokens []string
	for _, f := range strings.Fields(term) {
		if t := sanitizeToken(f); t != "" {
			tokens = append(tokens, t)
		}
	}
	return strings.Join(tokens, " & ")
}

// sanitizeToken keeps letters, digits and underscores so tsquery operators
// in user input cannot alter the query.
func sanitizeToken(token string) string {
	var b strings.Builder
	for _, r := range token {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// sqlFloat renders w as a plain decimal literal without losing precision.
func sqlFloat(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
