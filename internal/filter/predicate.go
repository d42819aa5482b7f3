package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CompiledPredicate is a clause fragment with positional parameters:
// OrderedParams[i] binds placeholder $i+1.
type CompiledPredicate struct {
	ClauseText    string
	OrderedParams []interface{}
}

// Statement appends the clause to base, which must end in a WHERE condition.
func (p CompiledPredicate) Statement(base string) string {
	return strings.TrimRight(base, " ") + p.ClauseText
}

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// Validate checks that placeholders are numbered 1..N in first-appearance
// order and that N equals the number of parameters.
func (p CompiledPredicate) Validate() error {
	next := 1
	for _, m := range placeholderRe.FindAllStringSubmatch(p.ClauseText, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return fmt.Errorf("invalid placeholder %q: %w", m[0], err)
		}
		switch {
		case n == next:
			next++
		case n < next:
			// repeated reference to an already bound parameter
		default:
			return fmt.Errorf("placeholder $%d appears before $%d", n, next)
		}
	}

	if got := next - 1; got != len(p.OrderedParams) {
		return fmt.Errorf("clause has %d placeholders but %d params", got, len(p.OrderedParams))
	}
	return nil
}

type builder struct {
	sb     strings.Builder
	params []interface{}
}

// bind appends v and returns its placeholder. The index is fixed at append
// time, so params must never be reordered afterwards.
func (b *builder) bind(v interface{}) string {
	b.params = append(b.params, v)
	return "$" + strconv.Itoa(len(b.params))
}

func (b *builder) write(s string) {
	b.sb.WriteString(s)
}

func (b *builder) predicate() CompiledPredicate {
	return CompiledPredicate{
		ClauseText:    b.sb.String(),
		OrderedParams: b.params,
	}
}
