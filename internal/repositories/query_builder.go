package repositories

import (
	"fmt"
	"strings"
)

// condBuilder accumulates SQL conditions together with their bound
// values. Each add consumes exactly one placeholder, so the
// placeholder count can never diverge from the argument count. The
// same builder drives both the page query and its COUNT companion.
type condBuilder struct {
	clauses []string
	args    []interface{}
}

// add appends a condition. expr must contain a single %d verb that
// receives the positional placeholder index, e.g.
// "r.data_relatorio >= $%d".
func (b *condBuilder) add(expr string, value interface{}) {
	b.args = append(b.args, value)
	b.clauses = append(b.clauses, fmt.Sprintf(expr, len(b.args)))
}

// where returns the WHERE clause (AND-combined) or the empty string.
func (b *condBuilder) where() string {
	if len(b.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(b.clauses, " AND ")
}

// set returns the clauses joined for an UPDATE ... SET list.
func (b *condBuilder) set() string {
	return strings.Join(b.clauses, ", ")
}

// next returns the placeholder index for an argument appended after
// the builder's own, e.g. LIMIT/OFFSET on the page query.
func (b *condBuilder) next() int {
	return len(b.args) + 1
}

func (b *condBuilder) empty() bool {
	return len(b.clauses) == 0
}
