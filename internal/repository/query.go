package repository

import (
	"fmt"
	"strings"
)

// whereBuilder assembles an AND-joined WHERE clause with positional args.
// Every "?" in a condition refers to the argument added with it.
type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) add(cond string, arg any) {
	b.args = append(b.args, arg)
	b.conds = append(b.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(b.args))))
}

func (b *whereBuilder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// page appends LIMIT/OFFSET placeholders and returns the suffix with the full arg list.
func (b *whereBuilder) page(limit, offset int) (string, []any) {
	args := append(append([]any{}, b.args...), limit, offset)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args
}

// like wraps a search term for ILIKE matching.
func like(term string) string {
	return "%" + strings.TrimSpace(term) + "%"
}
