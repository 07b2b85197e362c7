package repository

import "strings"

// placeholders returns a comma separated list of n '?' markers for use
// inside IN clauses. n must be at least 1.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// idArgs converts a slice of ids into []any for ExecContext/QueryContext
// variadic arguments.
func idArgs(ids []uint64) []any {
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return args
}
