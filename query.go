package godbi

import (
	"context"
	"strings"
)

// Query accumulates SQL and bound parameters and is inert until a terminal
// operation runs it against an Executor.
//
//	users, err := godbi.FetchAll[User](ctx, pool,
//	    godbi.NewQuery("SELECT `id`, `name` FROM `users` WHERE `id` = ?").
//	        Bind(godbi.I64(1)))
type Query struct {
	sql    string
	params []Value
}

// NewQuery creates a query for the given SQL.
func NewQuery(sql string) *Query {
	return &Query{sql: sql}
}

// Bind appends a single parameter. Parameters are bound in call order,
// matching `?` placeholders left to right.
func (q *Query) Bind(v Value) *Query {
	q.params = append(q.params, v)
	return q
}

// BindAll appends one parameter per value, for IN clauses and batch rows.
func (q *Query) BindAll(vs ...Value) *Query {
	q.params = append(q.params, vs...)
	return q
}

// SQL returns the query text.
func (q *Query) SQL() string { return q.sql }

// Params returns the parameters bound so far.
func (q *Query) Params() []Value { return q.params }

// Execute runs the statement on the executor.
func (q *Query) Execute(ctx context.Context, ex Executor) (ExecResult, error) {
	return ex.Execute(ctx, q.sql, q.params)
}

// Placeholders renders n comma-separated `?` placeholders.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('?')
	}
	return b.String()
}

// QuoteIdentifier backtick-quotes a MySQL identifier.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
