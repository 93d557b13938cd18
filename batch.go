package godbi

import (
	"context"
	"fmt"
	"strings"
)

// BatchInsert inserts entities as a single multi-row INSERT statement with
// one placeholder group per entity. An empty input short-circuits to a zero
// ExecResult without touching the server. For batch inserts MySQL reports
// the id of the first inserted row as the last insert id.
func BatchInsert[T Params](ctx context.Context, ex Executor, table string, entities []T) (ExecResult, error) {
	if len(entities) == 0 {
		return ExecResult{}, nil
	}
	columns := entities[0].InsertColumnNames()
	if len(columns) == 0 {
		return ExecResult{}, nil
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		QuoteIdentifier(table), quotedList(columns), placeholderGroups(len(entities), len(columns)))

	params := make([]Value, 0, len(entities)*len(columns))
	for _, e := range entities {
		params = append(params, e.InsertValues()...)
	}
	return ex.Execute(ctx, sql, params)
}

// BatchUpsert inserts entities as a single multi-row
// INSERT ... ON DUPLICATE KEY UPDATE statement. The update list covers
// updateColumns when given, otherwise every insert column.
func BatchUpsert[T Params](ctx context.Context, ex Executor, table string, entities []T, updateColumns ...string) (ExecResult, error) {
	if len(entities) == 0 {
		return ExecResult{}, nil
	}
	columns := entities[0].InsertColumnNames()
	if len(columns) == 0 {
		return ExecResult{}, nil
	}

	updateCols := updateColumns
	if len(updateCols) == 0 {
		updateCols = columns
	}
	updates := make([]string, len(updateCols))
	for i, c := range updateCols {
		q := QuoteIdentifier(c)
		updates[i] = fmt.Sprintf("%s = VALUES(%s)", q, q)
	}

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s ON DUPLICATE KEY UPDATE %s",
		QuoteIdentifier(table), quotedList(columns),
		placeholderGroups(len(entities), len(columns)), strings.Join(updates, ", "))

	params := make([]Value, 0, len(entities)*len(columns))
	for _, e := range entities {
		params = append(params, e.InsertValues()...)
	}
	return ex.Execute(ctx, sql, params)
}

func quotedList(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = QuoteIdentifier(c)
	}
	return strings.Join(quoted, ", ")
}

func placeholderGroups(rows, columns int) string {
	group := "(" + Placeholders(columns) + ")"
	groups := make([]string, rows)
	for i := range groups {
		groups[i] = group
	}
	return strings.Join(groups, ", ")
}
