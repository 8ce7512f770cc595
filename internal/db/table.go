package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"authapi/internal/apperrors"
)

// Values maps column names to values. Columns are rendered in sorted order so
// the generated SQL is stable.
type Values map[string]any

func (v Values) columns() []string {
	cols := make([]string, 0, len(v))
	for col := range v {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

// Table builds single-statement CRUD queries against one table. Column names
// are interpolated as given and never checked against the schema, so they must
// come from code, not from requests.
type Table struct {
	db   DBTX
	name string
	key  string
}

func NewTable(db DBTX, name, key string) *Table {
	return &Table{db: db, name: name, key: key}
}

func (t *Table) Name() string { return t.name }

// With returns a copy of the table bound to db, typically a *sql.Tx.
func (t *Table) With(db DBTX) *Table {
	return &Table{db: db, name: t.name, key: t.key}
}

// Insert inserts one row and returns its key column.
func (t *Table) Insert(ctx context.Context, values Values) (string, error) {
	if len(values) == 0 {
		return "", apperrors.Validation("insert into %s: no values", t.name)
	}

	cols := values.columns()
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = values[col]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.name, strings.Join(cols, ", "), strings.Join(placeholders, ", "), t.key)

	var id string
	if err := t.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return "", apperrors.Database(err, "insert "+t.name)
	}
	return id, nil
}

// Update sets values on the rows where idColumn = id and returns the number of
// affected rows. An empty idColumn means the table key.
func (t *Table) Update(ctx context.Context, id any, values Values, idColumn string) (int64, error) {
	if len(values) == 0 {
		return 0, apperrors.Validation("update %s: no values", t.name)
	}

	cols := values.columns()
	set := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		set[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, values[col])
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		t.name, strings.Join(set, ", "), t.column(idColumn), len(args))

	res, err := t.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.Database(err, "update "+t.name)
	}
	return rowsAffected(res, "update "+t.name)
}

// GetByID selects the first row where idColumn = id. Nil columns select *.
func (t *Table) GetByID(ctx context.Context, id any, columns []string, idColumn string) *Row {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 LIMIT 1",
		selectList(columns), t.name, t.column(idColumn))
	return t.queryRow(ctx, query, id)
}

// GetByCondition selects the first row matching every equality in condition.
// extra is appended verbatim as an additional AND clause; it must be a
// trusted literal such as "expires_at > NOW()".
func (t *Table) GetByCondition(ctx context.Context, condition Values, columns []string, extra string) *Row {
	where, args := whereClause(condition)
	if extra != "" {
		if where != "" {
			where += " AND "
		}
		where += "(" + extra + ")"
	}

	query := fmt.Sprintf("SELECT %s FROM %s", selectList(columns), t.name)
	if where != "" {
		query += " WHERE " + where
	}
	query += " LIMIT 1"
	return t.queryRow(ctx, query, args...)
}

// DeleteByCondition deletes the rows matching every equality in condition and
// returns how many were removed. An empty condition is rejected.
func (t *Table) DeleteByCondition(ctx context.Context, condition Values) (int64, error) {
	if len(condition) == 0 {
		return 0, apperrors.Validation("delete from %s: refusing to delete without a condition", t.name)
	}

	where, args := whereClause(condition)
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", t.name, where)

	res, err := t.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.Database(err, "delete "+t.name)
	}
	return rowsAffected(res, "delete "+t.name)
}

func (t *Table) column(idColumn string) string {
	if idColumn == "" {
		return t.key
	}
	return idColumn
}

func (t *Table) queryRow(ctx context.Context, query string, args ...any) *Row {
	return &Row{row: t.db.QueryRowContext(ctx, query, args...), table: t.name}
}

// Row is the result of a single-row lookup.
type Row struct {
	row   *sql.Row
	table string
}

// Scan copies the row into dest. A missing row is reported as a NOT_FOUND
// error wrapping apperrors.ErrNotFound.
func (r *Row) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(r.table)
	}
	return apperrors.Database(err, "select "+r.table)
}

func whereClause(condition Values) (string, []any) {
	cols := condition.columns()
	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args[i] = condition[col]
	}
	return strings.Join(parts, " AND "), args
}

func selectList(columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	return strings.Join(columns, ", ")
}

func rowsAffected(res sql.Result, operation string) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.Database(err, operation)
	}
	return n, nil
}
