package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// statements holds the SQL of one schema. Table and column names come from the
// validated schema table; every value is passed as a parameter.
type statements struct {
	insert string
	delete string
	list   string
}

func buildStatements(s *plan.Schema) statements {
	cols := make([]string, 0, len(s.Fields)+4)
	if s.Discriminated {
		cols = append(cols, "plan_type")
	}

	cols = append(cols, "plan_month_day", "object")
	for _, f := range s.Fields {
		cols = append(cols, f.Column)
	}

	cols = append(cols, "user_added")

	placeholders := make([]string, len(cols))
	for i, c := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if c == "plan_month_day" {
			placeholders[i] += "::date"
		}
	}

	where := "to_char(plan_month_day, 'YYYY-MM') = $1"
	if s.Discriminated {
		where += " AND plan_type = $2"
	}

	selectCols := make([]string, 0, len(s.Fields)+3)
	selectCols = append(selectCols, "to_char(plan_month_day, 'YYYY-MM-DD')", "object")

	for _, f := range s.Fields {
		selectCols = append(selectCols, f.Column)
	}

	selectCols = append(selectCols, "user_added")

	return statements{
		insert: fmt.Sprintf(
			"INSERT INTO %s (%s, created_at) VALUES (%s, NOW())",
			s.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", "),
		),
		delete: fmt.Sprintf("DELETE FROM %s WHERE %s", s.Table, where),
		list: fmt.Sprintf(
			"SELECT %s FROM %s WHERE %s ORDER BY plan_month_day ASC, object ASC, id ASC",
			strings.Join(selectCols, ", "), s.Table, where,
		),
	}
}

// monthArgs returns the parameters of the month filter used by delete and list.
func monthArgs(s *plan.Schema, month string) []any {
	if s.Discriminated {
		return []any{month, string(s.Type)}
	}

	return []any{month}
}

func (s *Store) ListMonth(ctx context.Context, schema *plan.Schema, month string) ([]plan.Row, error) {
	stmts := buildStatements(schema)

	rows, err := s.db.QueryContext(ctx, stmts.list, monthArgs(schema, month)...)
	if err != nil {
		return nil, fmt.Errorf("listing %s rows: %w", schema.Type, err)
	}
	defer rows.Close()

	var out []plan.Row

	for rows.Next() {
		row, err := scanRow(rows, schema)
		if err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", schema.Type, err)
		}

		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", schema.Type, err)
	}

	return out, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRow reads the columns produced by statements.list.
func scanRow(rows scanner, schema *plan.Schema) (plan.Row, error) {
	var (
		monthDay  string
		object    string
		userAdded sql.NullString
	)

	values := make([]sql.NullFloat64, len(schema.Fields))

	dest := make([]any, 0, len(values)+3)
	dest = append(dest, &monthDay, &object)

	for i := range values {
		dest = append(dest, &values[i])
	}

	dest = append(dest, &userAdded)

	if err := rows.Scan(dest...); err != nil {
		return plan.Row{}, err
	}

	row := plan.Row{
		Type:      schema.Type,
		MonthDay:  monthDay,
		Object:    object,
		Values:    make(map[string]*float64, len(schema.Fields)),
		UserAdded: userAdded.String,
	}

	for i, f := range schema.Fields {
		if values[i].Valid {
			row.Values[f.Name] = new(values[i].Float64)
			continue
		}

		row.Values[f.Name] = nil
	}

	return row, nil
}

func (s *Store) ListImports(ctx context.Context, t plan.Type) ([]plan.Import, error) {
	query := `
		SELECT id, plan_type, month, inserted, deleted, user_added, file_name, created_at
		FROM plan_imports
		WHERE plan_type = $1
		ORDER BY created_at DESC
		LIMIT 100
	`

	rows, err := s.db.QueryContext(ctx, query, string(t))
	if err != nil {
		return nil, fmt.Errorf("listing imports: %w", err)
	}
	defer rows.Close()

	var imports []plan.Import

	for rows.Next() {
		var (
			imp      plan.Import
			typeStr  string
			fileName sql.NullString
		)

		if err := rows.Scan(
			&imp.ID, &typeStr, &imp.Month, &imp.Inserted, &imp.Deleted,
			&imp.UserAdded, &fileName, &imp.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning import: %w", err)
		}

		imp.Type = plan.Type(typeStr)
		imp.FileName = fileName.String
		imports = append(imports, imp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating imports: %w", err)
	}

	return imports, nil
}

func replaceLockKey(schema *plan.Schema, month string) int64 {
	h := fnv.New64a()
	h.Write([]byte(schema.Table))
	h.Write([]byte{0})
	h.Write([]byte(schema.Type))
	h.Write([]byte{0})
	h.Write([]byte(month))

	return int64(h.Sum64())
}

type replaceTx struct {
	tx     *sql.Tx
	schema *plan.Schema
	month  string
	stmts  statements
}

// BeginReplace opens the transaction of one month replace. Replaces of the same
// table, plan type and month are serialized by a transaction-scoped advisory lock.
func (s *Store) BeginReplace(ctx context.Context, schema *plan.Schema, month string) (plan.ReplaceTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning replace tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", replaceLockKey(schema, month)); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring replace lock: %w", err)
	}

	return &replaceTx{
		tx:     dbTx,
		schema: schema,
		month:  month,
		stmts:  buildStatements(schema),
	}, nil
}

func (rtx *replaceTx) Commit() error   { return rtx.tx.Commit() }
func (rtx *replaceTx) Rollback() error { return rtx.tx.Rollback() }

func (rtx *replaceTx) DeleteMonth(ctx context.Context) (int64, error) {
	res, err := rtx.tx.ExecContext(ctx, rtx.stmts.delete, monthArgs(rtx.schema, rtx.month)...)
	if err != nil {
		return 0, fmt.Errorf("deleting %s rows for %s: %w", rtx.schema.Type, rtx.month, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted rows: %w", err)
	}

	return n, nil
}

func (rtx *replaceTx) InsertRow(ctx context.Context, row plan.Row) error {
	if _, err := rtx.tx.ExecContext(ctx, rtx.stmts.insert, insertArgs(rtx.schema, row)...); err != nil {
		return fmt.Errorf("inserting %s row: %w", rtx.schema.Type, err)
	}

	return nil
}

// insertArgs lays out the row in the column order of statements.insert.
func insertArgs(schema *plan.Schema, row plan.Row) []any {
	args := make([]any, 0, len(schema.Fields)+4)
	if schema.Discriminated {
		args = append(args, string(schema.Type))
	}

	args = append(args, row.MonthDay, row.Object)

	for _, f := range schema.Fields {
		v, ok := row.Value(f.Name)
		if !ok {
			args = append(args, nil)
			continue
		}

		args = append(args, v)
	}

	return append(args, row.UserAdded)
}

func (rtx *replaceTx) RecordImport(ctx context.Context, imp *plan.Import) error {
	query := `
		INSERT INTO plan_imports (id, plan_type, month, inserted, deleted, user_added, file_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := rtx.tx.ExecContext(ctx, query,
		imp.ID,
		string(imp.Type),
		imp.Month,
		imp.Inserted,
		imp.Deleted,
		imp.UserAdded,
		imp.FileName,
		imp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording import: %w", err)
	}

	return nil
}
