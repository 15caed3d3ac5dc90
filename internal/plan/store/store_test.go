package store

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

func lookup(t *testing.T, typ plan.Type) *plan.Schema {
	t.Helper()

	schema, err := plan.Lookup(typ)
	require.NoError(t, err)

	return schema
}

// insertColumns returns the column list of an INSERT statement.
func insertColumns(t *testing.T, stmt string) []string {
	t.Helper()

	open := strings.Index(stmt, "(")
	closing := strings.Index(stmt, ") VALUES")
	require.True(t, open >= 0 && closing > open, stmt)

	return strings.Split(stmt[open+1:closing], ", ")
}

func fullRow(schema *plan.Schema) plan.Row {
	row := plan.Row{
		Type:      schema.Type,
		MonthDay:  "2024-03-05",
		Object:    "ELL",
		Values:    make(map[string]*float64, len(schema.Fields)),
		UserAdded: "ivan.petrov",
	}

	for i, f := range schema.Fields {
		if i%3 == 0 {
			row.Values[f.Name] = nil
			continue
		}

		row.Values[f.Name] = new(float64(i))
	}

	return row
}

func TestBuildStatements_InsertMatchesArgs(t *testing.T) {
	for _, schema := range plan.Schemas() {
		t.Run(string(schema.Type), func(t *testing.T) {
			stmts := buildStatements(&schema)
			row := fullRow(&schema)
			args := insertArgs(&schema, row)

			cols := insertColumns(t, stmts.insert)
			require.Equal(t, "created_at", cols[len(cols)-1])
			cols = cols[:len(cols)-1]

			require.Len(t, args, len(cols))
			assert.Equal(t, len(args), strings.Count(stmts.insert, "$"), "one placeholder per argument")
			assert.Contains(t, stmts.insert, fmt.Sprintf("$%d", len(args)))
			assert.NotContains(t, stmts.insert, fmt.Sprintf("$%d", len(args)+1))

			next := 0
			if schema.Discriminated {
				assert.Equal(t, "plan_type", cols[0])
				assert.Equal(t, string(schema.Type), args[0])
				next = 1
			}

			assert.Equal(t, "plan_month_day", cols[next])
			assert.Equal(t, "2024-03-05", args[next])
			assert.Contains(t, stmts.insert, fmt.Sprintf("$%d::date", next+1))

			assert.Equal(t, "object", cols[next+1])
			assert.Equal(t, "ELL", args[next+1])

			for i, f := range schema.Fields {
				pos := next + 2 + i
				assert.Equal(t, f.Column, cols[pos], f.Name)

				if row.Values[f.Name] == nil {
					assert.Nil(t, args[pos], f.Name)
					continue
				}

				assert.Equal(t, *row.Values[f.Name], args[pos], f.Name)
			}

			assert.Equal(t, "user_added", cols[len(cols)-1])
			assert.Equal(t, "ivan.petrov", args[len(args)-1])
		})
	}
}

func TestBuildStatements_MonthFilter(t *testing.T) {
	tests := []struct {
		name     string
		typ      plan.Type
		table    string
		wantArgs []any
		shared   bool
	}{
		{name: "SharedTable", typ: plan.TypeNatural, table: "monthly_plans", wantArgs: []any{"2024-03", "natural"}, shared: true},
		{name: "OwnTable", typ: plan.TypeShovel, table: "shovel_plans", wantArgs: []any{"2024-03"}},
		{name: "GRProject", typ: plan.TypeGRProject, table: "gr_project_plans", wantArgs: []any{"2024-03"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := lookup(t, tt.typ)
			stmts := buildStatements(schema)

			where := "WHERE to_char(plan_month_day, 'YYYY-MM') = $1"
			if tt.shared {
				where += " AND plan_type = $2"
			}

			assert.Equal(t, fmt.Sprintf("DELETE FROM %s %s", tt.table, where), stmts.delete)
			assert.Contains(t, stmts.list, fmt.Sprintf("FROM %s %s ORDER BY", tt.table, where))
			assert.Equal(t, tt.wantArgs, monthArgs(schema, "2024-03"))

			if !tt.shared {
				assert.NotContains(t, stmts.delete, "plan_type")
			}
		})
	}
}

func TestBuildStatements_ListMatchesScan(t *testing.T) {
	for _, schema := range plan.Schemas() {
		t.Run(string(schema.Type), func(t *testing.T) {
			list := buildStatements(&schema).list

			const dateCol = "to_char(plan_month_day, 'YYYY-MM-DD'), "

			selectList := list[len("SELECT "):strings.Index(list, " FROM ")]
			require.True(t, strings.HasPrefix(selectList, dateCol), list)

			// scanRow reads the date, the object, every field and the user.
			cols := strings.Split(strings.TrimPrefix(selectList, dateCol), ", ")
			require.Len(t, cols, len(schema.Fields)+2)
			assert.Equal(t, "object", cols[0])

			for i, f := range schema.Fields {
				assert.Equal(t, f.Column, cols[i+1])
			}

			assert.Equal(t, "user_added", cols[len(cols)-1])
		})
	}
}

func TestReplaceLockKey(t *testing.T) {
	operational := lookup(t, plan.TypeOperational)
	natural := lookup(t, plan.TypeNatural)

	assert.Equal(t, replaceLockKey(operational, "2024-03"), replaceLockKey(operational, "2024-03"))
	assert.NotEqual(t, replaceLockKey(operational, "2024-03"), replaceLockKey(operational, "2024-04"))
	assert.NotEqual(t, replaceLockKey(operational, "2024-03"), replaceLockKey(natural, "2024-03"),
		"plan types sharing a table lock independently")
}
