package migrations_test

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genadi53/next-ismp-sub001/internal/plan"
	"github.com/genadi53/next-ismp-sub001/migrations"
)

var createTable = regexp.MustCompile(`(?s)CREATE TABLE (\w+) \((.*?)\n\);`)

// tableColumns collects the column names of every CREATE TABLE in the migrations.
func tableColumns(t *testing.T) map[string]map[string]bool {
	t.Helper()

	files, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	tables := make(map[string]map[string]bool)

	for _, name := range files {
		data, err := fs.ReadFile(migrations.FS, name)
		require.NoError(t, err)

		for _, m := range createTable.FindAllStringSubmatch(string(data), -1) {
			cols := make(map[string]bool)

			for _, line := range strings.Split(m[2], "\n") {
				if fields := strings.Fields(line); len(fields) > 0 {
					cols[fields[0]] = true
				}
			}

			tables[m[1]] = cols
		}
	}

	return tables
}

func TestMigrations_CoverSchemas(t *testing.T) {
	tables := tableColumns(t)

	for _, s := range plan.Schemas() {
		t.Run(string(s.Type), func(t *testing.T) {
			cols, ok := tables[s.Table]
			require.True(t, ok, "table %s", s.Table)

			for _, c := range []string{"plan_month_day", "object", "user_added", "created_at"} {
				assert.True(t, cols[c], c)
			}

			assert.Equal(t, s.Discriminated, cols["plan_type"])

			for _, f := range s.Fields {
				assert.True(t, cols[f.Column], "%s.%s", s.Table, f.Column)
			}
		})
	}

	assert.Contains(t, tables, "plan_imports")
	assert.Contains(t, tables, "object_aliases")
}
