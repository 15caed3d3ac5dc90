package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

func TestSchemas_Registry(t *testing.T) {
	schemas := plan.Schemas()
	require.Len(t, schemas, 4)

	for _, s := range schemas {
		t.Run(string(s.Type), func(t *testing.T) {
			got, err := plan.Lookup(s.Type)
			require.NoError(t, err)
			assert.Equal(t, s.Table, got.Table)

			headers := got.Headers()
			assert.Equal(t, s.DateHeader, headers[0])
			assert.Len(t, headers, len(s.Fields)+2)
		})
	}
}

func TestSchema_OperationalDefaults(t *testing.T) {
	s, err := plan.Lookup(plan.TypeOperational)
	require.NoError(t, err)

	assert.True(t, s.Discriminated)
	assert.Equal(t, "monthly_plans", s.Table)

	tests := []struct {
		field    string
		wantNull bool
	}{
		{field: "PlanVolOre", wantNull: false},
		{field: "PlanVolOreMasiv", wantNull: true},
		{field: "PlanVolWasteProsip", wantNull: true},
		{field: "PlanMassOre", wantNull: false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			f, ok := s.Field(tt.field)
			require.True(t, ok)

			v := f.DefaultValue()
			if tt.wantNull {
				assert.Nil(t, v)
				return
			}

			require.NotNil(t, v)
			assert.Zero(t, *v)
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    plan.Type
		wantErr bool
	}{
		{name: "ID", input: "shovel", want: plan.TypeShovel},
		{name: "Label", input: "Месечен оперативен план", want: plan.TypeOperational},
		{name: "PaddedLabel", input: "  ГР проект ", want: plan.TypeGRProject},
		{name: "Unknown", input: "weekly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := plan.ParseType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, plan.ErrUnknownType)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadSchemas_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "TableInjection",
			yaml: `
- type: x
  table: "plans; DROP TABLE plans"
  date_header: D
  object_headers: [O]
  fields:
    - { name: A, header: A, column: a, default: zero }
`,
		},
		{
			name: "UnknownDefault",
			yaml: `
- type: x
  table: plans
  date_header: D
  object_headers: [O]
  fields:
    - { name: A, header: A, column: a, default: empty }
`,
		},
		{
			name: "DuplicateColumn",
			yaml: `
- type: x
  table: plans
  date_header: D
  object_headers: [O]
  fields:
    - { name: A, header: A, column: a, default: zero }
    - { name: B, header: B, column: a, default: zero }
`,
		},
		{
			name: "NoObjectHeader",
			yaml: `
- type: x
  table: plans
  date_header: D
  fields:
    - { name: A, header: A, column: a, default: zero }
`,
		},
		{
			name: "DuplicateType",
			yaml: `
- type: x
  table: plans
  date_header: D
  object_headers: [O]
  fields:
    - { name: A, header: A, column: a, default: zero }
- type: x
  table: plans
  date_header: D
  object_headers: [O]
  fields:
    - { name: A, header: A, column: a, default: zero }
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plan.LoadSchemas([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestValidMonth(t *testing.T) {
	assert.True(t, plan.ValidMonth("2024-03"))
	assert.False(t, plan.ValidMonth("2024-13"))
	assert.False(t, plan.ValidMonth("2024-3"))
	assert.False(t, plan.ValidMonth("2024-03-01"))
}
