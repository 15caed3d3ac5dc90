package mapping

import (
	"math"

	"github.com/genadi53/next-ismp-sub001/internal/importer/workbook"
	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

// Mapper turns workbook rows of one plan type into plan rows, following the
// field table of the plan schema.
type Mapper struct {
	schema   *plan.Schema
	dates    *DateNormalizer
	date1904 bool
}

func NewMapper(schema *plan.Schema, dates *DateNormalizer) *Mapper {
	if dates == nil {
		dates = NewDateNormalizer(nil)
	}

	return &Mapper{schema: schema, dates: dates}
}

// WithDate1904 returns a mapper that reads numeric dates in the 1904 date system.
func (m *Mapper) WithDate1904(on bool) *Mapper {
	c := *m
	c.date1904 = on

	return &c
}

func (m *Mapper) Schema() *plan.Schema {
	return m.schema
}

// Map builds one plan row. Missing or unreadable numbers take the field
// default, which is either zero or NULL. Values are not range checked.
func (m *Mapper) Map(row workbook.RawRow, userAdded string) plan.Row {
	date, _ := row.Get(m.schema.DateHeader)

	out := plan.Row{
		Type:      m.schema.Type,
		MonthDay:  m.dates.NormalizeCell(date, m.date1904),
		Object:    m.object(row),
		Values:    make(map[string]*float64, len(m.schema.Fields)),
		UserAdded: userAdded,
	}

	for _, f := range m.schema.Fields {
		v, ok := row.Number(f.Header)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			out.Values[f.Name] = f.DefaultValue()
			continue
		}

		out.Values[f.Name] = new(v)
	}

	return out
}

// MapAll maps rows in order.
func (m *Mapper) MapAll(rows []workbook.RawRow, userAdded string) []plan.Row {
	out := make([]plan.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.Map(r, userAdded))
	}

	return out
}

// object takes the first non-empty of the schema object headers, so a sheet
// may title the column either way.
func (m *Mapper) object(row workbook.RawRow) string {
	for _, h := range m.schema.ObjectHeaders {
		if s := row.Text(h); s != "" {
			return s
		}
	}

	return ""
}
