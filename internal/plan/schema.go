package plan

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPolicy decides what is stored for a field whose cell is missing.
// SUM aggregations skip NULL but count zero, so the two are not interchangeable.
type DefaultPolicy string

const (
	DefaultZero DefaultPolicy = "zero"
	DefaultNull DefaultPolicy = "null"
)

// Field maps one workbook column onto one storage column.
type Field struct {
	Name    string        `yaml:"name"`
	Header  string        `yaml:"header"`
	Column  string        `yaml:"column"`
	Default DefaultPolicy `yaml:"default"`
}

// DefaultValue returns the value stored when the cell is absent.
func (f Field) DefaultValue() *float64 {
	if f.Default == DefaultNull {
		return nil
	}

	return new(float64)
}

// Schema describes the workbook layout and storage of one plan type.
type Schema struct {
	Type          Type     `yaml:"type"`
	Label         string   `yaml:"label"`
	Table         string   `yaml:"table"`
	Discriminated bool     `yaml:"discriminated"` // table shared across plan types, keyed by plan_type
	DateHeader    string   `yaml:"date_header"`
	ObjectHeaders []string `yaml:"object_headers"`
	Fields        []Field  `yaml:"fields"`
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// Headers returns the workbook header row for this plan type.
func (s *Schema) Headers() []string {
	headers := make([]string, 0, len(s.Fields)+2)
	headers = append(headers, s.DateHeader, s.ObjectHeaders[0])

	for _, f := range s.Fields {
		headers = append(headers, f.Header)
	}

	return headers
}

//go:embed schemas.yaml
var schemasYAML []byte

var registry = mustLoadSchemas(schemasYAML)

// Schemas returns every known plan schema in declaration order.
func Schemas() []Schema {
	out := make([]Schema, len(registry))
	copy(out, registry)

	return out
}

// Lookup returns the schema of a plan type.
func Lookup(t Type) (*Schema, error) {
	for i := range registry {
		if registry[i].Type == t {
			return &registry[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// ParseType accepts either the plan type id or its Bulgarian label.
func ParseType(s string) (Type, error) {
	s = strings.TrimSpace(s)

	for _, sc := range registry {
		if string(sc.Type) == s || sc.Label == s {
			return sc.Type, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// identifier guards table and column names, which are interpolated into SQL.
var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// LoadSchemas parses and validates a YAML list of schemas.
func LoadSchemas(data []byte) ([]Schema, error) {
	var schemas []Schema
	if err := yaml.Unmarshal(data, &schemas); err != nil {
		return nil, fmt.Errorf("decode schemas: %w", err)
	}

	seen := make(map[Type]bool, len(schemas))

	for _, s := range schemas {
		if s.Type == "" {
			return nil, fmt.Errorf("schema without type")
		}

		if seen[s.Type] {
			return nil, fmt.Errorf("duplicate schema %q", s.Type)
		}

		seen[s.Type] = true

		if err := validateSchema(s); err != nil {
			return nil, fmt.Errorf("schema %q: %w", s.Type, err)
		}
	}

	return schemas, nil
}

func validateSchema(s Schema) error {
	if !identifier.MatchString(s.Table) {
		return fmt.Errorf("invalid table name %q", s.Table)
	}

	if s.DateHeader == "" || len(s.ObjectHeaders) == 0 {
		return fmt.Errorf("date and object headers are required")
	}

	if len(s.Fields) == 0 {
		return fmt.Errorf("no fields")
	}

	names := make(map[string]bool, len(s.Fields))
	columns := make(map[string]bool, len(s.Fields))

	for _, f := range s.Fields {
		if !identifier.MatchString(f.Column) {
			return fmt.Errorf("field %s: invalid column %q", f.Name, f.Column)
		}

		if f.Default != DefaultZero && f.Default != DefaultNull {
			return fmt.Errorf("field %s: unknown default %q", f.Name, f.Default)
		}

		if names[f.Name] || columns[f.Column] {
			return fmt.Errorf("field %s: duplicate name or column", f.Name)
		}

		names[f.Name] = true
		columns[f.Column] = true
	}

	return nil
}

func mustLoadSchemas(data []byte) []Schema {
	schemas, err := LoadSchemas(data)
	if err != nil {
		panic(err)
	}

	return schemas
}
