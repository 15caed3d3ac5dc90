package plan

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Type identifies one of the mining planning report categories.
type Type string

const (
	TypeOperational Type = "operational"
	TypeShovel      Type = "shovel"
	TypeNatural     Type = "natural"
	TypeGRProject   Type = "gr-project"
)

// Row is one mapped plan row, ready for insertion.
// Values is keyed by schema field name. A nil value is stored as NULL.
type Row struct {
	Type      Type
	MonthDay  string // yyyy-MM-dd
	Object    string
	Values    map[string]*float64
	UserAdded string
}

// Month returns the yyyy-MM prefix of the row date.
func (r Row) Month() string {
	if len(r.MonthDay) < 7 {
		return ""
	}

	return r.MonthDay[:7]
}

// Value returns the value of a field and whether it is non-null.
func (r Row) Value(field string) (float64, bool) {
	v := r.Values[field]
	if v == nil {
		return 0, false
	}

	return *v, true
}

// Batch is the full set of rows that replaces one month of one plan type.
type Batch struct {
	Type      Type
	Month     string // yyyy-MM
	UserAdded string
	FileName  string
	Rows      []Row
}

// Import is the audit record written for every committed replace.
type Import struct {
	ID        uuid.UUID
	Type      Type
	Month     string
	Inserted  int
	Deleted   int64
	UserAdded string
	FileName  string
	CreatedAt time.Time
}

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidMonth reports whether s is a yyyy-MM month.
func ValidMonth(s string) bool {
	return monthPattern.MatchString(s)
}

// MonthOf formats t as a yyyy-MM month.
func MonthOf(t time.Time) string {
	return t.Format("2006-01")
}
