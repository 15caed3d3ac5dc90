package view

import (
	"time"

	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

// MonthPreset is a month choice relative to today.
type MonthPreset int

const (
	MonthCurrent  MonthPreset = 0
	MonthNext     MonthPreset = 1
	MonthPrevious MonthPreset = 2
	MonthCustom   MonthPreset = 3
)

func (p MonthPreset) String() string {
	switch p {
	case MonthCurrent:
		return "This Month"
	case MonthNext:
		return "Next Month"
	case MonthPrevious:
		return "Last Month"
	case MonthCustom:
		return "Other Month"
	}

	return "Unknown"
}

// PresetMonth returns the yyyy-MM month the preset points at, relative to now.
// MonthCustom resolves to the current month.
func PresetMonth(p MonthPreset, now time.Time) string {
	// Step from the first of the month so that Jan 31 + 1 month stays in February.
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	switch p {
	case MonthNext:
		first = first.AddDate(0, 1, 0)
	case MonthPrevious:
		first = first.AddDate(0, -1, 0)
	}

	return plan.MonthOf(first)
}
