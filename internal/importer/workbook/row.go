package workbook

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RawRow maps trimmed header text to a cell value: a string, a float64, or
// absent when the cell was empty.
type RawRow map[string]any

// Get returns the cell under key. Empty cells are reported as missing.
func (r RawRow) Get(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}

	if s, isText := v.(string); isText && strings.TrimSpace(s) == "" {
		return nil, false
	}

	return v, true
}

// Text returns the cell as trimmed text. Whole numbers lose their fraction, so
// a numeric object code 102 reads "102".
func (r RawRow) Text(key string) string {
	v, ok := r.Get(key)
	if !ok {
		return ""
	}

	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

// Number returns the cell as a number. Text cells are accepted in the forms
// local spreadsheets produce: "1234.5", "1234,5", "1 234,5" and "1.234,5".
func (r RawRow) Number(key string) (float64, bool) {
	v, ok := r.Get(key)
	if !ok {
		return 0, false
	}

	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		return ParseNumber(val)
	default:
		return 0, false
	}
}

// ParseNumber parses a decimal written with either separator convention.
func ParseNumber(s string) (float64, bool) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\'':
			return -1
		}

		return r
	}, s)

	if s == "" || s == "-" {
		return 0, false
	}

	lastComma := strings.LastIndexByte(s, ',')
	lastDot := strings.LastIndexByte(s, '.')

	switch {
	case lastComma >= 0 && lastDot >= 0:
		// The separator that comes last is the decimal one.
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}

	return d.InexactFloat64(), true
}
