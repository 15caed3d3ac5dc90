package mapping

import (
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const isoLayout = "2006-01-02"

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Bulgarian day-first layouts, tried in order.
var localLayouts = []string{
	"2.1.2006",
	"02.1.2006",
	"2.01.2006",
	"02.01.2006",
}

// DateNormalizer turns workbook dates into yyyy-MM-dd. Input it cannot read
// becomes today's date; it never fails.
type DateNormalizer struct {
	now func() time.Time
}

func NewDateNormalizer(now func() time.Time) *DateNormalizer {
	if now == nil {
		now = time.Now
	}

	return &DateNormalizer{now: now}
}

func (n *DateNormalizer) today() string {
	return n.now().Format(isoLayout)
}

// Normalize parses an ISO or day.month.year date.
func (n *DateNormalizer) Normalize(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return n.today()
	}

	if isoDate.MatchString(s) {
		return s
	}

	for _, layout := range localLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(isoLayout)
		}
	}

	return n.today()
}

// NormalizeCell accepts a raw workbook cell. Numbers are Excel date serials,
// counted from 1904 when the workbook uses that date system. ISO timestamps
// keep only their date part.
func (n *DateNormalizer) NormalizeCell(v any, date1904 bool) string {
	switch val := v.(type) {
	case float64:
		t, err := excelize.ExcelDateToTime(val, date1904)
		if err != nil {
			return n.today()
		}

		return t.Format(isoLayout)
	case string:
		s := strings.TrimSpace(val)
		if len(s) > 10 && (s[10] == 'T' || s[10] == ' ') && isoDate.MatchString(s[:10]) {
			s = s[:10]
		}

		return n.Normalize(s)
	default:
		return n.today()
	}
}
