package export

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

const totalsSheet = "Общо"

// Lister is satisfied by plan.Service.
type Lister interface {
	ListMonth(ctx context.Context, t plan.Type, month string) ([]plan.Row, error)
}

// Service writes stored plan months back to workbooks laid out like an upload,
// so an exported month can be corrected and imported again.
type Service struct {
	plans Lister
}

func NewService(plans Lister) *Service {
	return &Service{plans: plans}
}

// Total is the SUM of one field over a month. NULL values are skipped and not
// counted; zeros are.
type Total struct {
	Field plan.Field
	Sum   float64
	Count int
}

func Totals(schema *plan.Schema, rows []plan.Row) []Total {
	totals := make([]Total, len(schema.Fields))

	for i, f := range schema.Fields {
		totals[i].Field = f

		for _, r := range rows {
			if v, ok := r.Value(f.Name); ok {
				totals[i].Sum += v
				totals[i].Count++
			}
		}
	}

	return totals
}

// FileName is the suggested download name of an exported month.
func FileName(t plan.Type, month string) string {
	return fmt.Sprintf("%s_%s.xlsx", t, month)
}

// Month writes the stored rows of a month to w and returns how many were written.
func (s *Service) Month(ctx context.Context, t plan.Type, month string, w io.Writer) (int, error) {
	schema, err := plan.Lookup(t)
	if err != nil {
		return 0, err
	}

	rows, err := s.plans.ListMonth(ctx, t, month)
	if err != nil {
		return 0, fmt.Errorf("listing %s rows for %s: %w", t, month, err)
	}

	f, sheet, err := newWorkbook(schema, month)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	for i, r := range rows {
		if err := writeRow(f, sheet, i+2, schema, r); err != nil {
			return 0, err
		}
	}

	if err := writeTotals(f, schema, Totals(schema, rows)); err != nil {
		return 0, err
	}

	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("writing workbook: %w", err)
	}

	return len(rows), nil
}

// Template writes an empty upload workbook for a plan type.
func Template(t plan.Type, w io.Writer) error {
	schema, err := plan.Lookup(t)
	if err != nil {
		return err
	}

	f, _, err := newWorkbook(schema, schema.Label)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}

	return nil
}

func newWorkbook(schema *plan.Schema, sheet string) (*excelize.File, string, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("naming sheet: %w", err)
	}

	headers := schema.Headers()

	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}

	if err := f.SetSheetRow(sheet, "A1", &row); err != nil {
		f.Close()
		return nil, "", fmt.Errorf("writing header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, bold)
	}

	last, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(sheet, "A", last, 18)

	return f, sheet, nil
}

func writeRow(f *excelize.File, sheet string, n int, schema *plan.Schema, r plan.Row) error {
	cells := make([]any, 0, len(schema.Fields)+2)
	cells = append(cells, r.MonthDay, r.Object)

	for _, fld := range schema.Fields {
		if v, ok := r.Value(fld.Name); ok {
			cells = append(cells, v)
			continue
		}

		cells = append(cells, nil)
	}

	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("writing row %d: %w", n, err)
	}

	return nil
}

func writeTotals(f *excelize.File, schema *plan.Schema, totals []Total) error {
	if _, err := f.NewSheet(totalsSheet); err != nil {
		return fmt.Errorf("adding totals sheet: %w", err)
	}

	if err := f.SetSheetRow(totalsSheet, "A1", &[]any{"Показател", "Сума", "Брой"}); err != nil {
		return fmt.Errorf("writing totals header: %w", err)
	}

	for i, t := range totals {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(totalsSheet, cell, &[]any{t.Field.Header, t.Sum, t.Count}); err != nil {
			return fmt.Errorf("writing total of %s: %w", t.Field.Name, err)
		}
	}

	return nil
}
