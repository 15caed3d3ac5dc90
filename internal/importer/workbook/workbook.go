package workbook

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"

	"github.com/genadi53/next-ismp-sub001/internal/encoding"
)

const (
	FormatXLSX = "xlsx"
	FormatXLS  = "xls"
	FormatCSV  = "csv"
)

// DefaultMaxRows bounds a single plan upload. A monthly plan has one row per
// object and day, which stays well below this.
const DefaultMaxRows = 20000

var (
	magicZip  = []byte("PK\x03\x04")
	magicOLE2 = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

type Reader struct {
	maxRows int
}

func NewReader(maxRows int) *Reader {
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}

	return &Reader{maxRows: maxRows}
}

// ExtractRows reads the first sheet with the default row limit.
func ExtractRows(r io.Reader) ([]RawRow, error) {
	return NewReader(DefaultMaxRows).ExtractRows(r)
}

// Detect names the format of a file from its leading bytes.
func Detect(data []byte) string {
	switch {
	case bytes.HasPrefix(data, magicZip):
		return FormatXLSX
	case bytes.HasPrefix(data, magicOLE2):
		return FormatXLS
	default:
		return FormatCSV
	}
}

// Sheet is the first sheet of an upload.
type Sheet struct {
	Format   string
	Headers  []string // trimmed header row, blank titles dropped
	Rows     []RawRow
	Date1904 bool // numeric dates count from 1904-01-01
}

// ExtractRows reads the first sheet of an xlsx, xls or csv file into rows keyed
// by the header row. Blank rows are skipped.
func (rd *Reader) ExtractRows(r io.Reader) ([]RawRow, error) {
	sheet, err := rd.Extract(r)
	if err != nil {
		return nil, err
	}

	return sheet.Rows, nil
}

// Extract reads the first sheet of an xlsx, xls or csv file. Anything else,
// including binary files that are not workbooks, is rejected as unreadable.
func (rd *Reader) Extract(r io.Reader) (*Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IngestionError{Err: fmt.Errorf("read upload: %w", err)}
	}

	if len(data) == 0 {
		return nil, &IngestionError{Err: ErrUnreadable}
	}

	sheet := &Sheet{Format: Detect(data)}

	var grid [][]any

	switch sheet.Format {
	case FormatXLSX:
		grid, sheet.Date1904, err = readXLSX(data)
	case FormatXLS:
		grid, err = readXLS(data)
	default:
		if mt := mimetype.Detect(data); !isTextType(mt) {
			return nil, &IngestionError{Err: fmt.Errorf("%w: %s content", ErrUnreadable, mt.String())}
		}

		grid, err = readCSV(data)
	}

	if err != nil {
		return nil, &IngestionError{Format: sheet.Format, Err: fmt.Errorf("%w: %w", ErrUnreadable, err)}
	}

	sheet.Headers, sheet.Rows, err = rd.toRows(grid)
	if err != nil {
		return nil, &IngestionError{Format: sheet.Format, Err: err}
	}

	return sheet, nil
}

// isTextType reports whether mt is plain text or one of its subtypes.
func isTextType(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}

	return false
}

// toRows keys every data row by the first non-blank row of the grid.
func (rd *Reader) toRows(grid [][]any) ([]string, []RawRow, error) {
	headerAt := -1

	for i, cells := range grid {
		if !blank(cells) {
			headerAt = i
			break
		}
	}

	if headerAt < 0 {
		return nil, nil, ErrNoHeader
	}

	headers := make([]string, len(grid[headerAt]))
	titles := make([]string, 0, len(headers))

	for i, v := range grid[headerAt] {
		if v == nil {
			continue
		}

		headers[i] = strings.TrimSpace(fmt.Sprint(v))
		if headers[i] != "" {
			titles = append(titles, headers[i])
		}
	}

	var rows []RawRow

	for _, cells := range grid[headerAt+1:] {
		if blank(cells) {
			continue
		}

		if len(rows) == rd.maxRows {
			return nil, nil, fmt.Errorf("%w: limit is %d", ErrTooManyRows, rd.maxRows)
		}

		row := make(RawRow, len(headers))

		for i, v := range cells {
			if i >= len(headers) || headers[i] == "" || v == nil {
				continue
			}

			if _, dup := row[headers[i]]; dup {
				continue
			}

			row[headers[i]] = v
		}

		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, nil, ErrNoRows
	}

	return titles, rows, nil
}

func blank(cells []any) bool {
	for _, v := range cells {
		if v == nil {
			continue
		}

		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}

		return false
	}

	return true
}

func readXLSX(data []byte) (grid [][]any, date1904 bool, err error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, false, fmt.Errorf("workbook has no sheets")
	}

	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, false, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	props, err := f.GetWorkbookProps()
	if err != nil {
		return nil, false, fmt.Errorf("read workbook properties: %w", err)
	}

	if props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	grid = make([][]any, len(rows))

	for i, row := range rows {
		cells := make([]any, len(row))

		for j, v := range row {
			if v == "" {
				continue
			}

			cells[j] = v

			if isText(f, sheet, j+1, i+1) {
				continue
			}

			if n, err := strconv.ParseFloat(v, 64); err == nil {
				cells[j] = n
			}
		}

		grid[i] = cells
	}

	return grid, date1904, nil
}

// isText reports whether a cell holds a string, as opposed to a number stored
// without an explicit type.
func isText(f *excelize.File, sheet string, col, row int) bool {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false
	}

	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return false
	}

	return typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString
}

func readXLS(data []byte) (grid [][]any, err error) {
	// The BIFF parser panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("parse xls: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	grid = make([][]any, 0, int(sheet.MaxRow)+1)

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil || row.LastCol() < 0 {
			grid = append(grid, nil)
			continue
		}

		cells := make([]any, row.LastCol()+1)

		for j := 0; j <= row.LastCol(); j++ {
			v := strings.TrimSpace(row.Col(j))
			if v == "" {
				continue
			}

			if n, err := strconv.ParseFloat(v, 64); err == nil {
				cells[j] = n
				continue
			}

			cells[j] = v
		}

		grid = append(grid, cells)
	}

	return grid, nil
}

func readCSV(data []byte) ([][]any, error) {
	utf8Reader, err := encoding.NewUTF8Reader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	text, err := io.ReadAll(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("decode text: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	grid := make([][]any, len(records))

	for i, rec := range records {
		cells := make([]any, len(rec))

		for j, v := range rec {
			if v = strings.TrimSpace(v); v != "" {
				cells[j] = v
			}
		}

		grid[i] = cells
	}

	return grid, nil
}

// sniffDelimiter picks the most frequent separator of the first line.
func sniffDelimiter(text []byte) rune {
	line, _, _ := bytes.Cut(text, []byte("\n"))

	best, bestCount := ';', -1

	for _, d := range []rune{';', ',', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}

	return best
}
