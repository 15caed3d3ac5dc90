package importer

import (
	"errors"
	"fmt"
	"io"

	"github.com/genadi53/next-ismp-sub001/internal/importer/mapping"
	"github.com/genadi53/next-ismp-sub001/internal/importer/workbook"
	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

// ErrUnknownLayout is returned when the sheet columns do not belong to the
// selected plan type, which usually means the wrong plan type was picked.
var ErrUnknownLayout = errors.New("sheet columns do not match the plan type")

type Extractor interface {
	Extract(r io.Reader) (*workbook.Sheet, error)
}

type Service struct {
	extractor Extractor
	dates     *mapping.DateNormalizer
}

func NewService(extractor Extractor, dates *mapping.DateNormalizer) *Service {
	if dates == nil {
		dates = mapping.NewDateNormalizer(nil)
	}

	return &Service{
		extractor: extractor,
		dates:     dates,
	}
}

// Import reads the first sheet of an upload and maps every row to the plan
// type. userAdded is recorded on each row.
func (s *Service) Import(t plan.Type, r io.Reader, userAdded string) ([]plan.Row, error) {
	schema, err := plan.Lookup(t)
	if err != nil {
		return nil, err
	}

	sheet, err := s.extractor.Extract(r)
	if err != nil {
		return nil, err
	}

	if err := checkLayout(schema, sheet.Headers); err != nil {
		return nil, &workbook.IngestionError{Format: sheet.Format, Err: err}
	}

	mapper := mapping.NewMapper(schema, s.dates).WithDate1904(sheet.Date1904)

	return mapper.MapAll(sheet.Rows, userAdded), nil
}

// layoutScore counts the object and field columns of a schema present in the
// sheet. The date column is shared by every plan type and does not count.
func layoutScore(schema *plan.Schema, headers map[string]bool) int {
	score := 0

	for _, h := range schema.ObjectHeaders {
		if headers[h] {
			score++
		}
	}

	for _, f := range schema.Fields {
		if headers[f.Header] {
			score++
		}
	}

	return score
}

// checkLayout rejects a sheet that carries none of the schema columns, or that
// matches another plan type better than the selected one.
func checkLayout(schema *plan.Schema, titles []string) error {
	headers := make(map[string]bool, len(titles))
	for _, t := range titles {
		headers[t] = true
	}

	score := layoutScore(schema, headers)
	if score == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownLayout, schema.Label)
	}

	for _, other := range plan.Schemas() {
		if other.Type == schema.Type {
			continue
		}

		if layoutScore(&other, headers) > score {
			return fmt.Errorf("%w: %s selected, the columns match %s", ErrUnknownLayout, schema.Label, other.Label)
		}
	}

	return nil
}
