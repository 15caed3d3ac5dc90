package workbook

import (
	"errors"
	"fmt"
)

var (
	ErrUnreadable  = errors.New("file is not a readable workbook")
	ErrNoHeader    = errors.New("first sheet has no header row")
	ErrNoRows      = errors.New("first sheet has no data rows")
	ErrTooManyRows = errors.New("first sheet has too many data rows")
)

// IngestionError reports a workbook that cannot be turned into rows.
// Nothing has been mapped or stored when it is returned.
type IngestionError struct {
	Format string // xlsx, xls or csv; empty when the format was not recognized
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("ingest workbook: %v", e.Err)
	}

	return fmt.Sprintf("ingest %s workbook: %v", e.Format, e.Err)
}

func (e *IngestionError) Unwrap() error { return e.Err }
