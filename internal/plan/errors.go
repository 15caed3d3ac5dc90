package plan

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType   = errors.New("unknown plan type")
	ErrEmptyBatch    = errors.New("batch has no rows")
	ErrInvalidMonth  = errors.New("month must be formatted as yyyy-MM")
	ErrMonthMismatch = errors.New("row date is outside the batch month")
	ErrTypeMismatch  = errors.New("row plan type differs from the batch plan type")
)

// ValidationError is returned before any storage access when a batch cannot be replaced.
type ValidationError struct {
	Err  error
	Rows []int // 1-based row positions within the batch, when row-specific
}

func (e *ValidationError) Error() string {
	if len(e.Rows) == 0 {
		return fmt.Sprintf("invalid batch: %v", e.Err)
	}

	return fmt.Sprintf("invalid batch: %v (rows %v)", e.Err, e.Rows)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Hint tells the user how to correct the workbook, or returns "".
func (e *ValidationError) Hint() string {
	if errors.Is(e.Err, ErrMonthMismatch) {
		return "a missing or unreadable date cell is read as today's date, check the date column of the listed rows"
	}

	return ""
}

// RepositoryError wraps a storage failure. The transaction has been rolled back
// by the time it is returned, so the stored month is unchanged.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }
