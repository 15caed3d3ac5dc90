package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=plan
type Repository interface {
	BeginReplace(ctx context.Context, schema *Schema, month string) (ReplaceTx, error)
	ListMonth(ctx context.Context, schema *Schema, month string) ([]Row, error)
	ListImports(ctx context.Context, t Type) ([]Import, error)
}

// ReplaceTx is one open replace transaction scoped to a schema and month.
type ReplaceTx interface {
	DeleteMonth(ctx context.Context) (int64, error)
	InsertRow(ctx context.Context, row Row) error
	RecordImport(ctx context.Context, imp *Import) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type ReplaceResult struct {
	Import   Import
	Inserted int
	Deleted  int64
}

// ReplaceMonth discards everything stored for the batch month and plan type and
// stores the batch in its place. Either all rows are replaced or nothing changes.
func (s *Service) ReplaceMonth(ctx context.Context, batch Batch) (*ReplaceResult, error) {
	schema, err := validateBatch(batch)
	if err != nil {
		return nil, err
	}

	rtx, err := s.repo.BeginReplace(ctx, schema, batch.Month)
	if err != nil {
		return nil, &RepositoryError{Op: "begin replace", Err: err}
	}
	defer rtx.Rollback()

	fail := func(op string, err error) error {
		_ = rtx.Rollback()
		return &RepositoryError{Op: op, Err: err}
	}

	deleted, err := rtx.DeleteMonth(ctx)
	if err != nil {
		return nil, fail("delete month", err)
	}

	for i, row := range batch.Rows {
		if err := rtx.InsertRow(ctx, row); err != nil {
			return nil, fail(fmt.Sprintf("insert row %d", i+1), err)
		}
	}

	imp := Import{
		ID:        uuid.New(),
		Type:      batch.Type,
		Month:     batch.Month,
		Inserted:  len(batch.Rows),
		Deleted:   deleted,
		UserAdded: batch.UserAdded,
		FileName:  batch.FileName,
		CreatedAt: s.now(),
	}

	if err := rtx.RecordImport(ctx, &imp); err != nil {
		return nil, fail("record import", err)
	}

	if err := rtx.Commit(); err != nil {
		return nil, fail("commit replace", err)
	}

	return &ReplaceResult{Import: imp, Inserted: len(batch.Rows), Deleted: deleted}, nil
}

func (s *Service) ListMonth(ctx context.Context, t Type, month string) ([]Row, error) {
	schema, err := Lookup(t)
	if err != nil {
		return nil, err
	}

	if !ValidMonth(month) {
		return nil, &ValidationError{Err: ErrInvalidMonth}
	}

	return s.repo.ListMonth(ctx, schema, month)
}

func (s *Service) ListImports(ctx context.Context, t Type) ([]Import, error) {
	if _, err := Lookup(t); err != nil {
		return nil, err
	}

	return s.repo.ListImports(ctx, t)
}

func validateBatch(batch Batch) (*Schema, error) {
	schema, err := Lookup(batch.Type)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}

	if len(batch.Rows) == 0 {
		return nil, &ValidationError{Err: ErrEmptyBatch}
	}

	if !ValidMonth(batch.Month) {
		return nil, &ValidationError{Err: ErrInvalidMonth}
	}

	var wrongType, wrongMonth []int

	for i, row := range batch.Rows {
		if row.Type != batch.Type {
			wrongType = append(wrongType, i+1)
		}

		if row.Month() != batch.Month {
			wrongMonth = append(wrongMonth, i+1)
		}
	}

	if len(wrongType) > 0 {
		return nil, &ValidationError{Err: ErrTypeMismatch, Rows: wrongType}
	}

	if len(wrongMonth) > 0 {
		return nil, &ValidationError{Err: ErrMonthMismatch, Rows: wrongMonth}
	}

	return schema, nil
}
