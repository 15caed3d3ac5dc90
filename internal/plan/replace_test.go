package plan_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

// memRepo keeps committed rows per plan type. A replace works on a staged copy
// that only becomes visible on Commit.
type memRepo struct {
	mu      sync.Mutex
	rows    map[plan.Type][]plan.Row
	imports []plan.Import
	failAt  int // 1-based insert that fails, 0 for none
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[plan.Type][]plan.Row)}
}

func (m *memRepo) BeginReplace(_ context.Context, schema *plan.Schema, month string) (plan.ReplaceTx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &memTx{
		repo:   m,
		typ:    schema.Type,
		month:  month,
		staged: slices.Clone(m.rows[schema.Type]),
	}, nil
}

func (m *memRepo) ListMonth(_ context.Context, schema *plan.Schema, month string) ([]plan.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []plan.Row

	for _, r := range m.rows[schema.Type] {
		if r.Month() == month {
			out = append(out, r)
		}
	}

	return out, nil
}

func (m *memRepo) ListImports(_ context.Context, t plan.Type) ([]plan.Import, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []plan.Import

	for _, imp := range m.imports {
		if imp.Type == t {
			out = append(out, imp)
		}
	}

	return out, nil
}

type memTx struct {
	repo     *memRepo
	typ      plan.Type
	month    string
	staged   []plan.Row
	imp      *plan.Import
	inserts  int
	finished bool
}

func (tx *memTx) DeleteMonth(context.Context) (int64, error) {
	before := len(tx.staged)
	tx.staged = slices.DeleteFunc(tx.staged, func(r plan.Row) bool { return r.Month() == tx.month })

	return int64(before - len(tx.staged)), nil
}

func (tx *memTx) InsertRow(_ context.Context, row plan.Row) error {
	tx.inserts++
	if tx.repo.failAt == tx.inserts {
		return errors.New("check constraint violated")
	}

	tx.staged = append(tx.staged, row)

	return nil
}

func (tx *memTx) RecordImport(_ context.Context, imp *plan.Import) error {
	tx.imp = imp
	return nil
}

func (tx *memTx) Commit() error {
	tx.repo.mu.Lock()
	defer tx.repo.mu.Unlock()

	tx.repo.rows[tx.typ] = tx.staged
	if tx.imp != nil {
		tx.repo.imports = append(tx.repo.imports, *tx.imp)
	}

	tx.finished = true

	return nil
}

func (tx *memTx) Rollback() error {
	tx.finished = true
	return nil
}

func shovelRow(day, shovel string, vol float64) plan.Row {
	return plan.Row{
		Type:      plan.TypeShovel,
		MonthDay:  day,
		Object:    shovel,
		Values:    map[string]*float64{"PlanVolOre": new(vol), "PlanTrucks": nil},
		UserAdded: "maria.ivanova",
	}
}

func shovelBatch(month string, rows ...plan.Row) plan.Batch {
	return plan.Batch{Type: plan.TypeShovel, Month: month, UserAdded: "maria.ivanova", Rows: rows}
}

func listMonth(t *testing.T, svc *plan.Service, month string) []plan.Row {
	t.Helper()

	rows, err := svc.ListMonth(context.Background(), plan.TypeShovel, month)
	require.NoError(t, err)

	return rows
}

func TestReplaceMonth_StoresExactlyTheBatch(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := plan.NewService(repo)

	_, err := svc.ReplaceMonth(ctx, shovelBatch("2024-02", shovelRow("2024-02-10", "EKG-1", 10)))
	require.NoError(t, err)

	_, err = svc.ReplaceMonth(ctx, shovelBatch("2024-03",
		shovelRow("2024-03-01", "EKG-1", 100),
		shovelRow("2024-03-20", "EKG-2", 200),
	))
	require.NoError(t, err)

	batch := shovelBatch("2024-03", shovelRow("2024-03-05", "EKG-3", 300))

	res, err := svc.ReplaceMonth(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Deleted)

	assert.ElementsMatch(t, batch.Rows, listMonth(t, svc, "2024-03"))
	assert.Len(t, listMonth(t, svc, "2024-02"), 1, "other months must be untouched")
}

func TestReplaceMonth_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := plan.NewService(repo)

	batch := shovelBatch("2024-03",
		shovelRow("2024-03-01", "EKG-1", 100),
		shovelRow("2024-03-01", "EKG-2", 200),
	)

	_, err := svc.ReplaceMonth(ctx, batch)
	require.NoError(t, err)

	once := listMonth(t, svc, "2024-03")

	_, err = svc.ReplaceMonth(ctx, batch)
	require.NoError(t, err)

	assert.ElementsMatch(t, once, listMonth(t, svc, "2024-03"))

	imports, err := svc.ListImports(ctx, plan.TypeShovel)
	require.NoError(t, err)
	assert.Len(t, imports, 2)
}

func TestReplaceMonth_AtomicOnInsertFailure(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	svc := plan.NewService(repo)

	original := shovelBatch("2024-03", shovelRow("2024-03-01", "EKG-1", 100))
	_, err := svc.ReplaceMonth(ctx, original)
	require.NoError(t, err)

	for _, k := range []int{1, 2, 3} {
		repo.failAt = k

		_, err := svc.ReplaceMonth(ctx, shovelBatch("2024-03",
			shovelRow("2024-03-02", "EKG-2", 1),
			shovelRow("2024-03-03", "EKG-3", 2),
			shovelRow("2024-03-04", "EKG-4", 3),
		))

		var rerr *plan.RepositoryError
		require.ErrorAs(t, err, &rerr, "insert %d", k)
		assert.ElementsMatch(t, original.Rows, listMonth(t, svc, "2024-03"), "insert %d", k)
	}

	imports, err := svc.ListImports(ctx, plan.TypeShovel)
	require.NoError(t, err)
	assert.Len(t, imports, 1)
}

func TestReplaceMonth_EmptyBatchTouchesNothing(t *testing.T) {
	repo := newMemRepo()
	svc := plan.NewService(repo)

	_, err := svc.ReplaceMonth(context.Background(), shovelBatch("2024-03"))

	var verr *plan.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, plan.ErrEmptyBatch)
	assert.Empty(t, repo.rows)
}
