package plan_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

func opRow(day, object string, volOre float64) plan.Row {
	return plan.Row{
		Type:      plan.TypeOperational,
		MonthDay:  day,
		Object:    object,
		Values:    map[string]*float64{"PlanVolOre": new(volOre), "PlanVolOreMasiv": nil},
		UserAdded: "ivan.petrov",
	}
}

func opBatch(rows ...plan.Row) plan.Batch {
	return plan.Batch{
		Type:      plan.TypeOperational,
		Month:     "2024-03",
		UserAdded: "ivan.petrov",
		FileName:  "march.xlsx",
		Rows:      rows,
	}
}

func TestService_ReplaceMonth(t *testing.T) {
	type testCase struct {
		name      string
		batch     plan.Batch
		setupMock func(repo *plan.MockRepository, tx *plan.MockReplaceTx)
		wantErr   error
		wantRows  []int
		wantRepo  bool
	}

	tests := []testCase{
		{
			name:  "Success",
			batch: opBatch(opRow("2024-03-01", "ELL", 100), opRow("2024-03-15", "ASR", 50)),
			setupMock: func(repo *plan.MockRepository, tx *plan.MockReplaceTx) {
				repo.EXPECT().BeginReplace(gomock.Any(), gomock.Any(), "2024-03").Return(tx, nil)

				gomock.InOrder(
					tx.EXPECT().DeleteMonth(gomock.Any()).Return(int64(7), nil),
					tx.EXPECT().InsertRow(gomock.Any(), gomock.Any()).Return(nil).Times(2),
					tx.EXPECT().RecordImport(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, imp *plan.Import) error {
							assert.Equal(t, 2, imp.Inserted)
							assert.Equal(t, int64(7), imp.Deleted)
							assert.Equal(t, "march.xlsx", imp.FileName)

							return nil
						}),
					tx.EXPECT().Commit().Return(nil),
				)

				tx.EXPECT().Rollback().Return(nil).AnyTimes()
			},
		},
		{
			name:    "EmptyBatch",
			batch:   opBatch(),
			wantErr: plan.ErrEmptyBatch,
		},
		{
			name:    "InvalidMonth",
			batch:   plan.Batch{Type: plan.TypeOperational, Month: "03.2024", Rows: []plan.Row{opRow("2024-03-01", "ELL", 1)}},
			wantErr: plan.ErrInvalidMonth,
		},
		{
			name:    "UnknownType",
			batch:   plan.Batch{Type: "weekly", Month: "2024-03", Rows: []plan.Row{opRow("2024-03-01", "ELL", 1)}},
			wantErr: plan.ErrUnknownType,
		},
		{
			name:     "RowOutsideMonth",
			batch:    opBatch(opRow("2024-03-01", "ELL", 1), opRow("2024-04-01", "ELL", 1)),
			wantErr:  plan.ErrMonthMismatch,
			wantRows: []int{2},
		},
		{
			name: "RowOfAnotherType",
			batch: func() plan.Batch {
				r := opRow("2024-03-02", "ELL", 1)
				r.Type = plan.TypeNatural

				return opBatch(opRow("2024-03-01", "ELL", 1), r)
			}(),
			wantErr:  plan.ErrTypeMismatch,
			wantRows: []int{2},
		},
		{
			name:  "BeginFails",
			batch: opBatch(opRow("2024-03-01", "ELL", 1)),
			setupMock: func(repo *plan.MockRepository, _ *plan.MockReplaceTx) {
				repo.EXPECT().BeginReplace(gomock.Any(), gomock.Any(), "2024-03").Return(nil, errors.New("connection refused"))
			},
			wantRepo: true,
		},
		{
			name:  "InsertFailsMidBatch",
			batch: opBatch(opRow("2024-03-01", "ELL", 1), opRow("2024-03-02", "ELL", 2), opRow("2024-03-03", "ELL", 3)),
			setupMock: func(repo *plan.MockRepository, tx *plan.MockReplaceTx) {
				repo.EXPECT().BeginReplace(gomock.Any(), gomock.Any(), "2024-03").Return(tx, nil)
				tx.EXPECT().DeleteMonth(gomock.Any()).Return(int64(3), nil)
				tx.EXPECT().InsertRow(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().InsertRow(gomock.Any(), gomock.Any()).Return(errors.New("unique violation"))
				tx.EXPECT().Rollback().Return(nil).MinTimes(1)
			},
			wantRepo: true,
		},
		{
			name:  "DeleteFails",
			batch: opBatch(opRow("2024-03-01", "ELL", 1)),
			setupMock: func(repo *plan.MockRepository, tx *plan.MockReplaceTx) {
				repo.EXPECT().BeginReplace(gomock.Any(), gomock.Any(), "2024-03").Return(tx, nil)
				tx.EXPECT().DeleteMonth(gomock.Any()).Return(int64(0), errors.New("lock timeout"))
				tx.EXPECT().Rollback().Return(nil).MinTimes(1)
			},
			wantRepo: true,
		},
		{
			name:  "CommitFails",
			batch: opBatch(opRow("2024-03-01", "ELL", 1)),
			setupMock: func(repo *plan.MockRepository, tx *plan.MockReplaceTx) {
				repo.EXPECT().BeginReplace(gomock.Any(), gomock.Any(), "2024-03").Return(tx, nil)
				tx.EXPECT().DeleteMonth(gomock.Any()).Return(int64(0), nil)
				tx.EXPECT().InsertRow(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().RecordImport(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(errors.New("serialization failure"))
				tx.EXPECT().Rollback().Return(nil).MinTimes(1)
			},
			wantRepo: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := plan.NewMockRepository(ctrl)
			tx := plan.NewMockReplaceTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, tx)
			}

			svc := plan.NewService(repo)
			got, err := svc.ReplaceMonth(context.Background(), tt.batch)

			switch {
			case tt.wantErr != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				var verr *plan.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantRows, verr.Rows)
				assert.Nil(t, got)
			case tt.wantRepo:
				var rerr *plan.RepositoryError
				require.ErrorAs(t, err, &rerr)
				assert.Nil(t, got)
			default:
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, 2, got.Inserted)
				assert.Equal(t, int64(7), got.Deleted)
				assert.NotEmpty(t, got.Import.ID)
			}
		})
	}
}

func TestService_ListMonth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := plan.NewMockRepository(ctrl)
	repo.EXPECT().
		ListMonth(gomock.Any(), gomock.Any(), "2024-03").
		Return([]plan.Row{opRow("2024-03-01", "ELL", 1)}, nil)

	svc := plan.NewService(repo)

	rows, err := svc.ListMonth(context.Background(), plan.TypeOperational, "2024-03")
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = svc.ListMonth(context.Background(), plan.TypeOperational, "2024-3")
	assert.ErrorIs(t, err, plan.ErrInvalidMonth)

	_, err = svc.ListMonth(context.Background(), "weekly", "2024-03")
	assert.ErrorIs(t, err, plan.ErrUnknownType)
}

func TestValidationError_Hint(t *testing.T) {
	mismatch := &plan.ValidationError{Err: plan.ErrMonthMismatch, Rows: []int{2}}
	assert.Contains(t, mismatch.Hint(), "today's date")

	empty := &plan.ValidationError{Err: plan.ErrEmptyBatch}
	assert.Empty(t, empty.Hint())
}
