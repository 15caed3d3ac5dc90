package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genadi53/next-ismp-sub001/internal/config"
	"github.com/genadi53/next-ismp-sub001/internal/importer/workbook"
	"github.com/genadi53/next-ismp-sub001/internal/plan"
)

func TestNewImportService(t *testing.T) {
	var cfg config.Config
	cfg.Import.MaxRows = 1

	svc := newImportService(&cfg)

	rows, err := svc.Import(plan.TypeShovel, strings.NewReader("Дата;Багер;Брой самосвали\n1.3.2024;EKG-1;4\n"), "ivan.petrov")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-01", rows[0].MonthDay)

	_, err = svc.Import(plan.TypeShovel, strings.NewReader("Дата;Багер\n1.3.2024;EKG-1\n2.3.2024;EKG-2\n"), "ivan.petrov")
	assert.ErrorIs(t, err, workbook.ErrTooManyRows, "configured row limit applies")
}
