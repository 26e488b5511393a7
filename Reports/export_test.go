package Reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestMonthlyWorkbook(t *testing.T) {
	report, err := NewAssembler(januaryStore(), nil).BuildMonthlyReport(context.Background(), "2024-01")
	require.NoError(t, err)

	buf, err := MonthlyWorkbook(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Trips", "Costs", "Drivers", "Trucks"}, f.GetSheetList())

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	last := rows[len(rows)-1]
	assert.Equal(t, []string{"Profit", "-404.52"}, last)

	var sawNote bool
	for _, row := range rows {
		if len(row) > 0 && row[0] == "Note" {
			sawNote = true
		}
	}
	assert.True(t, sawNote)

	trips, err := f.GetRows("Trips")
	require.NoError(t, err)
	require.Len(t, trips, 4)
	assert.Equal(t, "Date", trips[0][0])
	assert.Equal(t, "2024-01-05", trips[1][0])

	drivers, err := f.GetRows("Drivers")
	require.NoError(t, err)
	require.Len(t, drivers, 3)
	assert.Equal(t, "Ana", drivers[1][0])
}

func TestPeriodWorkbookEmpty(t *testing.T) {
	p, err := WeekOf("2024-01-10")
	require.NoError(t, err)
	report, err := NewAssembler(newFakeStore(), nil).BuildPeriodReport(context.Background(), p)
	require.NoError(t, err)

	buf, err := PeriodWorkbook(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	costs, err := f.GetRows("Costs")
	require.NoError(t, err)
	assert.Len(t, costs, 1)
}
