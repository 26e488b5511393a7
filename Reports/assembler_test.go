package Reports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Fleetbook/Models"
)

// januaryStore holds three January trips, one February trip, trip and
// standalone costs, one salary and one prorated charge.
func januaryStore() *fakeStore {
	store := newFakeStore()
	store.trips = []Models.Trip{
		trip(1, "2024-01-10", "Joao", "Volvo", 2, "200.00", "1000.00"),
		trip(2, "2024-01-05", "Ana", "Scania", 1, "100.00", "500.00"),
		trip(3, "2024-01-10", "Ana", "Volvo", 0, "50.00", "300.00"),
		trip(4, "2024-02-01", "Joao", "Volvo", 1, "80.00", "400.00"),
	}
	store.costs = []Models.GeneralCost{
		cost(1, ptr(uint(1)), "2024-01-10", "toll", "20.00"),
		cost(2, ptr(uint(1)), "2024-01-09", "parking", "10.00"),
		cost(3, nil, "2024-01-20", "brakes", "400.00"),
		cost(4, nil, "2023-12-31", "old", "99.00"),
	}
	store.addSalary(Models.DriverSalary{
		ID:               1,
		DriverName:       "Ana",
		YearMonth:        "2024-01",
		BaseSalary:       Models.MustAmount("1000"),
		TripBonus:        Models.MustAmount("100"),
		AbsenceDeduction: Models.MustAmount("50"),
	})
	store.charges = []Models.FixedMonthlyCharge{
		charge(1, "300.00", "2024-01-15", ptr("2024-02-28"), Models.ChargeActive),
	}
	return store
}

func TestBuildPeriodReport(t *testing.T) {
	asm := NewAssembler(januaryStore(), nil)
	p, err := ParseRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)

	report, err := asm.BuildPeriodReport(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", report.StartDate)
	assert.Equal(t, 31, report.Days)

	totals := report.Totals
	assert.Equal(t, 3, totals.Trips.TripCount)
	assert.Equal(t, "210", totals.Trips.PerDiemValue.String())
	assert.Equal(t, "350", totals.Trips.FuelCost.String())
	assert.Equal(t, "1800", totals.Trips.Revenue.String())
	assert.Equal(t, "430", totals.GeneralCostsTotal.String())
	assert.Equal(t, "164.52", totals.FixedChargesTotal.String())
	assert.Equal(t, "1050", totals.SalaryNetTotal.String())
	assert.True(t, totals.FixedCostsTotal.IsZero())
	assert.Equal(t, "-404.52", totals.Profit.String())

	require.Len(t, report.Trips, 3)
	assert.Equal(t, []uint{2, 1, 3}, []uint{report.Trips[0].Trip.ID, report.Trips[1].Trip.ID, report.Trips[2].Trip.ID})
	for i := 1; i < len(report.Trips); i++ {
		assert.LessOrEqual(t, report.Trips[i-1].Trip.Date, report.Trips[i].Trip.Date)
	}

	joao := report.Trips[1]
	require.Len(t, joao.Costs, 2)
	assert.Equal(t, "parking", joao.Costs[0].Description)
	assert.Equal(t, "toll", joao.Costs[1].Description)
	assert.Equal(t, "30", joao.CostsTotal.String())
	assert.True(t, joao.SalaryNet.IsZero())
	assert.Equal(t, "630", joao.NetProfit.String())

	ana := report.Trips[0]
	assert.Empty(t, ana.Costs)
	assert.Equal(t, "1050", ana.SalaryNet.String())
	assert.Equal(t, "-720", ana.NetProfit.String())

	require.Len(t, report.ByDriver, 2)
	assert.Equal(t, "Ana", report.ByDriver[0].Name)
	assert.Equal(t, 2, report.ByDriver[0].TripCount)
	assert.Equal(t, "70", report.ByDriver[0].PerDiemValue.String())
	assert.Equal(t, "150", report.ByDriver[0].FuelCost.String())
	assert.Equal(t, "800", report.ByDriver[0].Revenue.String())
	assert.Equal(t, "Joao", report.ByDriver[1].Name)

	require.Len(t, report.ByTruck, 2)
	assert.Equal(t, "Scania", report.ByTruck[0].Name)
	assert.Equal(t, "Volvo", report.ByTruck[1].Name)
	assert.Equal(t, 2, report.ByTruck[1].TripCount)
	assert.Equal(t, "1300", report.ByTruck[1].Revenue.String())

	var descriptions []string
	for _, c := range report.GeneralCosts {
		descriptions = append(descriptions, c.Description)
	}
	assert.Equal(t, []string{"parking", "toll", "brakes"}, descriptions)
}

func TestBuildPeriodReportIsIdempotent(t *testing.T) {
	asm := NewAssembler(januaryStore(), nil)
	p, err := WeekOf("2024-01-10")
	require.NoError(t, err)

	first, err := asm.BuildPeriodReport(context.Background(), p)
	require.NoError(t, err)
	second, err := asm.BuildPeriodReport(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildPeriodReportEmpty(t *testing.T) {
	asm := NewAssembler(newFakeStore(), nil)
	report, err := asm.BuildDailyReport(context.Background(), "2024-01-10")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Days)
	assert.Empty(t, report.Trips)
	assert.Empty(t, report.ByDriver)
	assert.Empty(t, report.ByTruck)
	assert.Empty(t, report.GeneralCosts)
	assert.True(t, report.Totals.Profit.IsZero())
	assert.True(t, report.Totals.SalaryNetTotal.IsZero())
}

func TestBuildDailyReportRejectsBadDate(t *testing.T) {
	asm := NewAssembler(newFakeStore(), nil)
	_, err := asm.BuildDailyReport(context.Background(), "10/01/2024")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestBuildMonthlyReport(t *testing.T) {
	store := januaryStore()
	asm := NewAssembler(store, nil)
	ctx := context.Background()

	report, err := asm.BuildMonthlyReport(ctx, "2024-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01", report.YearMonth)
	assert.True(t, report.FixedCostsPending)
	assert.True(t, report.Totals.FixedCostsTotal.IsZero())
	assert.Equal(t, "-404.52", report.Totals.Profit.String())
	require.Contains(t, store.monthly, "2024-01")

	again, err := asm.BuildMonthlyReport(ctx, "2024-01")
	require.NoError(t, err)
	assert.True(t, again.FixedCostsPending, "still blank")

	filled := store.monthly["2024-01"]
	filled.Parts = Models.MustAmount("60")
	filled.Insurance = Models.MustAmount("40")
	store.monthly["2024-01"] = filled

	report, err = asm.BuildMonthlyReport(ctx, "2024-01")
	require.NoError(t, err)
	assert.False(t, report.FixedCostsPending)
	assert.Equal(t, "100", report.FixedCosts.TotalFixed.String())
	assert.Equal(t, "100", report.Totals.FixedCostsTotal.String())
	assert.Equal(t, "-504.52", report.Totals.Profit.String())

	_, err = asm.BuildMonthlyReport(ctx, "2024-1")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestMonthlyReportCountsSalariesOfDriversWithoutTrips(t *testing.T) {
	store := newFakeStore()
	store.addSalary(Models.DriverSalary{
		ID:         1,
		DriverName: "Ana",
		YearMonth:  "2024-01",
		BaseSalary: Models.MustAmount("2000"),
	})
	store.addSalary(Models.DriverSalary{
		ID:         2,
		DriverName: "Ana",
		YearMonth:  "2024-02",
		BaseSalary: Models.MustAmount("999"),
	})
	asm := NewAssembler(store, nil)

	report, err := asm.BuildMonthlyReport(context.Background(), "2024-01")
	require.NoError(t, err)
	assert.Empty(t, report.Trips)
	assert.Equal(t, "2000", report.Totals.SalaryNetTotal.String())
	assert.Equal(t, "-2000", report.Totals.Profit.String())

	p, err := ParseYearMonth("2024-01")
	require.NoError(t, err)
	period, err := asm.BuildPeriodReport(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, period.Totals.SalaryNetTotal.IsZero())
}

func TestSalaryCountedOncePerDriverMonth(t *testing.T) {
	store := newFakeStore()
	store.trips = []Models.Trip{
		trip(1, "2024-01-30", "Ana", "Volvo", 0, "0", "0"),
		trip(2, "2024-01-31", "Ana", "Volvo", 0, "0", "0"),
		trip(3, "2024-02-01", "Ana", "Volvo", 0, "0", "0"),
	}
	store.addSalary(Models.DriverSalary{DriverName: "Ana", YearMonth: "2024-01", BaseSalary: Models.MustAmount("1000")})
	store.addSalary(Models.DriverSalary{DriverName: "Ana", YearMonth: "2024-02", BaseSalary: Models.MustAmount("1200")})

	p, err := WeekOf("2024-01-31")
	require.NoError(t, err)
	report, err := NewAssembler(store, nil).BuildPeriodReport(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "2200", report.Totals.SalaryNetTotal.String())
	assert.Equal(t, "-2200", report.Totals.Profit.String())
}

func TestBuildTripSummary(t *testing.T) {
	store := januaryStore()
	store.addSalary(Models.DriverSalary{DriverName: "Joao", YearMonth: "2024-01", BaseSalary: Models.MustAmount("500")})

	summary, err := NewAssembler(store, nil).BuildTripSummary(context.Background(), store.trips[0])
	require.NoError(t, err)
	assert.Equal(t, "30", summary.CostsTotal.String())
	assert.Equal(t, "500", summary.SalaryNet.String())
	assert.Equal(t, "130", summary.NetProfit.String())
	assert.Nil(t, summary.Trip.GeneralCosts)
}

func TestPeriodReportLogsMalformedRecordsOnce(t *testing.T) {
	store := januaryStore()
	store.trips[0].Revenue = malformedAmount()
	store.costs[0].Amount = malformedAmount()

	logger, buf := captureLogger()
	p, err := ParseYearMonth("2024-01")
	require.NoError(t, err)
	report, err := NewAssembler(store, logger).BuildPeriodReport(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, "800", report.Totals.Trips.Revenue.String())
	assert.Equal(t, "410", report.Totals.GeneralCostsTotal.String())

	lines := logLines(buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "period_report", lines[0]["op"])
	assert.Equal(t, []interface{}{float64(1)}, lines[0]["trip_ids"])
	assert.Equal(t, []interface{}{float64(1)}, lines[0]["cost_ids"])
}
