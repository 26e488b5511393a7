package Models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"Fleetbook/Config"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(&Config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestTripPerDiemRecomputedOnSave(t *testing.T) {
	db := openTestDB(t)

	trip := Trip{
		Date:         "2024-01-10",
		Origin:       "Santos",
		Destination:  "Campinas",
		PerDiemCount: 2,
		PerDiemValue: MustAmount("999"),
		Revenue:      MustAmount("1000.00"),
		DriverName:   "Joao",
		TruckName:    "Volvo FH",
	}
	require.NoError(t, db.Create(&trip).Error)
	assert.Equal(t, "140", trip.PerDiemValue.String())

	var stored Trip
	require.NoError(t, db.First(&stored, trip.ID).Error)
	assert.True(t, stored.PerDiemValue.Equal(decimal.NewFromInt(140)))

	stored.PerDiemCount = 3
	require.NoError(t, db.Save(&stored).Error)

	var reloaded Trip
	require.NoError(t, db.First(&reloaded, trip.ID).Error)
	assert.Equal(t, "210", reloaded.PerDiemValue.String())
	assert.Equal(t, "2024-01", reloaded.YearMonth())
}

func TestPerDiemRateIsConfigurable(t *testing.T) {
	original := PerDiemRate()
	t.Cleanup(func() { SetPerDiemRate(original) })

	SetPerDiemRate(decimal.RequireFromString("85.50"))
	assert.Equal(t, "171", PerDiemValue(2).String())
	assert.Equal(t, "0", PerDiemValue(0).String())
}

func TestTripMalformedFields(t *testing.T) {
	var trip Trip
	require.NoError(t, trip.FuelCost.Scan("n/a"))
	require.NoError(t, trip.Revenue.Scan("12"))
	assert.Equal(t, []string{"fuel_cost"}, trip.MalformedFields())
}

func TestMonthlyFixedCostTotal(t *testing.T) {
	db := openTestDB(t)

	cost := MonthlyFixedCost{YearMonth: "2024-02"}
	require.NoError(t, db.Create(&cost).Error)
	assert.True(t, cost.IsBlank())

	cost.Parts = MustAmount("120.50")
	cost.Insurance = MustAmount("300")
	cost.Maintenance = MustAmount("79.50")
	require.NoError(t, db.Save(&cost).Error)
	assert.Equal(t, "500", cost.TotalFixed.String())

	var stored MonthlyFixedCost
	require.NoError(t, db.Where("year_month = ?", "2024-02").First(&stored).Error)
	assert.False(t, stored.IsBlank())
	assert.Equal(t, "500", stored.TotalFixed.String())

	assert.Error(t, db.Create(&MonthlyFixedCost{YearMonth: "2024-02"}).Error)
}

func TestDriverSalaryNet(t *testing.T) {
	salary := DriverSalary{
		BaseSalary:       MustAmount("2500.00"),
		TripBonus:        MustAmount("300.00"),
		AbsenceDeduction: MustAmount("150.00"),
	}
	assert.Equal(t, "2650", salary.Net().String())

	db := openTestDB(t)
	salary.DriverName = "Joao"
	salary.YearMonth = "2024-01"
	require.NoError(t, db.Create(&salary).Error)

	dup := DriverSalary{DriverName: "Joao", YearMonth: "2024-01"}
	assert.Error(t, db.Create(&dup).Error)

	other := DriverSalary{DriverName: "Joao", YearMonth: "2024-02"}
	assert.NoError(t, db.Create(&other).Error)
}

func TestFixedMonthlyChargeActiveOn(t *testing.T) {
	end := "2024-02-28"
	charge := FixedMonthlyCharge{
		Status:    ChargeActive,
		StartDate: "2024-01-15",
		EndDate:   &end,
	}

	assert.False(t, charge.ActiveOn("2024-01-14"))
	assert.True(t, charge.ActiveOn("2024-01-15"))
	assert.True(t, charge.ActiveOn("2024-02-28"))
	assert.False(t, charge.ActiveOn("2024-02-29"))

	charge.EndDate = nil
	assert.True(t, charge.ActiveOn("2030-12-31"))

	charge.Status = ChargeFinalized
	assert.False(t, charge.ActiveOn("2024-01-20"))
	charge.Status = ChargeInactive
	assert.False(t, charge.ActiveOn("2024-01-20"))
}

func TestInstallmentPlan(t *testing.T) {
	plan, err := InstallmentPlan(decimal.RequireFromString("100.00"), 3, "2024-01-31")
	require.NoError(t, err)

	require.Len(t, plan.Schedule, 3)
	assert.Equal(t, PlanInstallment, plan.Kind)
	assert.Equal(t, "33.33", plan.Schedule[0].Amount.String())
	assert.Equal(t, "33.33", plan.Schedule[1].Amount.String())
	assert.Equal(t, "33.34", plan.Schedule[2].Amount.String())
	assert.Equal(t, "2024-01-31", plan.Schedule[0].DueDate)
	assert.Equal(t, "2024-02-29", plan.Schedule[1].DueDate)
	assert.Equal(t, "2024-03-31", plan.Schedule[2].DueDate)
	assert.NoError(t, plan.Validate(decimal.RequireFromString("100")))
	assert.ErrorIs(t, plan.Validate(decimal.RequireFromString("99")), ErrInvalidPlan)

	_, err = InstallmentPlan(decimal.NewFromInt(10), 0, "2024-01-01")
	assert.ErrorIs(t, err, ErrInvalidPlan)
	_, err = InstallmentPlan(decimal.NewFromInt(10), 2, "01/01/2024")
	assert.ErrorIs(t, err, ErrInvalidPlan)
}

func TestGeneralCostPlanRoundTrip(t *testing.T) {
	db := openTestDB(t)

	cost := GeneralCost{
		Category:      CategoryMaintenance,
		Date:          "2024-01-05",
		VehiclePlate:  "ABC1D23",
		Vendor:        "Oficina Central",
		Description:   "Brake pads",
		Amount:        MustAmount("450.00"),
		PaymentMethod: PaymentInstallment,
		PaymentStatus: StatusUnpaid,
	}
	lump, err := cost.Plan()
	require.NoError(t, err)
	assert.Equal(t, PlanLump, lump.Kind)

	plan, err := InstallmentPlan(cost.Amount.Decimal, 3, "2024-02-05")
	require.NoError(t, err)
	require.NoError(t, cost.SetPlan(plan))
	require.NoError(t, db.Create(&cost).Error)

	var stored GeneralCost
	require.NoError(t, db.First(&stored, cost.ID).Error)
	decoded, err := stored.Plan()
	require.NoError(t, err)
	assert.Equal(t, 3, decoded.Count)
	assert.Equal(t, "2024-04-05", decoded.Schedule[2].DueDate)
	assert.True(t, stored.Amount.Equal(decimal.NewFromInt(450)))
}

func TestAddMonths(t *testing.T) {
	base := time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-02-29", AddMonths(base, 2).Format(DateLayout))
	assert.Equal(t, "2023-11-30", AddMonths(base, -1).Format(DateLayout))
	assert.Equal(t, "2023-12-31", AddMonths(base, 0).Format(DateLayout))
}
