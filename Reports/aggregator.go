package Reports

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"Fleetbook/Models"
)

// Store is the read side the reports need from persistence.
type Store interface {
	TripsBetween(ctx context.Context, start, end string) ([]Models.Trip, error)
	GeneralCostsBetween(ctx context.Context, start, end string) ([]Models.GeneralCost, error)
	CostsForTrips(ctx context.Context, ids []uint) ([]Models.GeneralCost, error)
	FixedChargesOverlapping(ctx context.Context, start, end string) ([]Models.FixedMonthlyCharge, error)
	GetOrCreateMonthlyCost(ctx context.Context, ym string) (Models.MonthlyFixedCost, bool, error)
	DriverSalary(ctx context.Context, driver, ym string) (Models.DriverSalary, bool, error)
	SalariesForMonth(ctx context.Context, ym string) ([]Models.DriverSalary, error)
}

type TripTotals struct {
	TripCount    int             `json:"trip_count"`
	PerDiemCount int64           `json:"per_diem_count"`
	PerDiemValue decimal.Decimal `json:"per_diem_value"`
	FuelLiters   decimal.Decimal `json:"fuel_liters"`
	FuelCost     decimal.Decimal `json:"fuel_cost"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// ProfitInputs are the summands of ComputeProfit. Zero values count as zero.
type ProfitInputs struct {
	Revenue           decimal.Decimal
	FuelCost          decimal.Decimal
	PerDiemValue      decimal.Decimal
	FixedCostsTotal   decimal.Decimal
	GeneralCostsTotal decimal.Decimal
	FixedChargesTotal decimal.Decimal
	SalaryNetTotal    decimal.Decimal
}

// ComputeProfit is revenue minus every cost input.
func ComputeProfit(in ProfitInputs) decimal.Decimal {
	costs := decimal.Sum(in.FuelCost,
		in.PerDiemValue,
		in.FixedCostsTotal,
		in.GeneralCostsTotal,
		in.FixedChargesTotal,
		in.SalaryNetTotal,
	)
	return in.Revenue.Sub(costs)
}

// Aggregator reduces stored records of a period into totals.
type Aggregator struct {
	store  Store
	logger *slog.Logger
}

func NewAggregator(store Store, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{store: store, logger: logger}
}

func (a *Aggregator) AggregateTrips(ctx context.Context, p Period) (TripTotals, error) {
	var bad malformed
	_, totals, err := a.trips(ctx, p, &bad)
	if err != nil {
		return TripTotals{}, err
	}
	bad.warn(ctx, a.logger, "aggregate_trips", p)
	return totals, nil
}

func (a *Aggregator) AggregateGeneralCosts(ctx context.Context, p Period) (decimal.Decimal, error) {
	var bad malformed
	_, total, err := a.generalCosts(ctx, p, &bad)
	if err != nil {
		return decimal.Zero, err
	}
	bad.warn(ctx, a.logger, "aggregate_general_costs", p)
	return total, nil
}

func (a *Aggregator) AggregateFixedCharges(ctx context.Context, p Period) (decimal.Decimal, error) {
	var bad malformed
	total, err := a.fixedCharges(ctx, p, &bad)
	if err != nil {
		return decimal.Zero, err
	}
	bad.warn(ctx, a.logger, "aggregate_fixed_charges", p)
	return total, nil
}

// trips, generalCosts and fixedCharges collect malformed ids into bad and
// leave the warning to the caller, so a report logs once.

func (a *Aggregator) trips(ctx context.Context, p Period, bad *malformed) ([]Models.Trip, TripTotals, error) {
	trips, err := a.store.TripsBetween(ctx, p.StartDate(), p.EndDate())
	if err != nil {
		return nil, TripTotals{}, err
	}
	return trips, sumTrips(trips, bad), nil
}

func (a *Aggregator) generalCosts(ctx context.Context, p Period, bad *malformed) ([]Models.GeneralCost, decimal.Decimal, error) {
	costs, err := a.store.GeneralCostsBetween(ctx, p.StartDate(), p.EndDate())
	if err != nil {
		return nil, decimal.Zero, err
	}
	if costs == nil {
		costs = []Models.GeneralCost{}
	}
	return costs, sumCosts(costs, bad), nil
}

func (a *Aggregator) fixedCharges(ctx context.Context, p Period, bad *malformed) (decimal.Decimal, error) {
	charges, err := a.store.FixedChargesOverlapping(ctx, p.StartDate(), p.EndDate())
	if err != nil {
		return decimal.Zero, err
	}
	return prorateCharges(charges, p, bad), nil
}

// monthSalaries is the net total of every salary on file for ym.
func (a *Aggregator) monthSalaries(ctx context.Context, ym string, bad *malformed) (decimal.Decimal, error) {
	salaries, err := a.store.SalariesForMonth(ctx, ym)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, salary := range salaries {
		if salaryMalformed(salary) {
			bad.salaries = append(bad.salaries, salary.ID)
		}
		total = total.Add(salary.Net())
	}
	return total, nil
}

func salaryMalformed(salary Models.DriverSalary) bool {
	return salary.BaseSalary.Malformed() || salary.TripBonus.Malformed() || salary.AbsenceDeduction.Malformed()
}

func sumTrips(trips []Models.Trip, bad *malformed) TripTotals {
	totals := TripTotals{
		PerDiemValue: decimal.Zero,
		FuelLiters:   decimal.Zero,
		FuelCost:     decimal.Zero,
		Revenue:      decimal.Zero,
	}
	for _, trip := range trips {
		if len(trip.MalformedFields()) > 0 {
			bad.trips = append(bad.trips, trip.ID)
		}
		totals.TripCount++
		totals.PerDiemCount += int64(trip.PerDiemCount)
		totals.PerDiemValue = totals.PerDiemValue.Add(trip.PerDiemValue.Decimal)
		totals.FuelLiters = totals.FuelLiters.Add(trip.FuelLiters.Decimal)
		totals.FuelCost = totals.FuelCost.Add(trip.FuelCost.Decimal)
		totals.Revenue = totals.Revenue.Add(trip.Revenue.Decimal)
	}
	return totals
}

func sumCosts(costs []Models.GeneralCost, bad *malformed) decimal.Decimal {
	total := decimal.Zero
	for _, cost := range costs {
		if cost.Amount.Malformed() {
			bad.costs = append(bad.costs, cost.ID)
		}
		total = total.Add(cost.Amount.Decimal)
	}
	return total
}

// activeDays counts the days of p on which charge is active: the overlap of
// the period with [start, end] of an active charge.
func activeDays(charge Models.FixedMonthlyCharge, p Period) int {
	if charge.Status != Models.ChargeActive {
		return 0
	}
	from, to := p.StartDate(), p.EndDate()
	if charge.StartDate > from {
		from = charge.StartDate
	}
	if charge.EndDate != nil && *charge.EndDate != "" && *charge.EndDate < to {
		to = *charge.EndDate
	}
	if from > to {
		return 0
	}
	start, err := Models.ParseDate(from)
	if err != nil {
		return 0
	}
	end, err := Models.ParseDate(to)
	if err != nil {
		return 0
	}
	return daysBetween(start, end) + 1
}

// ProrateCharge is the share of charge's monthly amount for the days of p on
// which it is active, rounded to cents.
func ProrateCharge(charge Models.FixedMonthlyCharge, p Period) decimal.Decimal {
	active := activeDays(charge, p)
	if active <= 0 {
		return decimal.Zero
	}
	return charge.MonthlyAmount.
		Mul(decimal.NewFromInt(int64(active))).
		Div(decimal.NewFromInt(int64(p.Days()))).
		Round(2)
}

func prorateCharges(charges []Models.FixedMonthlyCharge, p Period, bad *malformed) decimal.Decimal {
	total := decimal.Zero
	for _, charge := range charges {
		if charge.MonthlyAmount.Malformed() {
			bad.charges = append(bad.charges, charge.ID)
		}
		total = total.Add(ProrateCharge(charge, p))
	}
	return total
}

// malformed collects the ids of records whose stored numbers were unreadable.
type malformed struct {
	trips      []uint
	costs      []uint
	charges    []uint
	salaries   []uint
	fixedCosts []uint
}

func (m *malformed) empty() bool {
	return len(m.trips)+len(m.costs)+len(m.charges)+len(m.salaries)+len(m.fixedCosts) == 0
}

func (m *malformed) warn(ctx context.Context, logger *slog.Logger, op string, p Period) {
	if m.empty() {
		return
	}
	attrs := []any{"op", op, "period", p.String()}
	for _, group := range []struct {
		key string
		ids []uint
	}{
		{"trip_ids", m.trips},
		{"cost_ids", m.costs},
		{"charge_ids", m.charges},
		{"salary_ids", m.salaries},
		{"fixed_cost_ids", m.fixedCosts},
	} {
		if len(group.ids) > 0 {
			ids := slices.Clone(group.ids)
			slices.Sort(ids)
			attrs = append(attrs, group.key, slices.Compact(ids))
		}
	}
	logger.WarnContext(ctx, "malformed stored amounts counted as zero", attrs...)
}
