package Reports

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"Fleetbook/Models"
)

type TripSummary struct {
	Trip       Models.Trip          `json:"trip"`
	Costs      []Models.GeneralCost `json:"costs"`
	CostsTotal decimal.Decimal      `json:"costs_total"`
	SalaryNet  decimal.Decimal      `json:"salary_net"`
	NetProfit  decimal.Decimal      `json:"net_profit"`
}

// Breakdown groups trip totals under a driver or truck name.
type Breakdown struct {
	Name         string          `json:"name"`
	TripCount    int             `json:"trip_count"`
	PerDiemValue decimal.Decimal `json:"per_diem_value"`
	FuelCost     decimal.Decimal `json:"fuel_cost"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type PeriodTotals struct {
	Trips             TripTotals      `json:"trips"`
	GeneralCostsTotal decimal.Decimal `json:"general_costs_total"`
	FixedChargesTotal decimal.Decimal `json:"fixed_charges_total"`
	SalaryNetTotal    decimal.Decimal `json:"salary_net_total"`
	FixedCostsTotal   decimal.Decimal `json:"fixed_costs_total"`
	Profit            decimal.Decimal `json:"profit"`
}

func (t PeriodTotals) profitInputs() ProfitInputs {
	return ProfitInputs{
		Revenue:           t.Trips.Revenue,
		FuelCost:          t.Trips.FuelCost,
		PerDiemValue:      t.Trips.PerDiemValue,
		FixedCostsTotal:   t.FixedCostsTotal,
		GeneralCostsTotal: t.GeneralCostsTotal,
		FixedChargesTotal: t.FixedChargesTotal,
		SalaryNetTotal:    t.SalaryNetTotal,
	}
}

type PeriodReport struct {
	StartDate    string               `json:"start_date"`
	EndDate      string               `json:"end_date"`
	Days         int                  `json:"days"`
	Totals       PeriodTotals         `json:"totals"`
	Trips        []TripSummary        `json:"trips"`
	ByDriver     []Breakdown          `json:"by_driver"`
	ByTruck      []Breakdown          `json:"by_truck"`
	GeneralCosts []Models.GeneralCost `json:"general_costs"`
}

type MonthlyReport struct {
	PeriodReport
	YearMonth         string                  `json:"year_month"`
	FixedCosts        Models.MonthlyFixedCost `json:"fixed_costs"`
	FixedCostsPending bool                    `json:"fixed_costs_pending"`
}

// Assembler builds report payloads. It keeps no state between calls.
type Assembler struct {
	store  Store
	agg    *Aggregator
	logger *slog.Logger
}

func NewAssembler(store Store, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{store: store, agg: NewAggregator(store, logger), logger: logger}
}

// salaryKey identifies one driver's month.
type salaryKey struct {
	driver    string
	yearMonth string
}

type salaryBook struct {
	nets map[salaryKey]decimal.Decimal
}

// lookupSalaries fetches the salary of every (driver, month) among trips.
// Missing salaries count as zero.
func (a *Assembler) lookupSalaries(ctx context.Context, trips []Models.Trip, bad *malformed) (salaryBook, error) {
	book := salaryBook{nets: make(map[salaryKey]decimal.Decimal)}
	for _, trip := range trips {
		key := salaryKey{driver: trip.DriverName, yearMonth: trip.YearMonth()}
		if _, seen := book.nets[key]; seen {
			continue
		}
		salary, found, err := a.store.DriverSalary(ctx, key.driver, key.yearMonth)
		if err != nil {
			return salaryBook{}, err
		}
		if !found {
			book.nets[key] = decimal.Zero
			continue
		}
		if salaryMalformed(salary) {
			bad.salaries = append(bad.salaries, salary.ID)
		}
		book.nets[key] = salary.Net()
	}
	return book, nil
}

func (b salaryBook) net(trip Models.Trip) decimal.Decimal {
	return b.nets[salaryKey{driver: trip.DriverName, yearMonth: trip.YearMonth()}]
}

func (b salaryBook) total() decimal.Decimal {
	keys := make([]salaryKey, 0, len(b.nets))
	for key := range b.nets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].driver != keys[j].driver {
			return keys[i].driver < keys[j].driver
		}
		return keys[i].yearMonth < keys[j].yearMonth
	})
	total := decimal.Zero
	for _, key := range keys {
		total = total.Add(b.nets[key])
	}
	return total
}

func summarize(trip Models.Trip, costs []Models.GeneralCost, salaryNet decimal.Decimal, bad *malformed) TripSummary {
	if costs == nil {
		costs = []Models.GeneralCost{}
	}
	costsTotal := sumCosts(costs, bad)
	trip.GeneralCosts = nil
	return TripSummary{
		Trip:       trip,
		Costs:      costs,
		CostsTotal: costsTotal,
		SalaryNet:  salaryNet,
		NetProfit: trip.Revenue.
			Sub(trip.FuelCost.Decimal).
			Sub(trip.PerDiemValue.Decimal).
			Sub(costsTotal).
			Sub(salaryNet),
	}
}

// BuildTripSummary drills into one trip: its costs, its driver's salary for
// the trip's month and what is left of the freight after both.
func (a *Assembler) BuildTripSummary(ctx context.Context, trip Models.Trip) (TripSummary, error) {
	costs, err := a.store.CostsForTrips(ctx, []uint{trip.ID})
	if err != nil {
		return TripSummary{}, err
	}
	var bad malformed
	book, err := a.lookupSalaries(ctx, []Models.Trip{trip}, &bad)
	if err != nil {
		return TripSummary{}, err
	}
	if len(trip.MalformedFields()) > 0 {
		bad.trips = append(bad.trips, trip.ID)
	}
	summary := summarize(trip, costs, book.net(trip), &bad)
	day, _ := Day(trip.Date)
	bad.warn(ctx, a.logger, "trip_summary", day)
	return summary, nil
}

func (a *Assembler) BuildPeriodReport(ctx context.Context, p Period) (PeriodReport, error) {
	var bad malformed
	report, err := a.assemble(ctx, p, &bad)
	if err != nil {
		return PeriodReport{}, err
	}
	bad.warn(ctx, a.logger, "period_report", p)
	return report, nil
}

func (a *Assembler) BuildDailyReport(ctx context.Context, date string) (PeriodReport, error) {
	p, err := Day(date)
	if err != nil {
		return PeriodReport{}, err
	}
	return a.BuildPeriodReport(ctx, p)
}

// BuildMonthlyReport is the period report of ym plus the month's fixed
// costs, which are created blank on first view.
func (a *Assembler) BuildMonthlyReport(ctx context.Context, ym string) (MonthlyReport, error) {
	p, err := ParseYearMonth(ym)
	if err != nil {
		return MonthlyReport{}, err
	}

	var bad malformed
	report, err := a.assemble(ctx, p, &bad)
	if err != nil {
		return MonthlyReport{}, err
	}

	fixed, created, err := a.store.GetOrCreateMonthlyCost(ctx, ym)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("fixed costs of %s: %w", ym, err)
	}
	if fixed.Parts.Malformed() || fixed.Insurance.Malformed() || fixed.Maintenance.Malformed() {
		bad.fixedCosts = append(bad.fixedCosts, fixed.ID)
	}
	fixed.TotalFixed = fixed.Total()

	// every salary on file for the month, drivers without trips included
	salaries, err := a.agg.monthSalaries(ctx, ym, &bad)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("salaries of %s: %w", ym, err)
	}

	report.Totals.SalaryNetTotal = salaries
	report.Totals.FixedCostsTotal = fixed.TotalFixed
	report.Totals.Profit = ComputeProfit(report.Totals.profitInputs())

	bad.warn(ctx, a.logger, "monthly_report", p)
	return MonthlyReport{
		PeriodReport:      report,
		YearMonth:         ym,
		FixedCosts:        fixed,
		FixedCostsPending: created || fixed.IsBlank(),
	}, nil
}

func (a *Assembler) assemble(ctx context.Context, p Period, bad *malformed) (PeriodReport, error) {
	trips, tripTotals, err := a.agg.trips(ctx, p, bad)
	if err != nil {
		return PeriodReport{}, err
	}
	ids := make([]uint, 0, len(trips))
	for _, trip := range trips {
		ids = append(ids, trip.ID)
	}
	tripCosts, err := a.store.CostsForTrips(ctx, ids)
	if err != nil {
		return PeriodReport{}, err
	}
	costs, costsTotal, err := a.agg.generalCosts(ctx, p, bad)
	if err != nil {
		return PeriodReport{}, err
	}
	chargesTotal, err := a.agg.fixedCharges(ctx, p, bad)
	if err != nil {
		return PeriodReport{}, err
	}
	book, err := a.lookupSalaries(ctx, trips, bad)
	if err != nil {
		return PeriodReport{}, err
	}

	byTrip := make(map[uint][]Models.GeneralCost)
	for _, cost := range tripCosts {
		if cost.TripID != nil {
			byTrip[*cost.TripID] = append(byTrip[*cost.TripID], cost)
		}
	}

	summaries := make([]TripSummary, 0, len(trips))
	for _, trip := range trips {
		summaries = append(summaries, summarize(trip, byTrip[trip.ID], book.net(trip), bad))
	}

	totals := PeriodTotals{
		Trips:             tripTotals,
		GeneralCostsTotal: costsTotal,
		FixedChargesTotal: chargesTotal,
		SalaryNetTotal:    book.total(),
		FixedCostsTotal:   decimal.Zero,
	}
	totals.Profit = ComputeProfit(totals.profitInputs())

	return PeriodReport{
		StartDate:    p.StartDate(),
		EndDate:      p.EndDate(),
		Days:         p.Days(),
		Totals:       totals,
		Trips:        summaries,
		ByDriver:     breakdown(trips, func(t Models.Trip) string { return t.DriverName }),
		ByTruck:      breakdown(trips, func(t Models.Trip) string { return t.TruckName }),
		GeneralCosts: costs,
	}, nil
}

// breakdown groups trips by key, sorted by name.
func breakdown(trips []Models.Trip, key func(Models.Trip) string) []Breakdown {
	groups := make(map[string]*Breakdown)
	for _, trip := range trips {
		name := key(trip)
		g, ok := groups[name]
		if !ok {
			g = &Breakdown{
				Name:         name,
				PerDiemValue: decimal.Zero,
				FuelCost:     decimal.Zero,
				Revenue:      decimal.Zero,
			}
			groups[name] = g
		}
		g.TripCount++
		g.PerDiemValue = g.PerDiemValue.Add(trip.PerDiemValue.Decimal)
		g.FuelCost = g.FuelCost.Add(trip.FuelCost.Decimal)
		g.Revenue = g.Revenue.Add(trip.Revenue.Decimal)
	}

	out := make([]Breakdown, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
