package Reports

import (
	"context"
	"sort"

	"Fleetbook/Models"
)

// fakeStore is an in-memory Store with the same ordering rules as the
// gorm store.
type fakeStore struct {
	trips    []Models.Trip
	costs    []Models.GeneralCost
	charges  []Models.FixedMonthlyCharge
	salaries map[string]Models.DriverSalary
	monthly  map[string]Models.MonthlyFixedCost
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		salaries: make(map[string]Models.DriverSalary),
		monthly:  make(map[string]Models.MonthlyFixedCost),
	}
}

func sortCosts(costs []Models.GeneralCost) {
	sort.SliceStable(costs, func(i, j int) bool {
		a, b := costs[i], costs[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Description != b.Description {
			return a.Description < b.Description
		}
		return a.ID < b.ID
	})
}

func (f *fakeStore) TripsBetween(_ context.Context, start, end string) ([]Models.Trip, error) {
	var out []Models.Trip
	for _, t := range f.trips {
		if t.Date >= start && t.Date <= end {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeStore) GeneralCostsBetween(_ context.Context, start, end string) ([]Models.GeneralCost, error) {
	var out []Models.GeneralCost
	for _, c := range f.costs {
		if c.Date >= start && c.Date <= end {
			out = append(out, c)
		}
	}
	sortCosts(out)
	return out, nil
}

func (f *fakeStore) CostsForTrips(_ context.Context, ids []uint) ([]Models.GeneralCost, error) {
	wanted := make(map[uint]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []Models.GeneralCost
	for _, c := range f.costs {
		if c.TripID != nil && wanted[*c.TripID] {
			out = append(out, c)
		}
	}
	sortCosts(out)
	return out, nil
}

func (f *fakeStore) FixedChargesOverlapping(_ context.Context, start, end string) ([]Models.FixedMonthlyCharge, error) {
	var out []Models.FixedMonthlyCharge
	for _, c := range f.charges {
		if c.StartDate <= end && (c.EndDate == nil || *c.EndDate >= start) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) GetOrCreateMonthlyCost(_ context.Context, ym string) (Models.MonthlyFixedCost, bool, error) {
	if cost, ok := f.monthly[ym]; ok {
		return cost, false, nil
	}
	cost := Models.MonthlyFixedCost{ID: uint(len(f.monthly) + 1), YearMonth: ym}
	f.monthly[ym] = cost
	return cost, true, nil
}

func (f *fakeStore) DriverSalary(_ context.Context, driver, ym string) (Models.DriverSalary, bool, error) {
	salary, ok := f.salaries[driver+"|"+ym]
	return salary, ok, nil
}

func (f *fakeStore) SalariesForMonth(_ context.Context, ym string) ([]Models.DriverSalary, error) {
	var out []Models.DriverSalary
	for _, salary := range f.salaries {
		if salary.YearMonth == ym {
			out = append(out, salary)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DriverName < out[j].DriverName })
	return out, nil
}

func (f *fakeStore) addSalary(s Models.DriverSalary) {
	f.salaries[s.DriverName+"|"+s.YearMonth] = s
}

func trip(id uint, date, driver, truck string, perDiem uint, fuel, revenue string) Models.Trip {
	t := Models.Trip{
		Date:         date,
		Origin:       "Santos",
		Destination:  "Campinas",
		PerDiemCount: perDiem,
		PerDiemValue: Models.NewAmount(Models.PerDiemValue(perDiem)),
		FuelLiters:   Models.MustAmount("100"),
		FuelCost:     Models.MustAmount(fuel),
		Revenue:      Models.MustAmount(revenue),
		DriverName:   driver,
		TruckName:    truck,
	}
	t.ID = id
	return t
}

func cost(id uint, tripID *uint, date, description, amount string) Models.GeneralCost {
	c := Models.GeneralCost{
		TripID:        tripID,
		Category:      Models.CategoryToll,
		Date:          date,
		VehiclePlate:  "ABC1D23",
		Vendor:        "Autoban",
		Description:   description,
		Amount:        Models.MustAmount(amount),
		PaymentMethod: Models.PaymentCash,
		PaymentStatus: Models.StatusPaid,
	}
	c.ID = id
	return c
}

func charge(id uint, amount, start string, end *string, status Models.ChargeStatus) Models.FixedMonthlyCharge {
	c := Models.FixedMonthlyCharge{
		Description:   "truck loan",
		Category:      Models.ChargeTruckInstallment,
		MonthlyAmount: Models.MustAmount(amount),
		StartDate:     start,
		EndDate:       end,
		Status:        status,
	}
	c.ID = id
	return c
}

func malformedAmount() Models.Amount {
	var a Models.Amount
	_ = a.Scan("twelve")
	return a
}

func ptr[T any](v T) *T {
	return &v
}
