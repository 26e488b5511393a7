package Controllers

import (
	"log/slog"
	"slices"

	"github.com/gofiber/fiber/v2"

	"Fleetbook/Models"
	"Fleetbook/Reports"
	"Fleetbook/Store"
	"Fleetbook/Validation"
)

// TripHandler contains handler methods for trip routes
type TripHandler struct {
	Store   *Store.Store
	Reports *Reports.Assembler
}

// NewTripHandler creates a new trip handler
func NewTripHandler(store *Store.Store, reports *Reports.Assembler) *TripHandler {
	return &TripHandler{
		Store:   store,
		Reports: reports,
	}
}

type TripInput struct {
	Date         string        `json:"date" validate:"required,date"`
	Origin       string        `json:"origin" validate:"required,max=200"`
	Destination  string        `json:"destination" validate:"required,max=200"`
	PerDiemCount uint          `json:"per_diem_count"`
	FuelLiters   Models.Amount `json:"fuel_liters" validate:"gte=0"`
	FuelCost     Models.Amount `json:"fuel_cost" validate:"gte=0"`
	Revenue      Models.Amount `json:"revenue" validate:"gte=0"`
	DriverName   string        `json:"driver_name" validate:"required,max=100"`
	TruckName    string        `json:"truck_name" validate:"required,max=50"`
	Costs        []CostInput   `json:"costs" validate:"dive"`
	Salary       *SalaryInput  `json:"salary"`
}

// SalaryInput is the salary adjustment optionally sent with a trip.
type SalaryInput struct {
	BaseSalary       Models.Amount `json:"base_salary" validate:"gte=0"`
	TripBonus        Models.Amount `json:"trip_bonus" validate:"gte=0"`
	AbsenceDeduction Models.Amount `json:"absence_deduction" validate:"gte=0"`
}

func (s *SalaryInput) empty() bool {
	return s == nil || (s.BaseSalary.IsZero() && s.TripBonus.IsZero() && s.AbsenceDeduction.IsZero())
}

func (in TripInput) apply(trip *Models.Trip) {
	trip.Date = in.Date
	trip.Origin = in.Origin
	trip.Destination = in.Destination
	trip.PerDiemCount = in.PerDiemCount
	trip.FuelLiters = in.FuelLiters
	trip.FuelCost = in.FuelCost
	trip.Revenue = in.Revenue
	trip.DriverName = in.DriverName
	trip.TruckName = in.TruckName
}

// salaryFor returns the salary row to upsert for the trip's driver and month,
// or nil when no salary field was filled in.
func (in TripInput) salaryFor(trip Models.Trip) *Models.DriverSalary {
	if in.Salary.empty() {
		return nil
	}
	return &Models.DriverSalary{
		DriverName:       trip.DriverName,
		YearMonth:        trip.YearMonth(),
		BaseSalary:       in.Salary.BaseSalary,
		TripBonus:        in.Salary.TripBonus,
		AbsenceDeduction: in.Salary.AbsenceDeduction,
	}
}

func (h *TripHandler) parseTripInput(c *fiber.Ctx) (TripInput, error) {
	var input TripInput
	if err := c.BodyParser(&input); err != nil {
		return TripInput{}, err
	}
	for i := range input.Costs {
		if input.Costs[i].Date == "" {
			input.Costs[i].Date = input.Date
		}
	}
	if err := Validation.Struct(input); err != nil {
		return TripInput{}, err
	}
	return input, nil
}

// RegisterTrip stores a trip with the costs paid on it and the driver's
// salary adjustment for the month, all or nothing.
func (h *TripHandler) RegisterTrip(c *fiber.Ctx) error {
	input, err := h.parseTripInput(c)
	if err != nil {
		return inputError(c, "Invalid trip", err)
	}

	var trip Models.Trip
	input.apply(&trip)

	costs := make([]Models.GeneralCost, 0, len(input.Costs))
	for _, ci := range input.Costs {
		cost, err := ci.toModel()
		if err != nil {
			return inputError(c, "Invalid trip cost", err)
		}
		costs = append(costs, cost)
	}

	if err := h.Store.CreateTrip(c.UserContext(), &trip, costs, input.salaryFor(trip)); err != nil {
		return storeError(c, "Failed to register trip", err)
	}

	slog.InfoContext(c.UserContext(), "trip registered",
		"trip_id", trip.ID, "driver", trip.DriverName, "costs", len(costs))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Trip registered successfully",
		"data":    trip,
	})
}

// GetTrips lists the trips of a period, newest first, each with its summary.
func (h *TripHandler) GetTrips(c *fiber.Ctx) error {
	period, err := rangeFromQuery(c)
	if err != nil {
		return inputError(c, "Invalid period", err)
	}

	report, err := h.Reports.BuildPeriodReport(c.UserContext(), period)
	if err != nil {
		return storeError(c, "Failed to fetch trips", err)
	}
	slices.Reverse(report.Trips)

	return c.JSON(fiber.Map{
		"message":    "Trips fetched successfully",
		"data":       report.Trips,
		"start_date": report.StartDate,
		"end_date":   report.EndDate,
		"totals":     report.Totals,
	})
}

func (h *TripHandler) GetTrip(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return inputError(c, "Invalid trip ID", err)
	}
	trip, err := h.Store.TripByID(c.UserContext(), id)
	if err != nil {
		return storeError(c, "Trip not found", err)
	}
	return c.JSON(fiber.Map{
		"message": "Trip fetched successfully",
		"data":    trip,
	})
}

// GetTripSummary is the drill-down of one trip.
func (h *TripHandler) GetTripSummary(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return inputError(c, "Invalid trip ID", err)
	}
	trip, err := h.Store.TripByID(c.UserContext(), id)
	if err != nil {
		return storeError(c, "Trip not found", err)
	}
	summary, err := h.Reports.BuildTripSummary(c.UserContext(), trip)
	if err != nil {
		return storeError(c, "Failed to build trip summary", err)
	}
	return c.JSON(fiber.Map{
		"message": "Trip summary built successfully",
		"data":    summary,
	})
}

// UpdateTrip replaces the trip's fields. Costs sent with the body are
// ignored; they are edited through the cost routes.
func (h *TripHandler) UpdateTrip(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return inputError(c, "Invalid trip ID", err)
	}
	input, err := h.parseTripInput(c)
	if err != nil {
		return inputError(c, "Invalid trip", err)
	}

	ctx := c.UserContext()
	trip, err := h.Store.TripByID(ctx, id)
	if err != nil {
		return storeError(c, "Trip not found", err)
	}
	input.apply(&trip)

	if err := h.Store.UpdateTrip(ctx, &trip, input.salaryFor(trip)); err != nil {
		return storeError(c, "Failed to update trip", err)
	}

	return c.JSON(fiber.Map{
		"message": "Trip updated successfully",
		"data":    trip,
	})
}

// DeleteTrip removes the trip together with its costs.
func (h *TripHandler) DeleteTrip(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return inputError(c, "Invalid trip ID", err)
	}
	if err := h.Store.DeleteTripCascade(c.UserContext(), id); err != nil {
		return storeError(c, "Failed to delete trip", err)
	}
	slog.InfoContext(c.UserContext(), "trip deleted", "trip_id", id)
	return c.JSON(fiber.Map{
		"message": "Trip deleted successfully",
	})
}
