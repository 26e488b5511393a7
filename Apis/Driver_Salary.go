package Apis

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"Fleetbook/Models"
	"Fleetbook/Store"
	"Fleetbook/Validation"
)

func salaryStore() *Store.Store {
	return Store.New(Models.DB)
}

type SalaryRequest struct {
	DriverName       string        `json:"driver_name" validate:"required,max=100"`
	YearMonth        string        `json:"year_month" validate:"required,yearmonth"`
	BaseSalary       Models.Amount `json:"base_salary" validate:"gte=0"`
	TripBonus        Models.Amount `json:"trip_bonus" validate:"gte=0"`
	AbsenceDeduction Models.Amount `json:"absence_deduction" validate:"gte=0"`
}

type salaryQuery struct {
	DriverName string `query:"driver" validate:"required,max=100"`
	YearMonth  string `query:"year_month" validate:"required,yearmonth"`
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	body := fiber.Map{
		"message": message,
		"error":   err.Error(),
	}
	var verr *Validation.Error
	if errors.As(err, &verr) {
		body["fields"] = verr.Fields
	}
	return c.Status(fiber.StatusBadRequest).JSON(body)
}

func failed(c *fiber.Ctx, message string, err error) error {
	if errors.Is(err, Store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	}
	slog.ErrorContext(c.UserContext(), message, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func parseSalaryQuery(c *fiber.Ctx) (salaryQuery, error) {
	var query salaryQuery
	if err := c.QueryParser(&query); err != nil {
		return salaryQuery{}, err
	}
	if err := Validation.Struct(query); err != nil {
		return salaryQuery{}, err
	}
	return query, nil
}

// RegisterDriverSalary creates or replaces a driver's salary for a month.
func RegisterDriverSalary(c *fiber.Ctx) error {
	var input SalaryRequest
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "Cannot parse request body", err)
	}
	if err := Validation.Struct(input); err != nil {
		return badRequest(c, "Invalid salary", err)
	}

	salary := Models.DriverSalary{
		DriverName:       input.DriverName,
		YearMonth:        input.YearMonth,
		BaseSalary:       input.BaseSalary,
		TripBonus:        input.TripBonus,
		AbsenceDeduction: input.AbsenceDeduction,
	}
	if err := salaryStore().UpsertDriverSalary(c.UserContext(), &salary); err != nil {
		return failed(c, "Failed to save salary", err)
	}

	slog.InfoContext(c.UserContext(), "salary saved",
		"driver", salary.DriverName, "year_month", salary.YearMonth, "net", salary.NetSalary.String())
	return c.JSON(fiber.Map{
		"message": "Salary Registered Successfully",
		"data":    salary,
	})
}

// GetDriverSalaries lists salaries filtered by optional year_month and driver.
func GetDriverSalaries(c *fiber.Ctx) error {
	ym := c.Query("year_month")
	if ym != "" {
		if err := Validation.Var("year_month", ym, "yearmonth"); err != nil {
			return badRequest(c, "Invalid year-month. Use YYYY-MM", err)
		}
	}

	salaries, err := salaryStore().ListSalaries(c.UserContext(), ym, c.Query("driver"))
	if err != nil {
		return failed(c, "Failed to fetch salaries", err)
	}

	total := decimal.Zero
	for _, salary := range salaries {
		total = total.Add(salary.Net())
	}
	return c.JSON(fiber.Map{
		"message":   "Salaries fetched successfully",
		"data":      salaries,
		"net_total": total,
	})
}

// GetDriverSalaryPreview shows the driver's salary for the month next to the
// trips driven that month.
func GetDriverSalaryPreview(c *fiber.Ctx) error {
	query, err := parseSalaryQuery(c)
	if err != nil {
		return badRequest(c, "Driver and year_month are required", err)
	}

	ctx := c.UserContext()
	store := salaryStore()
	salary, found, err := store.DriverSalary(ctx, query.DriverName, query.YearMonth)
	if err != nil {
		return failed(c, "Failed to fetch salary", err)
	}
	trips, err := store.TripsForDriverMonth(ctx, query.DriverName, query.YearMonth)
	if err != nil {
		return failed(c, "Failed to fetch trips", err)
	}

	revenue, perDiem := decimal.Zero, decimal.Zero
	for _, trip := range trips {
		revenue = revenue.Add(trip.Revenue.Decimal)
		perDiem = perDiem.Add(trip.PerDiemValue.Decimal)
	}

	return c.JSON(fiber.Map{
		"message":        "Salary preview built successfully",
		"driver_name":    query.DriverName,
		"year_month":     query.YearMonth,
		"salary_found":   found,
		"salary":         salary,
		"net_salary":     salary.Net(),
		"trips":          trips,
		"trips_count":    len(trips),
		"total_revenue":  revenue,
		"total_per_diem": perDiem,
	})
}

func DeleteDriverSalary(c *fiber.Ctx) error {
	query, err := parseSalaryQuery(c)
	if err != nil {
		return badRequest(c, "Driver and year_month are required", err)
	}
	if err := salaryStore().DeleteDriverSalary(c.UserContext(), query.DriverName, query.YearMonth); err != nil {
		return failed(c, "Failed to delete salary", err)
	}
	return c.JSON(fiber.Map{
		"message": "Salary deleted successfully",
	})
}
