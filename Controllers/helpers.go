package Controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"Fleetbook/Models"
	"Fleetbook/Reports"
	"Fleetbook/Store"
	"Fleetbook/Validation"
)

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", c.Params("id"))
	}
	return uint(id), nil
}

// inputError answers 400 and lists per-field messages when there are any.
func inputError(c *fiber.Ctx, message string, err error) error {
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

// storeError maps lookup misses to 404 and bad periods to 400. Anything
// else is logged and answered with 500.
func storeError(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, Store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": message,
			"error":   err.Error(),
		})
	case errors.Is(err, Reports.ErrInvalidPeriod):
		return inputError(c, message, err)
	}
	slog.ErrorContext(c.UserContext(), message, "error", err, "path", c.Path())
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func today() string {
	return time.Now().Format(Models.DateLayout)
}

// rangeFromQuery reads start_date/end_date, falling back to the current
// month when both are absent.
func rangeFromQuery(c *fiber.Ctx) (Reports.Period, error) {
	start, end := c.Query("start_date"), c.Query("end_date")
	if start == "" && end == "" {
		return Reports.ParseYearMonth(time.Now().Format(Models.YearMonthLayout))
	}
	return Reports.ParseRange(start, end)
}
