package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"Fleetbook/Models"
	"Fleetbook/Reports"
	"Fleetbook/Store"
	"Fleetbook/Validation"
)

const fixedCostsPendingMessage = "Please fill in the fixed costs for this month"

// MonthlyCostHandler serves the per-month fixed cost subtotals
type MonthlyCostHandler struct {
	Store *Store.Store
}

func NewMonthlyCostHandler(store *Store.Store) *MonthlyCostHandler {
	return &MonthlyCostHandler{Store: store}
}

type MonthlyCostInput struct {
	Parts       Models.Amount `json:"parts" validate:"gte=0"`
	Insurance   Models.Amount `json:"insurance" validate:"gte=0"`
	Maintenance Models.Amount `json:"maintenance" validate:"gte=0"`
}

func yearMonthParam(c *fiber.Ctx) (string, error) {
	ym := c.Params("year_month")
	if _, err := Reports.ParseYearMonth(ym); err != nil {
		return "", err
	}
	return ym, nil
}

// GetMonthlyCost returns the month's fixed costs, creating them blank on
// first access.
func (h *MonthlyCostHandler) GetMonthlyCost(c *fiber.Ctx) error {
	ym, err := yearMonthParam(c)
	if err != nil {
		return inputError(c, "Invalid year-month. Use YYYY-MM", err)
	}
	cost, created, err := h.Store.GetOrCreateMonthlyCost(c.UserContext(), ym)
	if err != nil {
		return storeError(c, "Failed to fetch monthly costs", err)
	}

	pending := created || cost.IsBlank()
	message := "Monthly costs fetched successfully"
	if pending {
		message = fixedCostsPendingMessage
	}
	return c.JSON(fiber.Map{
		"message": message,
		"data":    cost,
		"pending": pending,
	})
}

func (h *MonthlyCostHandler) UpsertMonthlyCost(c *fiber.Ctx) error {
	ym, err := yearMonthParam(c)
	if err != nil {
		return inputError(c, "Invalid year-month. Use YYYY-MM", err)
	}
	var input MonthlyCostInput
	if err := c.BodyParser(&input); err != nil {
		return inputError(c, "Cannot parse request body", err)
	}
	if err := Validation.Struct(input); err != nil {
		return inputError(c, "Invalid monthly costs", err)
	}

	cost := Models.MonthlyFixedCost{
		YearMonth:   ym,
		Parts:       input.Parts,
		Insurance:   input.Insurance,
		Maintenance: input.Maintenance,
	}
	if err := h.Store.UpsertMonthlyCost(c.UserContext(), &cost); err != nil {
		return storeError(c, "Failed to save monthly costs", err)
	}
	return c.JSON(fiber.Map{
		"message": "Monthly costs saved successfully",
		"data":    cost,
	})
}

// DeleteMonthlyCost drops the month's fixed costs. The next monthly report
// starts the month blank again.
func (h *MonthlyCostHandler) DeleteMonthlyCost(c *fiber.Ctx) error {
	ym, err := yearMonthParam(c)
	if err != nil {
		return inputError(c, "Invalid year-month. Use YYYY-MM", err)
	}
	if err := h.Store.DeleteMonthlyCost(c.UserContext(), ym); err != nil {
		return storeError(c, "Failed to delete monthly costs", err)
	}
	return c.JSON(fiber.Map{
		"message": "Monthly costs deleted successfully",
	})
}
