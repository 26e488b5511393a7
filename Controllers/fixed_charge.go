package Controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"Fleetbook/Models"
	"Fleetbook/Store"
	"Fleetbook/Validation"
)

// FixedChargeHandler serves recurring monthly charges
type FixedChargeHandler struct {
	Store *Store.Store
}

func NewFixedChargeHandler(store *Store.Store) *FixedChargeHandler {
	return &FixedChargeHandler{Store: store}
}

type FixedChargeInput struct {
	Description   string                `json:"description" validate:"required,max=200"`
	Category      Models.ChargeCategory `json:"category" validate:"required,oneof=truck_installment insurance ipva licensing tracking other"`
	MonthlyAmount Models.Amount         `json:"monthly_amount" validate:"gt=0"`
	StartDate     string                `json:"start_date" validate:"required,date"`
	EndDate       string                `json:"end_date" validate:"omitempty,date"`
	Status        Models.ChargeStatus   `json:"status" validate:"omitempty,oneof=active inactive finalized"`
	Notes         string                `json:"notes"`
}

var errEndBeforeStart = errors.New("end_date must not be before start_date")

func (in FixedChargeInput) apply(charge *Models.FixedMonthlyCharge) error {
	if in.EndDate != "" && in.EndDate < in.StartDate {
		return errEndBeforeStart
	}
	charge.Description = in.Description
	charge.Category = in.Category
	charge.MonthlyAmount = in.MonthlyAmount
	charge.StartDate = in.StartDate
	charge.EndDate = nil
	if in.EndDate != "" {
		end := in.EndDate
		charge.EndDate = &end
	}
	charge.Status = in.Status
	if charge.Status == "" {
		charge.Status = Models.ChargeActive
	}
	charge.Notes = in.Notes
	return nil
}

func parseChargeInput(c *fiber.Ctx, charge *Models.FixedMonthlyCharge) error {
	var input FixedChargeInput
	if err := c.BodyParser(&input); err != nil {
		return err
	}
	if err := Validation.Struct(input); err != nil {
		return err
	}
	return input.apply(charge)
}

// GetFixedCharges lists charges, optionally only those with ?status=.
func (h *FixedChargeHandler) GetFixedCharges(c *fiber.Ctx) error {
	status := c.Query("status")
	if status != "" {
		if err := Validation.Var("status", status, "oneof=active inactive finalized"); err != nil {
			return inputError(c, "Invalid status", err)
		}
	}
	charges, err := h.Store.ListFixedCharges(c.UserContext(), Models.ChargeStatus(status))
	if err != nil {
		return storeError(c, "Failed to fetch fixed charges", err)
	}
	return c.JSON(fiber.Map{
		"message": "Fixed charges fetched successfully",
		"data":    charges,
	})
}

// GetActiveFixedCharges lists the charges active on ?date= (today by
// default) and their monthly sum.
func (h *FixedChargeHandler) GetActiveFixedCharges(c *fiber.Ctx) error {
	date := c.Query("date", today())
	if err := Validation.Var("date", date, "date"); err != nil {
		return inputError(c, "Invalid date format. Use YYYY-MM-DD", err)
	}
	charges, err := h.Store.ActiveFixedCharges(c.UserContext(), date)
	if err != nil {
		return storeError(c, "Failed to fetch fixed charges", err)
	}

	total := decimal.Zero
	for _, charge := range charges {
		total = total.Add(charge.MonthlyAmount.Decimal)
	}
	return c.JSON(fiber.Map{
		"message":       "Active fixed charges fetched successfully",
		"data":          charges,
		"date":          date,
		"monthly_total": total,
	})
}

func (h *FixedChargeHandler) CreateFixedCharge(c *fiber.Ctx) error {
	var charge Models.FixedMonthlyCharge
	if err := parseChargeInput(c, &charge); err != nil {
		return inputError(c, "Invalid fixed charge", err)
	}
	if err := h.Store.CreateFixedCharge(c.UserContext(), &charge); err != nil {
		return storeError(c, "Failed to create fixed charge", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Fixed charge created successfully",
		"data":    charge,
	})
}

func (h *FixedChargeHandler) UpdateFixedCharge(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return inputError(c, "Invalid fixed charge ID", err)
	}
	charge, err := h.Store.FixedChargeByID(c.UserContext(), id)
	if err != nil {
		return storeError(c, "Fixed charge not found", err)
	}
	if err := parseChargeInput(c, &charge); err != nil {
		return inputError(c, "Invalid fixed charge", err)
	}
	if err := h.Store.UpdateFixedCharge(c.UserContext(), &charge); err != nil {
		return storeError(c, "Failed to update fixed charge", err)
	}
	return c.JSON(fiber.Map{
		"message": "Fixed charge updated successfully",
		"data":    charge,
	})
}

func (h *FixedChargeHandler) DeleteFixedCharge(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return inputError(c, "Invalid fixed charge ID", err)
	}
	if err := h.Store.DeleteFixedCharge(c.UserContext(), id); err != nil {
		return storeError(c, "Failed to delete fixed charge", err)
	}
	return c.JSON(fiber.Map{
		"message": "Fixed charge deleted successfully",
	})
}
