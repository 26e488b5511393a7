package Controllers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"Fleetbook/Models"
	"Fleetbook/Store"
	"Fleetbook/Validation"
)

// CostHandler serves general cost routes
type CostHandler struct {
	Store *Store.Store
}

func NewCostHandler(store *Store.Store) *CostHandler {
	return &CostHandler{Store: store}
}

type CostInput struct {
	TripID        *uint                `json:"trip_id"`
	Category      Models.CostCategory  `json:"category" validate:"required,oneof=fuel maintenance parts insurance documentation fines parking toll other"`
	Date          string               `json:"date" validate:"required,date"`
	VehiclePlate  string               `json:"vehicle_plate" validate:"required,max=20"`
	Odometer      *uint                `json:"odometer"`
	Vendor        string               `json:"vendor" validate:"required,max=200"`
	Description   string               `json:"description" validate:"required"`
	Amount        Models.Amount        `json:"amount" validate:"gt=0"`
	PaymentMethod Models.PaymentMethod `json:"payment_method" validate:"required,oneof=cash credit debit pix transfer check installment"`
	PaymentStatus Models.PaymentStatus `json:"payment_status" validate:"required,oneof=paid unpaid partial"`
	DueDate       string               `json:"due_date" validate:"omitempty,date"`
	Notes         string               `json:"notes"`
	ReceiptRef    string               `json:"receipt_ref" validate:"max=255"`
	Installments  int                  `json:"installments" validate:"omitempty,min=1,max=60"`
}

// toModel builds the cost and its payment plan. Installment costs get a
// schedule starting at the due date, or the cost date when there is none.
func (in CostInput) toModel() (Models.GeneralCost, error) {
	cost := Models.GeneralCost{
		TripID:        in.TripID,
		Category:      in.Category,
		Date:          in.Date,
		VehiclePlate:  in.VehiclePlate,
		Odometer:      in.Odometer,
		Vendor:        in.Vendor,
		Description:   in.Description,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: in.PaymentStatus,
		Notes:         in.Notes,
		ReceiptRef:    in.ReceiptRef,
	}
	if in.DueDate != "" {
		due := in.DueDate
		cost.DueDate = &due
	}

	plan := Models.LumpPlan()
	if in.PaymentMethod == Models.PaymentInstallment && in.Installments > 0 {
		first := in.Date
		if in.DueDate != "" {
			first = in.DueDate
		}
		var err error
		plan, err = Models.InstallmentPlan(in.Amount.Decimal, in.Installments, first)
		if err != nil {
			return Models.GeneralCost{}, err
		}
	}
	if err := cost.SetPlan(plan); err != nil {
		return Models.GeneralCost{}, err
	}
	return cost, nil
}

func (h *CostHandler) parseCostInput(c *fiber.Ctx) (Models.GeneralCost, error) {
	var input CostInput
	if err := c.BodyParser(&input); err != nil {
		return Models.GeneralCost{}, err
	}
	if err := Validation.Struct(input); err != nil {
		return Models.GeneralCost{}, err
	}
	if input.TripID != nil {
		if _, err := h.Store.TripByID(c.UserContext(), *input.TripID); err != nil {
			return Models.GeneralCost{}, err
		}
	}
	return input.toModel()
}

func (h *CostHandler) CreateCost(c *fiber.Ctx) error {
	cost, err := h.parseCostInput(c)
	if err != nil {
		return inputError(c, "Invalid cost", err)
	}
	if err := h.Store.CreateCost(c.UserContext(), &cost); err != nil {
		return storeError(c, "Failed to create cost", err)
	}
	slog.InfoContext(c.UserContext(), "cost created", "cost_id", cost.ID, "category", cost.Category)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Cost created successfully",
		"data":    cost,
	})
}

// GetCosts lists costs filtered by optional start_date, end_date and category.
func (h *CostHandler) GetCosts(c *fiber.Ctx) error {
	filter := Store.CostFilter{
		Start:    c.Query("start_date"),
		End:      c.Query("end_date"),
		Category: Models.CostCategory(c.Query("category")),
	}
	if filter.Category != "" {
		if err := Validation.Var("category", string(filter.Category), "oneof=fuel maintenance parts insurance documentation fines parking toll other"); err != nil {
			return inputError(c, "Invalid category", err)
		}
	}
	if filter.Start != "" {
		if err := Validation.Var("start_date", filter.Start, "date"); err != nil {
			return inputError(c, "Invalid date format. Use YYYY-MM-DD", err)
		}
	}
	if filter.End != "" {
		if err := Validation.Var("end_date", filter.End, "date"); err != nil {
			return inputError(c, "Invalid date format. Use YYYY-MM-DD", err)
		}
	}

	costs, err := h.Store.ListCosts(c.UserContext(), filter)
	if err != nil {
		return storeError(c, "Failed to fetch costs", err)
	}
	return c.JSON(fiber.Map{
		"message": "Costs fetched successfully",
		"data":    costs,
	})
}

// GetCostsByDate lists the costs of a single day.
func (h *CostHandler) GetCostsByDate(c *fiber.Ctx) error {
	date := c.Query("date", today())
	if err := Validation.Var("date", date, "date"); err != nil {
		return inputError(c, "Invalid date format. Use YYYY-MM-DD", err)
	}
	costs, err := h.Store.GeneralCostsBetween(c.UserContext(), date, date)
	if err != nil {
		return storeError(c, "Failed to fetch costs", err)
	}
	return c.JSON(fiber.Map{
		"message": "Costs fetched successfully",
		"data":    costs,
		"date":    date,
	})
}

func (h *CostHandler) GetCost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return inputError(c, "Invalid cost ID", err)
	}
	cost, err := h.Store.CostByID(c.UserContext(), id)
	if err != nil {
		return storeError(c, "Cost not found", err)
	}
	return c.JSON(fiber.Map{
		"message": "Cost fetched successfully",
		"data":    cost,
	})
}

func (h *CostHandler) UpdateCost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return inputError(c, "Invalid cost ID", err)
	}
	existing, err := h.Store.CostByID(c.UserContext(), id)
	if err != nil {
		return storeError(c, "Cost not found", err)
	}

	updated, err := h.parseCostInput(c)
	if err != nil {
		return inputError(c, "Invalid cost", err)
	}
	updated.Model = existing.Model
	if updated.TripID == nil {
		updated.TripID = existing.TripID
	}

	if err := h.Store.UpdateCost(c.UserContext(), &updated); err != nil {
		return storeError(c, "Failed to update cost", err)
	}
	return c.JSON(fiber.Map{
		"message": "Cost updated successfully",
		"data":    updated,
	})
}

func (h *CostHandler) DeleteCost(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return inputError(c, "Invalid cost ID", err)
	}
	if err := h.Store.DeleteCost(c.UserContext(), id); err != nil {
		return storeError(c, "Failed to delete cost", err)
	}
	return c.JSON(fiber.Map{
		"message": "Cost deleted successfully",
	})
}
