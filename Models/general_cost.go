package Models

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CostCategory string

const (
	CategoryFuel          CostCategory = "fuel"
	CategoryMaintenance   CostCategory = "maintenance"
	CategoryParts         CostCategory = "parts"
	CategoryInsurance     CostCategory = "insurance"
	CategoryDocumentation CostCategory = "documentation"
	CategoryFines         CostCategory = "fines"
	CategoryParking       CostCategory = "parking"
	CategoryToll          CostCategory = "toll"
	CategoryOther         CostCategory = "other"
)

type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCredit      PaymentMethod = "credit"
	PaymentDebit       PaymentMethod = "debit"
	PaymentPix         PaymentMethod = "pix"
	PaymentTransfer    PaymentMethod = "transfer"
	PaymentCheck       PaymentMethod = "check"
	PaymentInstallment PaymentMethod = "installment"
)

type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "paid"
	StatusUnpaid  PaymentStatus = "unpaid"
	StatusPartial PaymentStatus = "partial"
)

type GeneralCost struct {
	gorm.Model
	TripID        *uint          `json:"trip_id" gorm:"index"`
	Category      CostCategory   `json:"category" gorm:"size:20;not null;index"`
	Date          string         `json:"date" gorm:"type:varchar(10);not null;index"`
	VehiclePlate  string         `json:"vehicle_plate" gorm:"size:20;not null"`
	Odometer      *uint          `json:"odometer,omitempty"`
	Vendor        string         `json:"vendor" gorm:"size:200;not null"`
	Description   string         `json:"description" gorm:"type:text;not null"`
	Amount        Amount         `json:"amount" gorm:"type:decimal(10,2);not null"`
	PaymentMethod PaymentMethod  `json:"payment_method" gorm:"size:20;not null"`
	PaymentStatus PaymentStatus  `json:"payment_status" gorm:"size:20;not null"`
	DueDate       *string        `json:"due_date,omitempty" gorm:"type:varchar(10)"`
	Notes         string         `json:"notes" gorm:"type:text"`
	ReceiptRef    string         `json:"receipt_ref,omitempty" gorm:"size:255"`
	PaymentPlan   datatypes.JSON `json:"payment_plan,omitempty"`
}

type PlanKind string

const (
	PlanLump        PlanKind = "lump"
	PlanInstallment PlanKind = "installment"
)

// PaymentPlan is either a lump payment or an installment schedule.
type PaymentPlan struct {
	Kind     PlanKind      `json:"kind"`
	Count    int           `json:"count,omitempty"`
	Schedule []Installment `json:"schedule,omitempty"`
}

type Installment struct {
	Number  int             `json:"number"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate string          `json:"due_date"`
	Status  PaymentStatus   `json:"status"`
	PaidOn  string          `json:"paid_on,omitempty"`
}

var ErrInvalidPlan = errors.New("invalid payment plan")

func LumpPlan() PaymentPlan {
	return PaymentPlan{Kind: PlanLump}
}

// InstallmentPlan splits total into count monthly slices starting at
// firstDue. Every slice is the total divided down to cents; the last one
// absorbs the remainder so the schedule sums to total exactly.
func InstallmentPlan(total decimal.Decimal, count int, firstDue string) (PaymentPlan, error) {
	if count < 1 {
		return PaymentPlan{}, fmt.Errorf("%w: count must be at least 1", ErrInvalidPlan)
	}
	if !total.IsPositive() {
		return PaymentPlan{}, fmt.Errorf("%w: total must be positive", ErrInvalidPlan)
	}
	due, err := ParseDate(firstDue)
	if err != nil {
		return PaymentPlan{}, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}

	slice := total.Div(decimal.NewFromInt(int64(count))).RoundDown(2)
	plan := PaymentPlan{Kind: PlanInstallment, Count: count}
	allocated := decimal.Zero
	for i := 0; i < count; i++ {
		amount := slice
		if i == count-1 {
			amount = total.Sub(allocated)
		}
		allocated = allocated.Add(amount)
		plan.Schedule = append(plan.Schedule, Installment{
			Number:  i + 1,
			Amount:  amount,
			DueDate: AddMonths(due, i).Format(DateLayout),
			Status:  StatusUnpaid,
		})
	}
	return plan, nil
}

// Validate checks the plan against the cost amount it belongs to.
func (p PaymentPlan) Validate(total decimal.Decimal) error {
	switch p.Kind {
	case PlanLump:
		if len(p.Schedule) > 0 {
			return fmt.Errorf("%w: lump plan has a schedule", ErrInvalidPlan)
		}
		return nil
	case PlanInstallment:
		if p.Count != len(p.Schedule) || p.Count < 1 {
			return fmt.Errorf("%w: schedule has %d slices, count is %d", ErrInvalidPlan, len(p.Schedule), p.Count)
		}
		sum := decimal.Zero
		for _, inst := range p.Schedule {
			sum = sum.Add(inst.Amount)
		}
		if !sum.Equal(total) {
			return fmt.Errorf("%w: schedule sums to %s, cost is %s", ErrInvalidPlan, sum, total)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidPlan, p.Kind)
	}
}

// Plan decodes the stored payment plan. Costs without one are lump payments.
func (c GeneralCost) Plan() (PaymentPlan, error) {
	if len(c.PaymentPlan) == 0 || string(c.PaymentPlan) == "null" {
		return LumpPlan(), nil
	}
	var plan PaymentPlan
	if err := json.Unmarshal(c.PaymentPlan, &plan); err != nil {
		return PaymentPlan{}, fmt.Errorf("decode payment plan of cost %d: %w", c.ID, err)
	}
	return plan, nil
}

func (c *GeneralCost) SetPlan(plan PaymentPlan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	c.PaymentPlan = datatypes.JSON(raw)
	return nil
}
