package Models

import "gorm.io/gorm"

type ChargeCategory string

const (
	ChargeTruckInstallment ChargeCategory = "truck_installment"
	ChargeInsurance        ChargeCategory = "insurance"
	ChargeIPVA             ChargeCategory = "ipva"
	ChargeLicensing        ChargeCategory = "licensing"
	ChargeTracking         ChargeCategory = "tracking"
	ChargeOther            ChargeCategory = "other"
)

type ChargeStatus string

const (
	ChargeActive    ChargeStatus = "active"
	ChargeInactive  ChargeStatus = "inactive"
	ChargeFinalized ChargeStatus = "finalized"
)

// FixedMonthlyCharge is a recurring obligation such as a truck loan
// installment or yearly tax split per month.
type FixedMonthlyCharge struct {
	gorm.Model
	Description   string         `json:"description" gorm:"size:200;not null"`
	Category      ChargeCategory `json:"category" gorm:"size:20;not null"`
	MonthlyAmount Amount         `json:"monthly_amount" gorm:"type:decimal(10,2);not null"`
	StartDate     string         `json:"start_date" gorm:"type:varchar(10);not null;index"`
	EndDate       *string        `json:"end_date,omitempty" gorm:"type:varchar(10);index"`
	Status        ChargeStatus   `json:"status" gorm:"size:20;not null;default:active;index"`
	Notes         string         `json:"notes" gorm:"type:text"`
}

// ActiveOn reports whether the charge applies on date (YYYY-MM-DD).
func (c FixedMonthlyCharge) ActiveOn(date string) bool {
	if c.Status != ChargeActive || date < c.StartDate {
		return false
	}
	return c.EndDate == nil || *c.EndDate == "" || date <= *c.EndDate
}
