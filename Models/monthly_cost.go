package Models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MonthlyFixedCost holds the fixed-cost subtotals of one month. It is
// hard-deleted so the year_month key can be reused.
type MonthlyFixedCost struct {
	ID          uint            `json:"id" gorm:"primarykey"`
	YearMonth   string          `json:"year_month" gorm:"type:varchar(7);not null;uniqueIndex"`
	Parts       Amount          `json:"parts" gorm:"type:decimal(10,2);not null;default:0"`
	Insurance   Amount          `json:"insurance" gorm:"type:decimal(10,2);not null;default:0"`
	Maintenance Amount          `json:"maintenance" gorm:"type:decimal(10,2);not null;default:0"`
	TotalFixed  decimal.Decimal `json:"total" gorm:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (m MonthlyFixedCost) Total() decimal.Decimal {
	return m.Parts.Add(m.Insurance.Decimal).Add(m.Maintenance.Decimal)
}

// IsBlank is true while no subtotal has been filled in.
func (m MonthlyFixedCost) IsBlank() bool {
	return m.Parts.IsZero() && m.Insurance.IsZero() && m.Maintenance.IsZero()
}

func (m *MonthlyFixedCost) AfterFind(tx *gorm.DB) error {
	m.TotalFixed = m.Total()
	return nil
}

func (m *MonthlyFixedCost) AfterSave(tx *gorm.DB) error {
	m.TotalFixed = m.Total()
	return nil
}

// DriverSalary is one driver's pay adjustments for one month.
type DriverSalary struct {
	ID               uint            `json:"id" gorm:"primarykey"`
	DriverName       string          `json:"driver_name" gorm:"size:100;not null;uniqueIndex:idx_driver_month"`
	YearMonth        string          `json:"year_month" gorm:"type:varchar(7);not null;uniqueIndex:idx_driver_month;index"`
	BaseSalary       Amount          `json:"base_salary" gorm:"type:decimal(10,2);not null;default:0"`
	TripBonus        Amount          `json:"trip_bonus" gorm:"type:decimal(10,2);not null;default:0"`
	AbsenceDeduction Amount          `json:"absence_deduction" gorm:"type:decimal(10,2);not null;default:0"`
	NetSalary        decimal.Decimal `json:"net_salary" gorm:"-"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (s DriverSalary) Net() decimal.Decimal {
	return s.BaseSalary.Add(s.TripBonus.Decimal).Sub(s.AbsenceDeduction.Decimal)
}

func (s *DriverSalary) AfterFind(tx *gorm.DB) error {
	s.NetSalary = s.Net()
	return nil
}

func (s *DriverSalary) AfterSave(tx *gorm.DB) error {
	s.NetSalary = s.Net()
	return nil
}
