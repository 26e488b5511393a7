package Models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var perDiemRate = decimal.RequireFromString("70.00")

// SetPerDiemRate replaces the daily per-diem rate. Call it once at startup.
func SetPerDiemRate(rate decimal.Decimal) {
	perDiemRate = rate
}

func PerDiemRate() decimal.Decimal {
	return perDiemRate
}

// PerDiemValue is count days of per-diem at the configured rate.
func PerDiemValue(count uint) decimal.Decimal {
	return perDiemRate.Mul(decimal.NewFromInt(int64(count))).Round(2)
}

type Trip struct {
	gorm.Model
	Date         string        `json:"date" gorm:"type:varchar(10);not null;index"`
	Origin       string        `json:"origin" gorm:"size:200;not null"`
	Destination  string        `json:"destination" gorm:"size:200;not null"`
	PerDiemCount uint          `json:"per_diem_count" gorm:"not null;default:0"`
	PerDiemValue Amount        `json:"per_diem_value" gorm:"type:decimal(10,2);not null;default:0"`
	FuelLiters   Amount        `json:"fuel_liters" gorm:"type:decimal(8,2);not null;default:0"`
	FuelCost     Amount        `json:"fuel_cost" gorm:"type:decimal(10,2);not null;default:0"`
	Revenue      Amount        `json:"revenue" gorm:"type:decimal(10,2);not null;default:0"`
	DriverName   string        `json:"driver_name" gorm:"size:100;not null;index"`
	TruckName    string        `json:"truck_name" gorm:"size:50;not null;index"`
	GeneralCosts []GeneralCost `json:"general_costs,omitempty" gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

// BeforeSave keeps the per-diem value derived from the count.
func (t *Trip) BeforeSave(tx *gorm.DB) error {
	t.PerDiemValue = NewAmount(PerDiemValue(t.PerDiemCount))
	return nil
}

func (t Trip) YearMonth() string {
	return YearMonthOf(t.Date)
}

// MalformedFields lists the numeric columns that could not be read.
func (t Trip) MalformedFields() []string {
	var fields []string
	for _, f := range []struct {
		name   string
		amount Amount
	}{
		{"per_diem_value", t.PerDiemValue},
		{"fuel_liters", t.FuelLiters},
		{"fuel_cost", t.FuelCost},
		{"revenue", t.Revenue},
	} {
		if f.amount.Malformed() {
			fields = append(fields, f.name)
		}
	}
	return fields
}
