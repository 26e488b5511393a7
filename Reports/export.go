package Reports

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// money converts at the spreadsheet edge only.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// PeriodWorkbook renders a report as an XLSX file with one sheet per section.
func PeriodWorkbook(report PeriodReport) (*bytes.Buffer, error) {
	return writeWorkbook(report, nil)
}

// MonthlyWorkbook is PeriodWorkbook plus the month's fixed-cost subtotals.
func MonthlyWorkbook(report MonthlyReport) (*bytes.Buffer, error) {
	return writeWorkbook(report.PeriodReport, &report)
}

func writeWorkbook(report PeriodReport, monthly *MonthlyReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	t := report.Totals
	summary := [][]interface{}{
		{"Start date", report.StartDate},
		{"End date", report.EndDate},
		{"Days", report.Days},
		{"Trips", t.Trips.TripCount},
		{"Per-diem days", t.Trips.PerDiemCount},
		{"Per-diem value", money(t.Trips.PerDiemValue)},
		{"Fuel liters", money(t.Trips.FuelLiters)},
		{"Fuel cost", money(t.Trips.FuelCost)},
		{"Revenue", money(t.Trips.Revenue)},
		{"General costs", money(t.GeneralCostsTotal)},
		{"Fixed charges", money(t.FixedChargesTotal)},
		{"Driver salaries", money(t.SalaryNetTotal)},
	}
	if monthly != nil {
		fc := monthly.FixedCosts
		summary = append(summary,
			[]interface{}{"Fixed costs: parts", money(fc.Parts.Decimal)},
			[]interface{}{"Fixed costs: insurance", money(fc.Insurance.Decimal)},
			[]interface{}{"Fixed costs: maintenance", money(fc.Maintenance.Decimal)},
			[]interface{}{"Fixed costs", money(t.FixedCostsTotal)},
		)
		if monthly.FixedCostsPending {
			summary = append(summary, []interface{}{"Note", "fixed costs for this month are not filled in"})
		}
	}
	summary = append(summary, []interface{}{"Profit", money(t.Profit)})

	trips := make([][]interface{}, 0, len(report.Trips))
	for _, s := range report.Trips {
		trips = append(trips, []interface{}{
			s.Trip.Date, s.Trip.DriverName, s.Trip.TruckName, s.Trip.Origin, s.Trip.Destination,
			s.Trip.PerDiemCount, money(s.Trip.PerDiemValue.Decimal), money(s.Trip.FuelLiters.Decimal),
			money(s.Trip.FuelCost.Decimal), money(s.Trip.Revenue.Decimal), money(s.CostsTotal),
			money(s.SalaryNet), money(s.NetProfit),
		})
	}

	costs := make([][]interface{}, 0, len(report.GeneralCosts))
	for _, c := range report.GeneralCosts {
		costs = append(costs, []interface{}{
			c.Date, string(c.Category), c.Description, c.Vendor, c.VehiclePlate,
			money(c.Amount.Decimal), string(c.PaymentMethod), string(c.PaymentStatus),
		})
	}

	sheets := []struct {
		name    string
		headers []string
		rows    [][]interface{}
	}{
		{"Summary", []string{"Item", "Value"}, summary},
		{"Trips", []string{"Date", "Driver", "Truck", "Origin", "Destination", "Per-diem days", "Per-diem value", "Fuel liters", "Fuel cost", "Revenue", "Costs", "Salary net", "Net profit"}, trips},
		{"Costs", []string{"Date", "Category", "Description", "Vendor", "Plate", "Amount", "Payment method", "Payment status"}, costs},
		{"Drivers", breakdownHeaders("Driver"), breakdownRows(report.ByDriver)},
		{"Trucks", breakdownHeaders("Truck"), breakdownRows(report.ByTruck)},
	}

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet.name, err)
		}
		if err := writeTable(f, sheet.name, sheet.headers, sheet.rows, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &buf, nil
}

func breakdownHeaders(name string) []string {
	return []string{name, "Trips", "Per-diem value", "Fuel cost", "Revenue"}
}

func breakdownRows(groups []Breakdown) [][]interface{} {
	rows := make([][]interface{}, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []interface{}{g.Name, g.TripCount, money(g.PerDiemValue), money(g.FuelCost), money(g.Revenue)})
	}
	return rows
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]interface{}, headerStyle int) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 16)
}
