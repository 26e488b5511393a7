package Controllers

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"Fleetbook/Reports"
)

// ReportHandler serves daily, weekly and monthly profit reports
type ReportHandler struct {
	Reports *Reports.Assembler
}

func NewReportHandler(reports *Reports.Assembler) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

// weekFromQuery accepts ?week_of=, an explicit start_date/end_date range, or
// nothing for the current week.
func weekFromQuery(c *fiber.Ctx) (Reports.Period, error) {
	if weekOf := c.Query("week_of"); weekOf != "" {
		return Reports.WeekOf(weekOf)
	}
	if c.Query("start_date") != "" || c.Query("end_date") != "" {
		return Reports.ParseRange(c.Query("start_date"), c.Query("end_date"))
	}
	return Reports.WeekOf(today())
}

func (h *ReportHandler) GetDailyReport(c *fiber.Ctx) error {
	report, err := h.Reports.BuildDailyReport(c.UserContext(), c.Query("date", today()))
	if err != nil {
		return storeError(c, "Failed to build daily report", err)
	}
	return c.JSON(fiber.Map{
		"message": "Daily report built successfully",
		"data":    report,
	})
}

func (h *ReportHandler) GetWeeklyReport(c *fiber.Ctx) error {
	period, err := weekFromQuery(c)
	if err != nil {
		return inputError(c, "Invalid period", err)
	}
	report, err := h.Reports.BuildPeriodReport(c.UserContext(), period)
	if err != nil {
		return storeError(c, "Failed to build weekly report", err)
	}
	return c.JSON(fiber.Map{
		"message": "Weekly report built successfully",
		"data":    report,
	})
}

func (h *ReportHandler) GetMonthlyReport(c *fiber.Ctx) error {
	report, err := h.Reports.BuildMonthlyReport(c.UserContext(), c.Params("year_month"))
	if err != nil {
		return storeError(c, "Failed to build monthly report", err)
	}
	message := "Monthly report built successfully"
	if report.FixedCostsPending {
		message = fixedCostsPendingMessage
	}
	return c.JSON(fiber.Map{
		"message": message,
		"data":    report,
	})
}

func (h *ReportHandler) ExportWeeklyReport(c *fiber.Ctx) error {
	period, err := weekFromQuery(c)
	if err != nil {
		return inputError(c, "Invalid period", err)
	}
	report, err := h.Reports.BuildPeriodReport(c.UserContext(), period)
	if err != nil {
		return storeError(c, "Failed to build weekly report", err)
	}
	buf, err := Reports.PeriodWorkbook(report)
	if err != nil {
		return storeError(c, "Failed to export weekly report", err)
	}
	return sendWorkbook(c, fmt.Sprintf("report_%s_%s.xlsx", report.StartDate, report.EndDate), buf)
}

func (h *ReportHandler) ExportMonthlyReport(c *fiber.Ctx) error {
	report, err := h.Reports.BuildMonthlyReport(c.UserContext(), c.Params("year_month"))
	if err != nil {
		return storeError(c, "Failed to build monthly report", err)
	}
	buf, err := Reports.MonthlyWorkbook(report)
	if err != nil {
		return storeError(c, "Failed to export monthly report", err)
	}
	return sendWorkbook(c, fmt.Sprintf("report_%s.xlsx", report.YearMonth), buf)
}

func sendWorkbook(c *fiber.Ctx, filename string, buf *bytes.Buffer) error {
	c.Set("Content-Type", Reports.XLSXContentType)
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	return c.Send(buf.Bytes())
}
