package FiberConfig

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Fleetbook/Config"
	"Fleetbook/Models"
	"Fleetbook/middleware"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &Config.Config{
		DBDriver:       "sqlite",
		DBPath:         ":memory:",
		CORSOrigins:    "*",
		RequestLogFile: filepath.Join(t.TempDir(), "requests.log"),
	}
	db, err := Models.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))

	previous := Models.DB
	Models.DB = db
	t.Cleanup(func() {
		Models.DB = previous
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	app := NewApp(cfg, middleware.LogConfig{Output: io.Discard})
	SetupRoutes(app, db, cfg)
	return app
}

func call(t *testing.T, app *fiber.App, method, target string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp, data := call(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestUnknownRouteUsesErrorShape(t *testing.T) {
	app := newTestApp(t)
	resp, data := call(t, app, http.MethodGet, "/api/nowhere", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Not Found", out["message"])
	assert.NotEmpty(t, out["error"])
}

func TestSalaryRoutes(t *testing.T) {
	app := newTestApp(t)

	resp, data := call(t, app, http.MethodPost, "/api/salaries", map[string]interface{}{
		"driver_name":       "Joao",
		"year_month":        "2024-01",
		"base_salary":       "2000.00",
		"trip_bonus":        "350.00",
		"absence_deduction": "150.00",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))

	// a second registration replaces the first
	resp, _ = call(t, app, http.MethodPost, "/api/salaries", map[string]interface{}{
		"driver_name": "Joao",
		"year_month":  "2024-01",
		"base_salary": "2100.00",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = call(t, app, http.MethodPost, "/api/salaries", map[string]interface{}{
		"driver_name": "Joao",
		"year_month":  "January",
		"base_salary": "2100.00",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, data = call(t, app, http.MethodGet, "/api/salaries?year_month=2024-01", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list struct {
		Data     []Models.DriverSalary `json:"data"`
		NetTotal decimal.Decimal       `json:"net_total"`
	}
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "2100", list.NetTotal.String())

	resp, _ = call(t, app, http.MethodPost, "/api/trips", map[string]interface{}{
		"date":           "2024-01-10",
		"origin":         "Santos",
		"destination":    "Campinas",
		"per_diem_count": 1,
		"fuel_cost":      "200",
		"revenue":        "1000",
		"driver_name":    "Joao",
		"truck_name":     "Volvo",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, data = call(t, app, http.MethodGet, "/api/salaries/preview?driver=Joao&year_month=2024-01", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	var preview struct {
		SalaryFound  bool            `json:"salary_found"`
		NetSalary    decimal.Decimal `json:"net_salary"`
		TripsCount   int             `json:"trips_count"`
		TotalRevenue decimal.Decimal `json:"total_revenue"`
	}
	require.NoError(t, json.Unmarshal(data, &preview))
	assert.True(t, preview.SalaryFound)
	assert.Equal(t, "2100", preview.NetSalary.String())
	assert.Equal(t, 1, preview.TripsCount)
	assert.Equal(t, "1000", preview.TotalRevenue.String())

	resp, _ = call(t, app, http.MethodGet, "/api/salaries/preview?driver=Joao", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, _ = call(t, app, http.MethodDelete, "/api/salaries?driver=Joao&year_month=2024-01", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = call(t, app, http.MethodDelete, "/api/salaries?driver=Joao&year_month=2024-01", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDailyReportRoute(t *testing.T) {
	app := newTestApp(t)
	resp, _ := call(t, app, http.MethodPost, "/api/costs", map[string]interface{}{
		"category":       "fines",
		"date":           "2024-03-05",
		"vehicle_plate":  "ABC1D23",
		"vendor":         "DER",
		"description":    "Speeding",
		"amount":         "130.16",
		"payment_method": "pix",
		"payment_status": "paid",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, data := call(t, app, http.MethodGet, "/api/reports/daily?date=2024-03-05", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(data))
	var out struct {
		Data struct {
			Days   int `json:"days"`
			Totals struct {
				GeneralCostsTotal decimal.Decimal `json:"general_costs_total"`
				Profit            decimal.Decimal `json:"profit"`
			} `json:"totals"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 1, out.Data.Days)
	assert.Equal(t, "130.16", out.Data.Totals.GeneralCostsTotal.String())
	assert.Equal(t, "-130.16", out.Data.Totals.Profit.String())

	resp, _ = call(t, app, http.MethodGet, "/api/reports/daily?date=2024-02-30", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
