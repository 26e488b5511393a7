package FiberConfig

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/utils"
	"gorm.io/gorm"

	"Fleetbook/Apis"
	"Fleetbook/Config"
	"Fleetbook/Controllers"
	"Fleetbook/Reports"
	"Fleetbook/Store"
	"Fleetbook/middleware"
)

// errorHandler answers errors returned by handlers and middleware with the
// same body shape the handlers use.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}
	if code >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
	}
	return c.Status(code).JSON(fiber.Map{
		"message": utils.StatusMessage(code),
		"error":   err.Error(),
	})
}

// NewApp builds the fiber app with the middleware stack every route shares.
func NewApp(cfg *Config.Config, logConfig middleware.LogConfig) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Fleetbook",
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(middleware.LoggingMiddleware(logConfig))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, X-Requested-With, " + middleware.RequestIDHeader,
		MaxAge:       300,
	}))
	return app
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *Config.Config) {
	store := Store.New(db)
	assembler := Reports.NewAssembler(store, slog.Default())

	// Initialize handlers
	tripHandler := Controllers.NewTripHandler(store, assembler)
	costHandler := Controllers.NewCostHandler(store)
	monthlyCostHandler := Controllers.NewMonthlyCostHandler(store)
	fixedChargeHandler := Controllers.NewFixedChargeHandler(store)
	reportHandler := Controllers.NewReportHandler(assembler)
	logHandler := Controllers.NewLogHandler(cfg.RequestLogFile)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// API group
	api := app.Group("/api")

	// Trip routes
	trips := api.Group("/trips")
	trips.Get("/", tripHandler.GetTrips)
	trips.Post("/", tripHandler.RegisterTrip)
	trips.Get("/:id", tripHandler.GetTrip)
	trips.Get("/:id/summary", tripHandler.GetTripSummary)
	trips.Put("/:id", tripHandler.UpdateTrip)
	trips.Delete("/:id", tripHandler.DeleteTrip)

	// General cost routes, by-date BEFORE the ID route
	costs := api.Group("/costs")
	costs.Get("/", costHandler.GetCosts)
	costs.Post("/", costHandler.CreateCost)
	costs.Get("/by-date", costHandler.GetCostsByDate)
	costs.Get("/:id", costHandler.GetCost)
	costs.Put("/:id", costHandler.UpdateCost)
	costs.Delete("/:id", costHandler.DeleteCost)

	// Monthly fixed costs
	monthly := api.Group("/monthly-costs")
	monthly.Get("/:year_month", monthlyCostHandler.GetMonthlyCost)
	monthly.Put("/:year_month", monthlyCostHandler.UpsertMonthlyCost)
	monthly.Delete("/:year_month", monthlyCostHandler.DeleteMonthlyCost)

	// Fixed monthly charges, active BEFORE the ID route
	charges := api.Group("/fixed-charges")
	charges.Get("/", fixedChargeHandler.GetFixedCharges)
	charges.Post("/", fixedChargeHandler.CreateFixedCharge)
	charges.Get("/active", fixedChargeHandler.GetActiveFixedCharges)
	charges.Put("/:id", fixedChargeHandler.UpdateFixedCharge)
	charges.Delete("/:id", fixedChargeHandler.DeleteFixedCharge)

	// Driver salaries
	salaries := api.Group("/salaries")
	salaries.Get("/", Apis.GetDriverSalaries)
	salaries.Post("/", Apis.RegisterDriverSalary)
	salaries.Get("/preview", Apis.GetDriverSalaryPreview)
	salaries.Delete("/", Apis.DeleteDriverSalary)

	// Reports
	reports := api.Group("/reports")
	reports.Get("/daily", reportHandler.GetDailyReport)
	reports.Get("/weekly", reportHandler.GetWeeklyReport)
	reports.Get("/weekly/export", reportHandler.ExportWeeklyReport)
	reports.Get("/monthly/:year_month", reportHandler.GetMonthlyReport)
	reports.Get("/monthly/:year_month/export", reportHandler.ExportMonthlyReport)

	// Logs API routes
	app.Get("/api/logs", logHandler.GetLogs)
	app.Get("/api/logs/stats", logHandler.GetLogStats)
}
