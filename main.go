package main

import (
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"Fleetbook/Config"
	"Fleetbook/CronJobs"
	"Fleetbook/FiberConfig"
	"Fleetbook/Models"
	"Fleetbook/Store"
	"Fleetbook/middleware"
)

func main() {
	cfg, err := Config.Load(os.Getenv("FLEETBOOK_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	setupLogging(cfg)

	if err := Models.Connect(cfg); err != nil {
		slog.Error("failed to connect to database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	Models.SetPerDiemRate(cfg.PerDiemRateDecimal())

	if cfg.MonthOpenerEnabled {
		opener := CronJobs.NewMonthOpener(Store.New(Models.DB), cfg.MonthOpenerSchedule, true)
		if err := opener.Start(); err != nil {
			slog.Error("failed to start month opener", "error", err)
		} else {
			defer opener.Stop()
		}
	}

	logConfig := middleware.DefaultLogConfig()
	logConfig.LogFilePath = cfg.RequestLogFile
	app := FiberConfig.NewApp(cfg, logConfig)
	FiberConfig.SetupRoutes(app, Models.DB, cfg)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("server up", "address", cfg.ServerAddress, "per_diem_rate", cfg.PerDiemRate)
	if err := app.Listen(cfg.ServerAddress); err != nil {
		slog.Error("server stopped", "error", err)
	}
}

func setupLogging(cfg *Config.Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		// Create logs directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0755); err != nil {
			log.Printf("Error creating logs directory: %v\n", err)
		} else if logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666); err != nil {
			log.Printf("Error opening log file: %v\n", err)
		} else {
			out = io.MultiWriter(os.Stdout, logFile)
		}
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})))
}
