package Models

import (
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Fleetbook/Config"
)

var DB *gorm.DB

// Connect opens the configured database, migrates it and stores it in DB.
func Connect(cfg *Config.Config) error {
	connection, err := Open(cfg)
	if err != nil {
		return err
	}
	if err := Migrate(connection); err != nil {
		return err
	}
	DB = connection
	slog.Info("database ready", "driver", cfg.DBDriver)
	return nil
}

// Open returns a gorm handle for cfg.DBDriver without migrating.
func Open(cfg *Config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	if cfg.DBLogMode {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	connection, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	if cfg.DBDriver == "sqlite" {
		sqlDB, err := connection.DB()
		if err != nil {
			return nil, err
		}
		// every connection to :memory: is a separate database
		if strings.HasPrefix(cfg.DBPath, ":memory:") {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	return connection, nil
}

func dialectorFor(cfg *Config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "sqlite":
		dsn := cfg.DBPath
		if !strings.Contains(dsn, "?") {
			dsn += "?_foreign_keys=1&_busy_timeout=5000"
		}
		return sqlite.Open(dsn), nil
	case "mysql":
		port := cfg.DBPort
		if port == "" {
			port = "3306"
		}
		mc := mysqldriver.NewConfig()
		mc.User = cfg.DBUser
		mc.Passwd = cfg.DBPassword
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.DBHost, port)
		mc.DBName = cfg.DBName
		mc.ParseTime = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mysql.Open(mc.FormatDSN()), nil
	case "postgres":
		port := cfg.DBPort
		if port == "" {
			port = "5432"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, port)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Trip{},
		&GeneralCost{},
		&MonthlyFixedCost{},
		&DriverSalary{},
		&FixedMonthlyCharge{},
	)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
