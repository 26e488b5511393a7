package Config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	ServerAddress string `mapstructure:"server_address"`
	CORSOrigins   string `mapstructure:"cors_origins"`

	DBDriver   string `mapstructure:"db_driver"`
	DBPath     string `mapstructure:"db_path"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBLogMode  bool   `mapstructure:"db_log_mode"`

	PerDiemRate string `mapstructure:"per_diem_rate"`

	LogLevel       string `mapstructure:"log_level"`
	LogFile        string `mapstructure:"log_file"`
	RequestLogFile string `mapstructure:"request_log_file"`

	MonthOpenerEnabled  bool   `mapstructure:"month_opener_enabled"`
	MonthOpenerSchedule string `mapstructure:"month_opener_schedule"`
}

var defaults = map[string]interface{}{
	"server_address":        ":3001",
	"cors_origins":          "*",
	"db_driver":             "sqlite",
	"db_path":               "database.db",
	"db_host":               "localhost",
	"db_port":               "",
	"db_user":               "",
	"db_password":           "",
	"db_name":               "fleetbook",
	"db_log_mode":           false,
	"per_diem_rate":         "70.00",
	"log_level":             "info",
	"log_file":              "logs/application.log",
	"request_log_file":      "logs/requests.log",
	"month_opener_enabled":  true,
	"month_opener_schedule": "0 5 0 1 * *",
}

// Load reads .env (when present), an optional YAML file and the environment,
// in increasing order of precedence. An empty path looks for ./config.yaml.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}

	rate, err := decimal.NewFromString(c.PerDiemRate)
	if err != nil {
		return fmt.Errorf("invalid per_diem_rate %q: %w", c.PerDiemRate, err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("per_diem_rate must not be negative, got %s", c.PerDiemRate)
	}
	return nil
}

// PerDiemRateDecimal returns the validated per-diem rate.
func (c *Config) PerDiemRateDecimal() decimal.Decimal {
	return decimal.RequireFromString(c.PerDiemRate)
}
