package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata" // clinic timezones resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. CLINICSTOCK_STORE_PATH
const EnvPrefix = "CLINICSTOCK"

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ClinicConfig struct {
	Timezone string `mapstructure:"timezone"`
}

type ImportConfig struct {
	DefaultUnit     string `mapstructure:"default_unit"`
	DefaultMinStock string `mapstructure:"default_min_stock"`
}

type Config struct {
	Store  StoreConfig  `mapstructure:"store"`
	Log    LogConfig    `mapstructure:"log"`
	Clinic ClinicConfig `mapstructure:"clinic"`
	Import ImportConfig `mapstructure:"import"`
}

// Options selects where configuration is read from
type Options struct {
	// ConfigFile is an explicit YAML file; when empty, clinicstock.yaml is looked up in the working directory
	ConfigFile string
	// EnvFile is a dotenv file loaded before the environment is consulted; missing files are ignored
	EnvFile string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.path", "clinicstock.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("clinic.timezone", "America/Sao_Paulo")
	v.SetDefault("import.default_unit", "un")
	v.SetDefault("import.default_min_stock", "5")
}

// Load resolves configuration from defaults, the YAML file, the dotenv file and the environment,
// later sources overriding earlier ones.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", opts.EnvFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile == "" {
		v.SetConfigName("clinicstock")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(opts.ConfigFile)
	}

	// environment overrides, e.g. CLINICSTOCK_STORE_DRIVER=memory
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			return errors.New("config: store.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("config: unknown store.driver %q (expected memory or sqlite)", c.Store.Driver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.DefaultMinStock(); err != nil {
		return err
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log.format %q (expected text or json)", c.Log.Format)
	}
	return nil
}

// Location returns the clinic timezone used to decide what "today" is
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Clinic.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: clinic.timezone: %w", err)
	}
	return loc, nil
}

// DefaultMinStock returns the import fallback threshold
func (c *Config) DefaultMinStock() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Import.DefaultMinStock)
	if err != nil {
		return decimal.Zero, fmt.Errorf("config: import.default_min_stock %q: %w", c.Import.DefaultMinStock, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("config: import.default_min_stock cannot be negative, got %s", d)
	}
	return d, nil
}

// LogLevel parses log.level
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log.level: %w", err)
	}
	return level, nil
}
