package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SALESPIPE"

// Config represents the complete run configuration
type Config struct {
	Log       LogConfig       `yaml:"log" envconfig:"LOG"`
	Catalog   CatalogConfig   `yaml:"catalog" envconfig:"CATALOG"`
	Filter    FilterConfig    `yaml:"filter" envconfig:"FILTER"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`

	RunTimeout time.Duration `yaml:"run_timeout" envconfig:"RUN_TIMEOUT" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=console json"`
}

// CatalogConfig says where product metadata comes from.
type CatalogConfig struct {
	// Source is a URL, file:/path or bare path; see catalog.Open
	Source        string        `yaml:"source" envconfig:"SOURCE"`
	PageSize      int           `yaml:"page_size" envconfig:"PAGE_SIZE" validate:"gt=0"`
	MaxRetries    int           `yaml:"max_retries" envconfig:"MAX_RETRIES" validate:"gte=1"`
	Timeout       time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	RetryInterval time.Duration `yaml:"retry_interval" envconfig:"RETRY_INTERVAL" validate:"gt=0"`
	CacheTTL      time.Duration `yaml:"cache_ttl" envconfig:"CACHE_TTL" validate:"gt=0"`
}

// FilterConfig holds the optional validator filters. Amounts are strings
// so that "unset" stays distinguishable from zero.
type FilterConfig struct {
	Region    string `yaml:"region" envconfig:"REGION"`
	MinAmount string `yaml:"min_amount" envconfig:"MIN_AMOUNT" validate:"omitempty,amount"`
	MaxAmount string `yaml:"max_amount" envconfig:"MAX_AMOUNT" validate:"omitempty,amount"`
}

type AnalyticsConfig struct {
	TopN         int `yaml:"top_n" envconfig:"TOP_N" validate:"gt=0"`
	LowThreshold int `yaml:"low_threshold" envconfig:"LOW_THRESHOLD" validate:"gt=0"`
}

// OutputConfig holds the store, report and metrics destinations.
type OutputConfig struct {
	Store       string `yaml:"store" envconfig:"STORE" validate:"required"`
	Report      string `yaml:"report" envconfig:"REPORT" validate:"required"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Default returns the built in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "console"},
		Catalog: CatalogConfig{
			Source:        "https://dummyjson.com/products",
			PageSize:      100,
			MaxRetries:    3,
			Timeout:       6 * time.Second,
			RetryInterval: 500 * time.Millisecond,
			CacheTTL:      10 * time.Minute,
		},
		Analytics: AnalyticsConfig{TopN: 5, LowThreshold: 10},
		Output: OutputConfig{
			Store:  "pipe:data/enriched_sales_data.txt",
			Report: "text:output/sales_report.txt",
		},
		RunTimeout: 5 * time.Minute,
	}
}

// Load layers configuration: defaults, then the YAML file at path (if path
// is not empty), then a .env file and SALESPIPE_* environment variables.
// The result is not validated; callers apply their own overrides first.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	// fields without a variable set are left alone
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file at path on cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

// isAmount accepts a decimal with optional thousands separators, the same
// input the amount filter parses.
func isAmount(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(strings.ReplaceAll(fl.Field().String(), ",", ""))
	_, err := decimal.NewFromString(s)
	return err == nil
}

// Validate checks every field constraint.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.RegisterValidation("amount", isAmount); err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
