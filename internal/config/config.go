// Package config reads the service settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/phenrril/backoffice/internal/domain"
)

type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) IsProduction() bool { return e == Production }

// ParseEnvironment maps unknown values to Development so the service still
// starts with sensible defaults.
func ParseEnvironment(v string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(v))) {
	case Production:
		return Production
	case Testing:
		return Testing
	default:
		return Development
	}
}

type Config struct {
	Env             string        `envconfig:"APP_ENV" default:"development"`
	Port            string        `envconfig:"PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	StockLowMax int `envconfig:"STOCK_LOW_MAX" default:"50"`
	StockMidMax int `envconfig:"STOCK_MID_MAX" default:"100"`

	VariantAttributes []string `envconfig:"VARIANT_ATTRIBUTES" default:"color,size"`
	// SimpleProductForm drops image upload and variants from the product form.
	SimpleProductForm bool `envconfig:"SIMPLE_PRODUCT_FORM" default:"false"`
	Seed              bool `envconfig:"SEED" default:"true"`
}

// Load processes the environment. A .env file, if any, must already be loaded.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Environment() Environment { return ParseEnvironment(c.Env) }

func (c Config) Addr() string { return ":" + c.Port }

func (c Config) Stock() domain.StockThresholds {
	return domain.StockThresholds{LowStockMax: c.StockLowMax, MidStockMax: c.StockMidMax}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("config: PORT is empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: SHUTDOWN_TIMEOUT must be positive")
	}
	if err := c.Stock().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	for _, a := range c.VariantAttributes {
		if strings.TrimSpace(a) == "" {
			return fmt.Errorf("config: VARIANT_ATTRIBUTES has an empty name")
		}
	}
	return nil
}
