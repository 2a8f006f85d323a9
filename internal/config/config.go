package config

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment override, e.g. GEODES_MINUTES
const EnvPrefix = "GEODES_"

// Output formats
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds the tunables shared by the CLI, the server and the lambda
type Config struct {
	Minutes  int           // search horizon
	Workers  int           // blueprints solved concurrently
	Timeout  time.Duration // per-blueprint wall-clock budget, 0 = none
	First    int           // blueprints kept by the product mode, 0 = all
	LogLevel string
	Output   string
}

// Default returns the standard configuration
func Default() Config {
	return Config{
		Minutes:  24,
		Workers:  runtime.GOMAXPROCS(0),
		Timeout:  0,
		First:    3,
		LogLevel: "info",
		Output:   OutputTable,
	}
}

// Validate checks ranges and enumerations
func (c Config) Validate() error {
	if c.Minutes < 0 {
		return fmt.Errorf("minutes must be >= 0 (got %d)", c.Minutes)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", c.Workers)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0 (got %s)", c.Timeout)
	}
	if c.First < 0 {
		return fmt.Errorf("first must be >= 0 (got %d)", c.First)
	}
	switch c.Output {
	case OutputTable, OutputJSON:
	default:
		return fmt.Errorf("output must be %q or %q (got %q)", OutputTable, OutputJSON, c.Output)
	}
	return nil
}

// ApplyEnv overrides fields from GEODES_* variables looked up with getenv
func (c Config) ApplyEnv(getenv func(string) string) (Config, error) {
	if v := getenv(EnvPrefix + "MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%sMINUTES: %w", EnvPrefix, err)
		}
		c.Minutes = n
	}
	if v := getenv(EnvPrefix + "WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%sWORKERS: %w", EnvPrefix, err)
		}
		c.Workers = n
	}
	if v := getenv(EnvPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err)
		}
		c.Timeout = d
	}
	if v := getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return c, nil
}

// BindFlags registers the shared flags on fs, using c's current values as
// defaults and writing parsed values back into c
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&c.Minutes, "minutes", "m", c.Minutes, "Minutes available to each factory")
	fs.IntVarP(&c.Workers, "workers", "w", c.Workers, "Blueprints solved concurrently")
	fs.DurationVar(&c.Timeout, "timeout", c.Timeout, "Per-blueprint time budget (0 = unlimited)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVarP(&c.Output, "output", "o", c.Output, "Output format: table or json")
}
