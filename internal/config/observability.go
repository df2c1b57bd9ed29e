package config

import (
	"fmt"
	"time"
)

// ServiceName identifies this service in logs, traces and APM dashboards.
const ServiceName = "software-engineers"

// ObservabilityConfig groups all configuration related to telemetry and runtime visibility.
type ObservabilityConfig struct {
	// ServiceName identifies this service in logs/traces/APM dashboards.
	ServiceName string `koanf:"service_name" validate:"required"`

	// Environment is copied from Primary.Env by LoadConfig.
	Environment string `koanf:"environment"`

	Logging      LoggingConfig      `koanf:"logging" validate:"required"`
	NewRelic     NewRelicConfig     `koanf:"new_relic"`
	HealthChecks HealthChecksConfig `koanf:"health_checks"`
}

// LoggingConfig holds application logging configuration.
type LoggingConfig struct {
	// Level is the verbosity threshold (debug/info/warn/error).
	Level string `koanf:"level"`

	// Format selects the output format ("json" or "console").
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`

	// File, when set, duplicates log output into a size-rotated file.
	File           string `koanf:"file"`
	FileMaxSizeMB  int    `koanf:"file_max_size_mb" validate:"min=0"`
	FileMaxBackups int    `koanf:"file_max_backups" validate:"min=0"`

	// SlowQueryThreshold is a duration beyond which queries are logged as slow.
	// Env values must be parseable durations such as "100ms" or "1s".
	SlowQueryThreshold time.Duration `koanf:"slow_query_threshold"`
}

// NewRelicConfig holds configuration for New Relic APM and tracing.
// An empty LicenseKey disables New Relic entirely.
type NewRelicConfig struct {
	LicenseKey                string `koanf:"license_key"`
	AppLogForwardingEnabled   bool   `koanf:"app_log_forwarding_enabled"`
	DistributedTracingEnabled bool   `koanf:"distributed_tracing_enabled"`
	DebugLogging              bool   `koanf:"debug_logging"`
}

// HealthChecksConfig controls the dependency checks run by the status endpoint.
type HealthChecksConfig struct {
	Enabled bool `koanf:"enabled"`

	// Timeout is the max time allowed for a single dependency check.
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`

	// Checks names the dependencies to probe: "database", "redis".
	Checks []string `koanf:"checks" validate:"dive,oneof=database redis"`
}

// Has reports whether the named check is enabled.
func (h HealthChecksConfig) Has(name string) bool {
	if !h.Enabled {
		return false
	}
	for _, c := range h.Checks {
		if c == name {
			return true
		}
	}
	return false
}

// DefaultObservabilityConfig provides the defaults used when nothing is configured.
func DefaultObservabilityConfig() *ObservabilityConfig {
	return &ObservabilityConfig{
		ServiceName: ServiceName,
		Environment: "development",
		Logging: LoggingConfig{
			Level:              "info",
			Format:             "json",
			FileMaxSizeMB:      100,
			FileMaxBackups:     3,
			SlowQueryThreshold: 100 * time.Millisecond,
		},
		NewRelic: NewRelicConfig{
			AppLogForwardingEnabled:   true,
			DistributedTracingEnabled: true,
			DebugLogging:              false, // mixes agent output into app logs
		},
		HealthChecks: HealthChecksConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
			Checks:  []string{"database", "redis"},
		},
	}
}

// Validate applies custom validation rules that go beyond struct tags.
func (c *ObservabilityConfig) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name is required")
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	// an empty level falls back to the environment default in GetLogLevel
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be one of: debug, info, warn, error)", c.Logging.Level)
	}

	if c.Logging.SlowQueryThreshold < 0 {
		return fmt.Errorf("logging slow_query_threshold must be non-negative")
	}

	return nil
}

// GetLogLevel returns the effective log level to use at runtime.
//
// In production an unset level means "info"; in development and local it
// means "debug".
func (c *ObservabilityConfig) GetLogLevel() string {
	if c.Logging.Level != "" {
		return c.Logging.Level
	}
	switch c.Environment {
	case "development", "local":
		return "debug"
	default:
		return "info"
	}
}

// IsProduction reports whether the application is running in production mode.
func (c *ObservabilityConfig) IsProduction() bool {
	return c.Environment == "production"
}
