// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// present), loads them into structured Go types and validates that required
// values are present so they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before any
	// variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix every configuration variable must carry.
//
// The remainder of the name is lower-cased and double underscores become the
// koanf nesting delimiter:
//
//	ENGINEERS_SERVER__PORT            -> server.port
//	ENGINEERS_DATABASE__SQLITE_PATH   -> database.sqlite_path
//	ENGINEERS_OBSERVABILITY__LOGGING__LEVEL -> observability.logging.level
const EnvPrefix = "ENGINEERS_"

// Supported values for DatabaseConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// listKeys are koanf keys whose env value is a comma separated list.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":       true,
	"observability.health_checks.checks": true,
}

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional at the env level; it is
// always populated after LoadConfig returns.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit int `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig selects the storage driver and carries its connection settings.
//
// The Postgres fields are only required when Driver is "postgres"; SQLitePath
// only when Driver is "sqlite".
type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=postgres sqlite"`

	Host            string `koanf:"host" validate:"required_if=Driver postgres"`
	Port            int    `koanf:"port" validate:"required_if=Driver postgres"`
	User            string `koanf:"user" validate:"required_if=Driver postgres"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode         string `koanf:"ssl_mode" validate:"required_if=Driver postgres"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"min=0"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"min=0"`

	SQLitePath string `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`
}

// RedisConfig contains Redis connection details.
// An empty Address disables the Redis-backed rate limiter and the audit job queue.
type RedisConfig struct {
	Address string `koanf:"address"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

// Default returns a Config populated with every optional default.
// Required values (env, port, database credentials) are left empty.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    25,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 300,
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// LoadConfig loads configuration from environment variables on top of Default,
// validates it and returns the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", ".")
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := Default()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := validator.New().Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
