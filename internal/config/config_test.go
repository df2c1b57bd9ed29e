package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSQLiteEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENGINEERS_PRIMARY__ENV", "local")
	t.Setenv("ENGINEERS_SERVER__PORT", "8080")
	t.Setenv("ENGINEERS_DATABASE__DRIVER", "sqlite")
	t.Setenv("ENGINEERS_DATABASE__SQLITE_PATH", "engineers.db")
}

func TestLoadConfig(t *testing.T) {
	t.Run("sqlite with defaults", func(t *testing.T) {
		setSQLiteEnv(t)

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "local", cfg.Primary.Env)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 30, cfg.Server.ReadTimeout)
		assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
		assert.Equal(t, DriverSQLite, cfg.Database.Driver)
		assert.Equal(t, "engineers.db", cfg.Database.SQLitePath)
		assert.False(t, cfg.Redis.Enabled())

		require.NotNil(t, cfg.Observability)
		assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
		assert.Equal(t, "local", cfg.Observability.Environment)
		assert.Equal(t, 5*time.Second, cfg.Observability.HealthChecks.Timeout)
	})

	t.Run("nested overrides keep sibling defaults", func(t *testing.T) {
		setSQLiteEnv(t)
		t.Setenv("ENGINEERS_OBSERVABILITY__LOGGING__LEVEL", "warn")
		t.Setenv("ENGINEERS_OBSERVABILITY__LOGGING__SLOW_QUERY_THRESHOLD", "250ms")
		t.Setenv("ENGINEERS_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
		t.Setenv("ENGINEERS_SERVER__RATE_LIMIT", "20")
		t.Setenv("ENGINEERS_REDIS__ADDRESS", "localhost:6379")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "warn", cfg.Observability.Logging.Level)
		assert.Equal(t, "json", cfg.Observability.Logging.Format)
		assert.Equal(t, 250*time.Millisecond, cfg.Observability.Logging.SlowQueryThreshold)
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
		assert.Equal(t, 20, cfg.Server.RateLimit)
		assert.True(t, cfg.Redis.Enabled())
	})

	t.Run("postgres requires connection settings", func(t *testing.T) {
		t.Setenv("ENGINEERS_PRIMARY__ENV", "production")
		t.Setenv("ENGINEERS_SERVER__PORT", "8080")
		t.Setenv("ENGINEERS_DATABASE__DRIVER", "postgres")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Host")
	})

	t.Run("postgres complete", func(t *testing.T) {
		t.Setenv("ENGINEERS_PRIMARY__ENV", "production")
		t.Setenv("ENGINEERS_SERVER__PORT", "8080")
		t.Setenv("ENGINEERS_DATABASE__HOST", "db")
		t.Setenv("ENGINEERS_DATABASE__PORT", "5432")
		t.Setenv("ENGINEERS_DATABASE__USER", "engineers")
		t.Setenv("ENGINEERS_DATABASE__PASSWORD", "p@ss:word")
		t.Setenv("ENGINEERS_DATABASE__NAME", "engineers")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, DriverPostgres, cfg.Database.Driver)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
	})

	t.Run("unknown driver", func(t *testing.T) {
		setSQLiteEnv(t)
		t.Setenv("ENGINEERS_DATABASE__DRIVER", "mysql")

		_, err := LoadConfig()
		require.Error(t, err)
	})

	t.Run("invalid log level", func(t *testing.T) {
		setSQLiteEnv(t)
		t.Setenv("ENGINEERS_OBSERVABILITY__LOGGING__LEVEL", "verbose")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid logging level")
	})

	t.Run("missing env", func(t *testing.T) {
		t.Setenv("ENGINEERS_SERVER__PORT", "8080")
		t.Setenv("ENGINEERS_DATABASE__DRIVER", "sqlite")
		t.Setenv("ENGINEERS_DATABASE__SQLITE_PATH", "engineers.db")

		_, err := LoadConfig()
		require.Error(t, err)
	})
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
		want  string
	}{
		{name: "explicit level wins", env: "production", level: "error", want: "error"},
		{name: "production default", env: "production", want: "info"},
		{name: "development default", env: "development", want: "debug"},
		{name: "local default", env: "local", want: "debug"},
		{name: "unknown env default", env: "staging", want: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultObservabilityConfig()
			c.Environment = tt.env
			c.Logging.Level = tt.level
			assert.Equal(t, tt.want, c.GetLogLevel())
		})
	}
}

func TestHealthChecksConfig_Has(t *testing.T) {
	h := HealthChecksConfig{Enabled: true, Checks: []string{"database"}}
	assert.True(t, h.Has("database"))
	assert.False(t, h.Has("redis"))

	h.Enabled = false
	assert.False(t, h.Has("database"))
}
