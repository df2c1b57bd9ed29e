package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/software-engineers/internal/config"
)

func TestNewLoggerService_Disabled(t *testing.T) {
	ls, err := NewLoggerService(config.DefaultObservabilityConfig())
	require.NoError(t, err)
	assert.Nil(t, ls.GetApplication())

	// shutdown of a disabled service is a no-op
	ls.Shutdown()

	var nilService *LoggerService
	assert.Nil(t, nilService.GetApplication())
}

func TestNewLoggerWithConfig_Level(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	cfg.Logging.Level = "warn"

	l := NewLoggerWithConfig(cfg)
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())

	cfg.Logging.Level = ""
	cfg.Environment = "development"
	l = NewLoggerWithConfig(cfg)
	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())
}

func TestNewLoggerWithConfig_File(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	cfg.Logging.File = filepath.Join(t.TempDir(), "engineers.log")

	l := NewLoggerWithConfig(cfg)
	l.Info().Str("engineer", "Lupo").Msg("file output")

	data, err := os.ReadFile(cfg.Logging.File)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"engineer":"Lupo"`)
	assert.Contains(t, string(data), `"service":"software-engineers"`)
}

func TestNewLogger_Fields(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"

	var buf bytes.Buffer
	l := newLogger(&buf, zerolog.InfoLevel, cfg)
	l.Debug().Msg("hidden")
	l.Info().Msg("visible")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"environment":"production"`)
	assert.Contains(t, buf.String(), "visible")
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	l = WithTraceContext(l, nil)
	l.Info().Msg("no trace")
	assert.NotContains(t, buf.String(), "trace.id")
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	tests := []struct {
		level zerolog.Level
		want  tracelog.LogLevel
	}{
		{zerolog.TraceLevel, tracelog.LogLevelTrace},
		{zerolog.DebugLevel, tracelog.LogLevelDebug},
		{zerolog.InfoLevel, tracelog.LogLevelInfo},
		{zerolog.WarnLevel, tracelog.LogLevelWarn},
		{zerolog.ErrorLevel, tracelog.LogLevelError},
		{zerolog.Disabled, tracelog.LogLevelNone},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, GetPgxTraceLogLevel(tt.level))
		})
	}
}
