// Package database establishes the connection to the backing store.
//
// Two drivers are supported:
//   - postgres: a pgx connection pool (pgxpool) with query tracing/logging
//     (pgx tracelog, slow query logging) and optional New Relic
//     instrumentation (nrpgx5)
//   - sqlite: a sqlx handle over the pure Go modernc driver, used for
//     single node deployments and tests
package database

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/jmoiron/sqlx"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/deppfellow/software-engineers/internal/config"
	loggerConfig "github.com/deppfellow/software-engineers/internal/logger"
)

// DatabasePingTimeout is the number of seconds to wait for the start-up ping.
const DatabasePingTimeout = 10

// Database wraps the connection of the configured driver.
// Exactly one of Pool and SQL is non-nil.
type Database struct {
	Driver string
	Pool   *pgxpool.Pool
	SQL    *sqlx.DB
	log    *zerolog.Logger
}

// multiTracer fans pgx query tracing out to several tracers, since pgx only
// has a single Tracer slot.
type multiTracer struct {
	tracers []pgx.QueryTracer
}

func (mt *multiTracer) TraceQueryStart(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	for _, tracer := range mt.tracers {
		ctx = tracer.TraceQueryStart(ctx, conn, data)
	}
	return ctx
}

func (mt *multiTracer) TraceQueryEnd(ctx context.Context, conn *pgx.Conn, data pgx.TraceQueryEndData) {
	for _, tracer := range mt.tracers {
		tracer.TraceQueryEnd(ctx, conn, data)
	}
}

type queryStartKey struct{}

type queryStart struct {
	sql   string
	start time.Time
}

// slowQueryTracer logs every query slower than threshold at warn level.
type slowQueryTracer struct {
	threshold time.Duration
	log       *zerolog.Logger
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, start: time.Now()})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	if elapsed := time.Since(qs.start); elapsed >= t.threshold {
		t.log.Warn().
			Str("sql", qs.sql).
			Dur("duration", elapsed).
			Err(data.Err).
			Msg("slow query")
	}
}

// PostgresDSN builds the postgres:// URL for cfg, URL-escaping the password.
func PostgresDSN(cfg *config.Config) string {
	hostPort := net.JoinHostPort(cfg.Database.Host, strconv.Itoa(cfg.Database.Port))
	encodedPassword := url.QueryEscape(cfg.Database.Password)

	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
		cfg.Database.User,
		encodedPassword,
		hostPort,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

// New opens the database selected by cfg.Database.Driver.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		return NewSQLite(cfg.Database.SQLitePath, logger)
	case config.DriverPostgres, "":
		return NewPostgres(cfg, logger, loggerService)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// NewPostgres creates a PostgreSQL connection pool with instrumentation.
//
// New Relic tracing is attached when the agent is running; in the local
// environment every query is also logged through pgx tracelog.
func NewPostgres(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(PostgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	pgxPoolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgxPoolConfig.MaxConnLifetime = time.Duration(cfg.Database.ConnMaxLifetime) * time.Second
	pgxPoolConfig.MaxConnIdleTime = time.Duration(cfg.Database.ConnMaxIdleTime) * time.Second

	var tracers []pgx.QueryTracer

	if loggerService.GetApplication() != nil {
		tracers = append(tracers, nrpgx5.NewTracer())
	}

	if threshold := cfg.Observability.Logging.SlowQueryThreshold; threshold > 0 {
		tracers = append(tracers, &slowQueryTracer{threshold: threshold, log: logger})
	}

	if cfg.Primary.Env == "local" {
		globalLevel := logger.GetLevel()
		pgxLogger := loggerConfig.NewPgxLogger(globalLevel)
		tracers = append(tracers, &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(pgxLogger),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		})
	}

	switch len(tracers) {
	case 0:
	case 1:
		pgxPoolConfig.ConnConfig.Tracer = tracers[0]
	default:
		pgxPoolConfig.ConnConfig.Tracer = &multiTracer{tracers: tracers}
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	database := &Database{
		Driver: config.DriverPostgres,
		Pool:   pool,
		log:    logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", database.Driver).Msg("connected to the database")

	return database, nil
}

// NewSQLite opens a SQLite database at path (":memory:" for a private
// in-memory database) with WAL mode and foreign keys enabled.
//
// The pool is limited to one connection: SQLite serializes writers anyway
// and an in-memory database only lives as long as its connection.
func NewSQLite(path string, logger *zerolog.Logger) (*Database, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Str("driver", config.DriverSQLite).Str("path", path).Msg("connected to the database")

	return &Database{
		Driver: config.DriverSQLite,
		SQL:    db,
		log:    logger,
	}, nil
}

// Ping checks connectivity of whichever driver is in use.
func (db *Database) Ping(ctx context.Context) error {
	switch {
	case db.Pool != nil:
		return db.Pool.Ping(ctx)
	case db.SQL != nil:
		return db.SQL.PingContext(ctx)
	default:
		return fmt.Errorf("database not initialized")
	}
}

// Close releases the underlying connections.
func (db *Database) Close() error {
	db.log.Info().Str("driver", db.Driver).Msg("closing database connection pool")

	if db.Pool != nil {
		db.Pool.Close()
	}
	if db.SQL != nil {
		return db.SQL.Close()
	}
	return nil
}
