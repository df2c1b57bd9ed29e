package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/deppfellow/software-engineers/internal/config"
)

// Migrations for both drivers are compiled into the binary.
//
//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// Migrate brings the schema of the configured driver up to date.
func (db *Database) Migrate(ctx context.Context, cfg *config.Config) error {
	switch db.Driver {
	case config.DriverSQLite:
		return MigrateSQLite(ctx, db.log, db.SQL)
	default:
		return Migrate(ctx, db.log, cfg)
	}
}

// Migrate runs the Postgres migrations using jackc/tern over a dedicated
// connection. The applied version is stored in the schema_version table.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, PostgresDSN(cfg))
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, "schema_version")
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return err
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}

// MigrateSQLite applies every embedded SQLite migration not yet recorded in
// schema_migrations, each in its own transaction, in filename order.
func MigrateSQLite(ctx context.Context, logger *zerolog.Logger, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	var applied []string
	if err := db.SelectContext(ctx, &applied, "SELECT filename FROM schema_migrations"); err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, name := range applied {
		done[name] = true
	}

	files, err := sqliteMigrationFiles()
	if err != nil {
		return fmt.Errorf("list migration files: %w", err)
	}

	count := 0
	for _, filename := range files {
		if done[filename] {
			continue
		}
		if err := applySQLiteMigration(ctx, db, filename); err != nil {
			return fmt.Errorf("apply migration %s: %w", filename, err)
		}
		logger.Info().Str("file", filename).Msg("migration applied")
		count++
	}

	if count == 0 {
		logger.Info().Msgf("database schema up to date, version %d", len(files))
	}
	return nil
}

func sqliteMigrationFiles() ([]string, error) {
	entries, err := fs.ReadDir(migrations, "migrations/sqlite")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func applySQLiteMigration(ctx context.Context, db *sqlx.DB, filename string) error {
	content, err := fs.ReadFile(migrations, "migrations/sqlite/"+filename)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("execute sql: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", filename); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}

	return tx.Commit()
}
