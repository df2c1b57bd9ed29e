// Package sqlerr translates database driver errors.
//
// It parses the error codes of the Postgres (pgx) and SQLite (modernc)
// drivers into one Code enum and converts them into client-facing
// errs.HTTPError values (e.g. a "not null violation" becomes a 400).
package sqlerr

import (
	"fmt"

	sqlite3 "modernc.org/sqlite/lib"
)

// Code is a driver independent classification of a database error.
type Code string

const (
	Other               Code = "other"
	NotNullViolation    Code = "not_null_violation"
	ForeignKeyViolation Code = "foreign_key_violation"
	UniqueViolation     Code = "unique_violation"
	CheckViolation      Code = "check_violation"
	ConnectionFailure   Code = "connection_failure"
)

// Severity mirrors the Postgres severity levels.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityFatal   Severity = "FATAL"
	SeverityPanic   Severity = "PANIC"
	SeverityWarning Severity = "WARNING"
	SeverityNotice  Severity = "NOTICE"
	SeverityDebug   Severity = "DEBUG"
	SeverityInfo    Severity = "INFO"
	SeverityLog     Severity = "LOG"
)

// Error is a normalized database error.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string
	driverErr      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Severity, e.DatabaseCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.driverErr
}

// MapCode maps a Postgres SQLSTATE onto Code.
func MapCode(sqlState string) Code {
	switch sqlState {
	case "23502":
		return NotNullViolation
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23514":
		return CheckViolation
	case "08000", "08003", "08006", "08001", "08004":
		return ConnectionFailure
	default:
		return Other
	}
}

// MapSQLiteCode maps an extended SQLite result code onto Code.
func MapSQLiteCode(code int) Code {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return NotNullViolation
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ForeignKeyViolation
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return UniqueViolation
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return CheckViolation
	case sqlite3.SQLITE_CANTOPEN:
		return ConnectionFailure
	default:
		return Other
	}
}

// MapSeverity maps the severity string reported by Postgres.
func MapSeverity(severity string) Severity {
	switch Severity(severity) {
	case SeverityError, SeverityFatal, SeverityPanic, SeverityWarning,
		SeverityNotice, SeverityDebug, SeverityInfo, SeverityLog:
		return Severity(severity)
	default:
		return SeverityError
	}
}
