package sqlerr

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/deppfellow/software-engineers/internal/errs"
)

var (
	uniqueKeyRe = regexp.MustCompile(`_([^_]+)_(?:key|ukey)$`)

	// sqliteConstraintRe extracts "table.column" from messages such as
	// "NOT NULL constraint failed: software_engineers.name".
	sqliteConstraintRe = regexp.MustCompile(`constraint failed: ([A-Za-z0-9_]+)\.([A-Za-z0-9_]+)`)
)

// ErrCode reports the Code of the first *Error in err's chain, or Other.
func ErrCode(err error) Code {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Code
	}
	return Other
}

// ConvertPgError converts a raw Postgres error into *Error.
func ConvertPgError(src *pgconn.PgError) *Error {
	return &Error{
		Code:           MapCode(src.Code),
		Severity:       MapSeverity(src.Severity),
		DatabaseCode:   src.Code,
		Message:        src.Message,
		SchemaName:     src.SchemaName,
		TableName:      src.TableName,
		ColumnName:     src.ColumnName,
		DataTypeName:   src.DataTypeName,
		ConstraintName: src.ConstraintName,
		driverErr:      src,
	}
}

// ConvertSQLiteError converts a modernc SQLite error into *Error.
// SQLite reports no structured metadata, so table and column are parsed
// from the message when possible.
func ConvertSQLiteError(src *sqlite.Error) *Error {
	sqlErr := &Error{
		Code:         MapSQLiteCode(src.Code()),
		Severity:     SeverityError,
		DatabaseCode: fmt.Sprintf("%d", src.Code()),
		Message:      src.Error(),
		driverErr:    src,
	}

	// without extended result codes only the primary SQLITE_CONSTRAINT is set
	if sqlErr.Code == Other && src.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		sqlErr.Code = classifySQLiteMessage(src.Error())
	}

	if m := sqliteConstraintRe.FindStringSubmatch(src.Error()); len(m) == 3 {
		sqlErr.TableName = m[1]
		sqlErr.ColumnName = m[2]
	}

	return sqlErr
}

func classifySQLiteMessage(msg string) Code {
	switch {
	case strings.Contains(msg, "NOT NULL constraint"):
		return NotNullViolation
	case strings.Contains(msg, "UNIQUE constraint"):
		return UniqueViolation
	case strings.Contains(msg, "FOREIGN KEY constraint"):
		return ForeignKeyViolation
	case strings.Contains(msg, "CHECK constraint"):
		return CheckViolation
	default:
		return Other
	}
}

// generateErrorCode builds a "<DOMAIN>_<ACTION>" code from the table name,
// e.g. software_engineers + NotNullViolation => SOFTWARE_ENGINEER_REQUIRED.
func generateErrorCode(tableName string, errType Code) string {
	if tableName == "" {
		tableName = "RECORD"
	}

	domain := strings.ToUpper(tableName)
	if strings.HasSuffix(domain, "S") && len(domain) > 1 {
		domain = domain[:len(domain)-1]
	}

	action := "ERROR"
	switch errType {
	case ForeignKeyViolation:
		action = "NOT_FOUND"
	case UniqueViolation:
		action = "ALREADY_EXISTS"
	case NotNullViolation:
		action = "REQUIRED"
	case CheckViolation:
		action = "INVALID"
	}

	return fmt.Sprintf("%s_%s", domain, action)
}

func formatUserFriendlyMessage(sqlErr *Error) string {
	entityName := getEntityName(sqlErr.TableName, sqlErr.ColumnName)

	switch sqlErr.Code {
	case ForeignKeyViolation:
		return fmt.Sprintf("The referenced %s does not exist", entityName)

	case UniqueViolation:
		// "identifier" is replaced by the column name once it is known
		return fmt.Sprintf("A %s with this identifier already exists", entityName)

	case NotNullViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName == "" {
			fieldName = "field"
		}
		return fmt.Sprintf("The %s is required", fieldName)

	case CheckViolation:
		fieldName := humanizeText(sqlErr.ColumnName)
		if fieldName != "" {
			return fmt.Sprintf("The %s value does not meet required conditions", fieldName)
		}
		return "One or more values do not meet required conditions"

	default:
		return "An error occurred while processing your request"
	}
}

// getEntityName prefers a "<entity>_id" column, then the singularized table name.
func getEntityName(tableName, columnName string) string {
	if columnName != "" && strings.HasSuffix(strings.ToLower(columnName), "_id") {
		entity := strings.TrimSuffix(strings.ToLower(columnName), "_id")
		return humanizeText(entity)
	}

	if tableName != "" {
		entity := tableName
		if strings.HasSuffix(entity, "s") && len(entity) > 1 {
			entity = entity[:len(entity)-1]
		}
		return humanizeText(entity)
	}

	return "record"
}

// humanizeText converts "tech_stack" into "Tech Stack".
func humanizeText(text string) string {
	if text == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ReplaceAll(text, "_", " "))
}

// extractColumnForUniqueViolation infers the column from a constraint named
// "unique_<table>_<column>" or "<table>_<column>_key".
func extractColumnForUniqueViolation(constraintName string) string {
	if constraintName == "" {
		return ""
	}

	if strings.HasPrefix(constraintName, "unique_") {
		parts := strings.Split(constraintName, "_")
		if len(parts) >= 3 {
			return parts[len(parts)-1]
		}
	}

	matches := uniqueKeyRe.FindStringSubmatch(constraintName)
	if len(matches) > 1 {
		return matches[1]
	}

	return ""
}

// Normalize returns the *Error for a raw driver error, or nil when err does
// not originate from a supported driver.
func Normalize(err error) *Error {
	var sqlErr *Error
	if errors.As(err, &sqlErr) {
		return sqlErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ConvertPgError(pgErr)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return ConvertSQLiteError(liteErr)
	}

	return nil
}

// HandleError converts a low-level database error into an application-level error.
//
//   - *errs.HTTPError is returned unchanged
//   - constraint violations become 400 with a generated code
//   - ErrNoRows becomes 404
//   - anything else becomes a generic 500
func HandleError(err error) error {
	var httpErr *errs.HTTPError
	if errors.As(err, &httpErr) {
		return err
	}

	if sqlErr := Normalize(err); sqlErr != nil {
		errorCode := generateErrorCode(sqlErr.TableName, sqlErr.Code)
		userMessage := formatUserFriendlyMessage(sqlErr)

		switch sqlErr.Code {
		case ForeignKeyViolation:
			return errs.NewBadRequestError(userMessage, false, &errorCode, nil, nil)

		case UniqueViolation:
			columnName := extractColumnForUniqueViolation(sqlErr.ConstraintName)
			if columnName == "" {
				columnName = sqlErr.ColumnName
			}
			if columnName != "" {
				userMessage = strings.ReplaceAll(userMessage, "identifier", humanizeText(columnName))
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		case NotNullViolation:
			fieldErrors := []errs.FieldError{
				{
					Field: strings.ToLower(sqlErr.ColumnName),
					Error: "is required",
				},
			}
			return errs.NewBadRequestError(userMessage, true, &errorCode, fieldErrors, nil)

		case CheckViolation:
			return errs.NewBadRequestError(userMessage, true, &errorCode, nil, nil)

		default:
			return errs.NewInternalServerError()
		}
	}

	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows) {
		return errs.NewNotFoundError("Resource not found", false, nil)
	}

	return errs.NewInternalServerError()
}
