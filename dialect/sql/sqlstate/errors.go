// Package sqlstate classifies transport errors returned by the supported
// database drivers.
package sqlstate

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// sqlStateError is implemented by drivers exposing SQLSTATE codes.
type sqlStateError interface {
	SQLState() string
}

// PostgreSQL (and openGauss) SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgUndefinedTable      = "42P01"
)

// MySQL error numbers.
const (
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild        = 1452 // Cannot add or update a child row
	mysqlCheckConstraintViolate = 3819
	mysqlUnknownTable           = 1051 // DROP TABLE on a missing table
	mysqlNoSuchTable            = 1146
)

// IsConstraintError returns true if the error resulted from a database constraint violation.
func IsConstraintError(err error) bool {
	return IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsCheckConstraintError(err)
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index.
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := State(err); ok {
		return code == pgUniqueViolation
	}
	if n, ok := mysqlNumber(err); ok {
		return n == mysqlDuplicateEntry
	}
	return containsAny(err.Error(),
		"Error 1062",                 // MySQL (string fallback)
		"violates unique constraint", // Postgres (string fallback)
		"UNIQUE constraint failed",   // SQLite
	)
}

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
func IsForeignKeyConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := State(err); ok {
		return code == pgForeignKeyViolation
	}
	if n, ok := mysqlNumber(err); ok {
		return n == mysqlForeignKeyParent || n == mysqlForeignKeyChild
	}
	return containsAny(err.Error(),
		"Error 1451",
		"Error 1452",
		"violates foreign key constraint",
		"FOREIGN KEY constraint failed",
	)
}

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
func IsCheckConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := State(err); ok {
		return code == pgCheckViolation
	}
	if n, ok := mysqlNumber(err); ok {
		return n == mysqlCheckConstraintViolate
	}
	return containsAny(err.Error(),
		"Error 3819",
		"violates check constraint",
		"CHECK constraint failed",
	)
}

// IsUndefinedTableError reports if the error resulted from a statement on a
// table that does not exist.
func IsUndefinedTableError(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := State(err); ok {
		return code == pgUndefinedTable
	}
	if n, ok := mysqlNumber(err); ok {
		return n == mysqlNoSuchTable || n == mysqlUnknownTable
	}
	return containsAny(err.Error(),
		"no such table", // SQLite
		"does not exist",
	)
}

// State returns the SQLSTATE code carried by a Postgres-family error.
func State(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), true
	}
	if e, ok := asError[sqlStateError](err); ok {
		return e.SQLState(), true
	}
	return "", false
}

func mysqlNumber(err error) (uint16, bool) {
	var e *mysql.MySQLError
	if errors.As(err, &e) {
		return e.Number, true
	}
	return 0, false
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
