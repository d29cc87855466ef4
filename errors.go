package facade

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors. Every typed error below reports true for
// errors.Is against its sentinel.
var (
	// ErrDescriptor is returned when a type cannot be turned into a table descriptor.
	ErrDescriptor = errors.New("facade: invalid entity descriptor")

	// ErrEmptyInsert is returned when every mapped field of an instance is NULL.
	ErrEmptyInsert = errors.New("facade: cannot insert an object with all fields as null")

	// ErrOddPairs is returned when column/value pairs do not have an even length.
	ErrOddPairs = errors.New("facade: pairs must contain an even number of elements")

	// ErrMapping is returned when a fetched row cannot be coerced into the target type.
	ErrMapping = errors.New("facade: row mapping failed")

	// ErrUnknownColumn is returned when a statement references a column
	// the descriptor does not map.
	ErrUnknownColumn = errors.New("facade: unknown column")

	// ErrMissingCondition is returned by update and delete when no condition is given.
	// Use DeleteAll to remove every row.
	ErrMissingCondition = errors.New("facade: missing condition")

	// ErrNotFound is returned when a single-row lookup matches nothing.
	ErrNotFound = errors.New("facade: entity not found")

	// ErrNotSingular is returned when a single-row lookup matches more than one row.
	ErrNotSingular = errors.New("facade: entity not singular")

	// ErrTable is returned when the transport fails while running a table operation.
	ErrTable = errors.New("facade: table operation failed")
)

// DescriptorError reports why a type could not be resolved into a descriptor.
// It is fatal for that type and never retried.
type DescriptorError struct {
	Type   string // Go type name
	Field  string // struct field, if the failure concerns one
	Column string // column name, if known
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *DescriptorError) Error() string {
	var b strings.Builder
	b.WriteString("facade: descriptor error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " (column %q)", e.Column)
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *DescriptorError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrDescriptor.
func (e *DescriptorError) Is(target error) bool { return target == ErrDescriptor }

// NewDescriptorError returns a DescriptorError for the given type.
func NewDescriptorError(typeName, reason string) *DescriptorError {
	return &DescriptorError{Type: typeName, Reason: reason}
}

// IsDescriptorError returns true if the error is a DescriptorError.
func IsDescriptorError(err error) bool {
	if err == nil {
		return false
	}
	var e *DescriptorError
	return errors.As(err, &e) || errors.Is(err, ErrDescriptor)
}

// EmptyInsertError is returned when an insert would carry no column at all.
type EmptyInsertError struct {
	Table string
}

// Error implements the error interface.
func (e *EmptyInsertError) Error() string {
	return fmt.Sprintf("facade: cannot insert into %s an object with all fields as null", e.Table)
}

// Is reports whether target is ErrEmptyInsert.
func (e *EmptyInsertError) Is(target error) bool { return target == ErrEmptyInsert }

// OddPairsError is returned when an alternating column/value list has an odd length.
type OddPairsError struct {
	Count int
}

// Error implements the error interface.
func (e *OddPairsError) Error() string {
	return fmt.Sprintf("facade: pairs must contain an even number of elements (got %d)", e.Count)
}

// Is reports whether target is ErrOddPairs.
func (e *OddPairsError) Is(target error) bool { return target == ErrOddPairs }

// MappingError is returned when the value of a column cannot be assigned
// to the target type. It aborts the materialization of that row only.
type MappingError struct {
	Column string
	Type   string // target Go type
	Cause  error
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	return fmt.Sprintf("facade: error setting field %q for entity %s: %v", e.Column, e.Type, e.Cause)
}

// Unwrap returns the underlying error.
func (e *MappingError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrMapping.
func (e *MappingError) Is(target error) bool { return target == ErrMapping }

// IsMappingError returns true if the error is a MappingError.
func IsMappingError(err error) bool {
	if err == nil {
		return false
	}
	var e *MappingError
	return errors.As(err, &e)
}

// UnknownColumnError is returned when a condition or an update pair names
// a column the table descriptor does not map.
type UnknownColumnError struct {
	Table  string
	Column string
}

// Error implements the error interface.
func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("facade: table %s has no mapped column %q", e.Table, e.Column)
}

// Is reports whether target is ErrUnknownColumn.
func (e *UnknownColumnError) Is(target error) bool { return target == ErrUnknownColumn }

// NotFoundError represents a single-row lookup that matched no row.
type NotFoundError struct {
	table string
}

// Error returns the error string.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("facade: %s not found", e.table)
}

// Is reports whether the target error matches NotFoundError.
func (e *NotFoundError) Is(err error) bool { return err == ErrNotFound }

// Table returns the table that was searched.
func (e *NotFoundError) Table() string { return e.table }

// NewNotFoundError returns a new NotFoundError for the given table.
func NewNotFoundError(table string) *NotFoundError {
	return &NotFoundError{table: table}
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *NotFoundError
	return errors.As(err, &e) || errors.Is(err, ErrNotFound)
}

// NotSingularError represents a single-row lookup that matched several rows.
type NotSingularError struct {
	table string
	count int
}

// Error returns the error string.
func (e *NotSingularError) Error() string {
	return fmt.Sprintf("facade: %s not singular (got %d results, expected 1)", e.table, e.count)
}

// Is reports whether the target error matches NotSingularError.
func (e *NotSingularError) Is(err error) bool { return err == ErrNotSingular }

// Count returns the number of rows the lookup matched.
func (e *NotSingularError) Count() int { return e.count }

// NewNotSingularError returns a new NotSingularError.
func NewNotSingularError(table string, count int) *NotSingularError {
	return &NotSingularError{table: table, count: count}
}

// IsNotSingular returns true if the error is a NotSingularError.
func IsNotSingular(err error) bool {
	if err == nil {
		return false
	}
	var e *NotSingularError
	return errors.As(err, &e) || errors.Is(err, ErrNotSingular)
}

// TableError wraps a transport failure with an operation-specific message,
// e.g. "drop table failed widget". The cause stays reachable through
// errors.As and errors.Is.
type TableError struct {
	Op    string // e.g. "drop table failed"
	Table string
	Cause error
}

// Error implements the error interface.
func (e *TableError) Error() string {
	msg := "facade: " + e.Op
	if e.Table != "" {
		msg += " " + e.Table
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *TableError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrTable.
func (e *TableError) Is(target error) bool { return target == ErrTable }

// NewTableError returns a TableError, or nil if cause is nil.
func NewTableError(op, table string, cause error) error {
	if cause == nil {
		return nil
	}
	return &TableError{Op: op, Table: table, Cause: cause}
}

// IsTableError returns true if the error is a TableError.
func IsTableError(err error) bool {
	if err == nil {
		return false
	}
	var e *TableError
	return errors.As(err, &e)
}
