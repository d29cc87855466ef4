package sql

import (
	"encoding/hex"
	"errors"
	"fmt"
	"reflect"
	"strings"

	facade "github.com/zhiheng123/table-facade"
	"github.com/zhiheng123/table-facade/schema"
)

// ErrNoCoercion is returned by a Coercer that has no fallback for a value.
var ErrNoCoercion = errors.New("dialect/sql: no coercion applies")

// RawRow is one fetched row, keyed by column name, holding the values as
// returned by the driver.
type RawRow map[string]any

// Raw returns the driver value of column.
func (r RawRow) Raw(column string) (any, bool) {
	v, ok := r[column]
	return v, ok
}

// Get returns the value of column converted to typ.
func (r RawRow) Get(column string, typ reflect.Type) (any, error) {
	raw, ok := r[column]
	if !ok {
		return nil, fmt.Errorf("dialect/sql: column %q not in row", column)
	}
	return schema.Convert(typ, raw)
}

// ScanRow reads the current row of rows into a RawRow.
func ScanRow(rows ColumnScanner, columns []string) (RawRow, error) {
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("dialect/sql: scan row: %w", err)
	}
	row := make(RawRow, len(columns))
	for i, c := range columns {
		row[c] = values[i]
	}
	return row, nil
}

// Coercer is the fallback applied by Map when a raw value cannot be
// converted to the scalar type of a column.
type Coercer interface {
	Coerce(raw any, typ reflect.Type) (any, error)
}

// CoercerFunc adapts a function to the Coercer interface.
type CoercerFunc func(raw any, typ reflect.Type) (any, error)

// Coerce implements Coercer.
func (f CoercerFunc) Coerce(raw any, typ reflect.Type) (any, error) { return f(raw, typ) }

// NoCoercion is the Coercer of dialects without fallback.
var NoCoercion Coercer = CoercerFunc(func(any, reflect.Type) (any, error) {
	return nil, ErrNoCoercion
})

// HexBytes decodes textual hex, optionally prefixed with \x, into byte-slice
// columns. openGauss returns binary data in this form for text-typed columns.
var HexBytes Coercer = CoercerFunc(func(raw any, typ reflect.Type) (any, error) {
	if typ.Kind() != reflect.Slice || typ.Elem().Kind() != reflect.Uint8 {
		return nil, ErrNoCoercion
	}
	var s string
	switch raw := raw.(type) {
	case string:
		s = raw
	case []byte:
		s = string(raw)
	default:
		return nil, ErrNoCoercion
	}
	s = strings.TrimPrefix(s, `\x`)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: decode hex: %w", err)
	}
	return reflect.ValueOf(b).Convert(typ).Interface(), nil
})

// Map creates a new T from row. Every mapped column must be present in
// the row. When a value cannot be converted, coercer (if not nil) gets a
// chance to produce it; otherwise a MappingError is returned.
func Map[T any](row RawRow, desc *schema.Descriptor, coercer Coercer) (*T, error) {
	t := new(T)
	for _, c := range desc.Columns() {
		raw, ok := row.Raw(c.Name())
		if !ok {
			return nil, mappingError(desc, c, fmt.Errorf("dialect/sql: column %q not in row", c.Name()))
		}
		v, err := row.Get(c.Name(), c.Scalar())
		if err != nil {
			if coercer == nil {
				return nil, mappingError(desc, c, err)
			}
			cv, cerr := coercer.Coerce(raw, c.Scalar())
			if cerr != nil {
				if !errors.Is(cerr, ErrNoCoercion) {
					err = errors.Join(err, cerr)
				}
				return nil, mappingError(desc, c, err)
			}
			v = cv
		}
		if err := c.Set(t, v); err != nil {
			return nil, mappingError(desc, c, err)
		}
	}
	return t, nil
}

func mappingError(desc *schema.Descriptor, c *schema.Column, err error) error {
	return &facade.MappingError{Column: c.Name(), Type: desc.Type().String(), Cause: err}
}
