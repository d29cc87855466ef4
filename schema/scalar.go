package schema

import (
	"bytes"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// ErrIncompatible is returned by Convert when a raw value cannot be
// represented as the requested scalar type.
var ErrIncompatible = errors.New("schema: incompatible value")

var (
	timeType    = reflect.TypeFor[time.Time]()
	scannerType = reflect.TypeFor[sql.Scanner]()
	valuerType  = reflect.TypeFor[driver.Valuer]()
)

// converters holds one conversion per basic kind. Named types of these
// kinds are converted through their base type.
var converters = map[reflect.Kind]struct {
	base    reflect.Type
	convert func(any) (any, error)
}{
	reflect.Bool:    {reflect.TypeFor[bool](), convert[bool]},
	reflect.Int:     {reflect.TypeFor[int](), convert[int]},
	reflect.Int8:    {reflect.TypeFor[int8](), convert[int8]},
	reflect.Int16:   {reflect.TypeFor[int16](), convert[int16]},
	reflect.Int32:   {reflect.TypeFor[int32](), convert[int32]},
	reflect.Int64:   {reflect.TypeFor[int64](), convert[int64]},
	reflect.Uint:    {reflect.TypeFor[uint](), convert[uint]},
	reflect.Uint8:   {reflect.TypeFor[uint8](), convert[uint8]},
	reflect.Uint16:  {reflect.TypeFor[uint16](), convert[uint16]},
	reflect.Uint32:  {reflect.TypeFor[uint32](), convert[uint32]},
	reflect.Uint64:  {reflect.TypeFor[uint64](), convert[uint64]},
	reflect.Float32: {reflect.TypeFor[float32](), convert[float32]},
	reflect.Float64: {reflect.TypeFor[float64](), convert[float64]},
	reflect.String:  {reflect.TypeFor[string](), convert[string]},
}

// convert uses the database/sql conversion rules (the same ones Rows.Scan
// applies) to turn a driver value into V.
func convert[V any](src any) (any, error) {
	var n sql.Null[V]
	if err := n.Scan(src); err != nil {
		return nil, err
	}
	return n.V, nil
}

// isScanner reports whether *t implements sql.Scanner and t implements driver.Valuer.
func isScanner(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(scannerType) && t.Implements(valuerType)
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

// storable reports whether values of t can be bound and scanned as a single column.
func storable(t reflect.Type) bool {
	switch {
	case isScanner(t), isBytes(t), t == timeType:
		return true
	}
	_, ok := converters[t.Kind()]
	return ok
}

// ScalarOf returns the storable scalar type behind a declared accessor type,
// and whether the declared type can represent NULL. Pointers to scalars,
// byte slices and Scanner types are nullable.
func ScalarOf(t reflect.Type) (reflect.Type, bool, error) {
	switch {
	case t.Kind() == reflect.Pointer:
		elem := t.Elem()
		if elem.Kind() == reflect.Pointer || isBytes(elem) || !storable(elem) {
			return nil, false, fmt.Errorf("%s is not a storable scalar", t)
		}
		return elem, true, nil
	case isBytes(t):
		return t, true, nil
	case storable(t):
		return t, isScanner(t), nil
	default:
		return nil, false, fmt.Errorf("%s is not a storable scalar", t)
	}
}

// Convert turns a raw driver value into a value of the scalar type t.
// A nil src is NULL and converts to nil. Textual values are not accepted
// for byte-slice targets: dialects that ship binary columns as text need a
// coercion step of their own.
func Convert(t reflect.Type, src any) (any, error) {
	if src == nil {
		return nil, nil
	}
	switch {
	case isScanner(t):
		p := reflect.New(t)
		if err := p.Interface().(sql.Scanner).Scan(src); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIncompatible, err)
		}
		return p.Elem().Interface(), nil
	case isBytes(t):
		b, ok := src.([]byte)
		if !ok {
			return nil, fmt.Errorf("%w: cannot store %T into %s", ErrIncompatible, src, t)
		}
		return reflect.ValueOf(bytes.Clone(b)).Convert(t).Interface(), nil
	case t == timeType:
		v, err := convert[time.Time](src)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrIncompatible, err)
		}
		return v, nil
	}
	c, ok := converters[t.Kind()]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a storable scalar", ErrIncompatible, t)
	}
	v, err := c.convert(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncompatible, err)
	}
	if t != c.base {
		v = reflect.ValueOf(v).Convert(t).Interface()
	}
	return v, nil
}
