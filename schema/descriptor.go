package schema

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"slices"
)

// Column maps one table column to a getter/setter pair of an entity type.
type Column struct {
	name     string
	field    string
	typ      reflect.Type
	scalar   reflect.Type
	nullable bool
	get      func(entity any) any
	set      func(entity any, v reflect.Value)
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Field returns the struct field backing the column, or "" for registered accessors.
func (c *Column) Field() string { return c.field }

// Type returns the declared accessor type, e.g. *int64.
func (c *Column) Type() reflect.Type { return c.typ }

// Scalar returns the storable scalar type, e.g. int64 for *int64.
func (c *Column) Scalar() reflect.Type { return c.scalar }

// Nullable reports whether the accessor type can hold NULL.
func (c *Column) Nullable() bool { return c.nullable }

// Value reads the column of entity (a pointer to the described type) and
// returns the value to bind. ok is false when the value is NULL.
func (c *Column) Value(entity any) (v any, ok bool) {
	v = c.get(entity)
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.Pointer:
		if rv.IsNil() {
			return nil, false
		}
		v = rv.Elem().Interface()
	case rv.Kind() == reflect.Slice && rv.IsNil():
		return nil, false
	}
	if valuer, isValuer := v.(driver.Valuer); isValuer {
		if dv, err := valuer.Value(); err == nil && dv == nil {
			return nil, false
		}
	}
	return v, true
}

// Set assigns v, a value of the column's scalar type or nil for NULL, to
// the column of entity through its setter.
func (c *Column) Set(entity any, v any) error {
	if v == nil {
		return c.setNull(entity)
	}
	rv := reflect.ValueOf(v)
	if rv.Type() != c.scalar {
		if !convertible(rv.Type(), c.scalar) {
			return fmt.Errorf("cannot assign %T to %s", v, c.typ)
		}
		rv = rv.Convert(c.scalar)
	}
	if c.typ.Kind() == reflect.Pointer {
		p := reflect.New(c.scalar)
		p.Elem().Set(rv)
		rv = p
	}
	c.set(entity, rv)
	return nil
}

// convertible reports whether values of from can be assigned to a column
// of type to. Integers never convert to strings.
func convertible(from, to reflect.Type) bool {
	if to.Kind() == reflect.String {
		switch from.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return false
		}
	}
	return from.ConvertibleTo(to)
}

func (c *Column) setNull(entity any) error {
	switch {
	case c.typ.Kind() == reflect.Pointer || isBytes(c.typ):
		c.set(entity, reflect.Zero(c.typ))
	case isScanner(c.scalar):
		p := reflect.New(c.scalar)
		if err := p.Interface().(sql.Scanner).Scan(nil); err != nil {
			return err
		}
		c.set(entity, p.Elem())
	default:
		return fmt.Errorf("converting NULL to %s is unsupported", c.typ)
	}
	return nil
}

// Descriptor is the immutable table metadata of one entity type. It is
// safe for concurrent use.
type Descriptor struct {
	typ     reflect.Type
	table   string
	columns []*Column
	index   map[string]int
}

func newDescriptor(typ reflect.Type, table string, columns []*Column) (*Descriptor, error) {
	if len(columns) == 0 {
		return nil, descriptorError(typ, "", "", "no mapped columns")
	}
	d := &Descriptor{
		typ:     typ,
		table:   table,
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if c.name == "" {
			return nil, descriptorError(typ, c.field, "", "empty column name")
		}
		if _, ok := d.index[c.name]; ok {
			return nil, descriptorError(typ, c.field, c.name, "duplicate column")
		}
		d.index[c.name] = i
	}
	return d, nil
}

// Type returns the described Go type.
func (d *Descriptor) Type() reflect.Type { return d.typ }

// Table returns the table name.
func (d *Descriptor) Table() string { return d.table }

// Len returns the number of mapped columns.
func (d *Descriptor) Len() int { return len(d.columns) }

// Columns returns the mapped columns in declaration order.
func (d *Descriptor) Columns() []*Column { return slices.Clone(d.columns) }

// ColumnNames returns the column names in declaration order.
func (d *Descriptor) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.name
	}
	return names
}

// Lookup returns the column with the given name.
func (d *Descriptor) Lookup(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// String implements fmt.Stringer.
func (d *Descriptor) String() string {
	return fmt.Sprintf("%s(%s)%v", d.typ, d.table, d.ColumnNames())
}
