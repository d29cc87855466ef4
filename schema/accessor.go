package schema

import (
	"reflect"

	facade "github.com/zhiheng123/table-facade"
)

// Tabler is implemented by entity types to declare their table name.
//
//	func (Widget) TableName() string { return "widget" }
type Tabler interface {
	TableName() string
}

// Mapper is implemented by *T to register its columns explicitly instead
// of having them discovered from struct tags.
//
//	func (*Widget) Columns() []schema.Accessor[Widget] {
//		return []schema.Accessor[Widget]{
//			schema.Field("id", (*Widget).GetID, (*Widget).SetID),
//			schema.Field("name", (*Widget).GetName, (*Widget).SetName),
//		}
//	}
type Mapper[T any] interface {
	Columns() []Accessor[T]
}

// Accessor binds a column name to a typed getter/setter pair of T.
// Use Field to create one.
type Accessor[T any] struct {
	column string
	typ    reflect.Type
	get    func(*T) any
	set    func(*T, reflect.Value)
}

// Field returns the accessor of column, read with get and written with set.
// V must be a storable scalar or a pointer to one.
func Field[T, V any](column string, get func(*T) V, set func(*T, V)) Accessor[T] {
	a := Accessor[T]{column: column, typ: reflect.TypeFor[V]()}
	if get != nil {
		a.get = func(e *T) any { return get(e) }
	}
	if set != nil {
		a.set = func(e *T, v reflect.Value) { set(e, v.Interface().(V)) }
	}
	return a
}

// Column returns the column name of the accessor.
func (a Accessor[T]) Column() string { return a.column }

func (a Accessor[T]) build(typ reflect.Type) (*Column, error) {
	switch {
	case a.get == nil:
		return nil, descriptorError(typ, "", a.column, "nil get accessor")
	case a.set == nil:
		return nil, descriptorError(typ, "", a.column, "nil set accessor")
	}
	scalar, nullable, err := ScalarOf(a.typ)
	if err != nil {
		e := descriptorError(typ, "", a.column, "unsupported accessor type")
		e.Cause = err
		return nil, e
	}
	get, set := a.get, a.set
	return &Column{
		name:     a.column,
		typ:      a.typ,
		scalar:   scalar,
		nullable: nullable,
		get:      func(e any) any { return get(e.(*T)) },
		set:      func(e any, v reflect.Value) { set(e.(*T), v) },
	}, nil
}

func descriptorError(typ reflect.Type, field, column, reason string) *facade.DescriptorError {
	return &facade.DescriptorError{
		Type:   typ.String(),
		Field:  field,
		Column: column,
		Reason: reason,
	}
}
