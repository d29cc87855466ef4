package schema

import (
	"fmt"
	"reflect"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TagName is the struct tag that marks a field as a column.
const TagName = "column"

// AccessorNames returns the getter and setter method names of a struct
// field: Get<Field> (or Is<Field> for booleans) and Set<Field>.
func AccessorNames(field string, boolean bool) (get, set string) {
	name := cases.Title(language.Und, cases.NoLower).String(field)
	if boolean {
		return "Is" + name, "Set" + name
	}
	return "Get" + name, "Set" + name
}

// discover derives the columns of the struct type typ from its tagged
// fields. Every tagged field must have a getter and a setter declared on
// *typ whose types match the field type.
func discover(typ reflect.Type) ([]*Column, error) {
	if typ.Kind() != reflect.Struct {
		return nil, descriptorError(typ, "", "", fmt.Sprintf("expect a struct or a Mapper implementation, got %s", typ.Kind()))
	}
	ptr := reflect.PointerTo(typ)
	var columns []*Column
	for i := range typ.NumField() {
		f := typ.Field(i)
		name, ok := f.Tag.Lookup(TagName)
		if !ok || name == "-" {
			continue
		}
		if name == "" {
			return nil, descriptorError(typ, f.Name, "", "empty column name")
		}
		scalar, nullable, err := ScalarOf(f.Type)
		if err != nil {
			e := descriptorError(typ, f.Name, name, "unsupported field type")
			e.Cause = err
			return nil, e
		}
		getName, setName := AccessorNames(f.Name, scalar.Kind() == reflect.Bool)
		get, ok := ptr.MethodByName(getName)
		if !ok || get.Type.NumIn() != 1 || get.Type.NumOut() != 1 || get.Type.Out(0) != f.Type {
			return nil, descriptorError(typ, f.Name, name, fmt.Sprintf("missing get method %s() %s", getName, f.Type))
		}
		set, ok := ptr.MethodByName(setName)
		if !ok || set.Type.NumIn() != 2 || set.Type.In(1) != f.Type || set.Type.NumOut() != 0 {
			return nil, descriptorError(typ, f.Name, name, fmt.Sprintf("missing set method %s(%s)", setName, f.Type))
		}
		columns = append(columns, &Column{
			name:     name,
			field:    f.Name,
			typ:      f.Type,
			scalar:   scalar,
			nullable: nullable,
			get: func(e any) any {
				return get.Func.Call([]reflect.Value{reflect.ValueOf(e)})[0].Interface()
			},
			set: func(e any, v reflect.Value) {
				set.Func.Call([]reflect.Value{reflect.ValueOf(e), v})
			},
		})
	}
	return columns, nil
}
