// Package schema resolves Go entity types into table descriptors.
//
// A descriptor is the table name plus the ordered list of mapped columns,
// each one bound to a getter and a setter of the entity. Descriptors are
// computed once per type and cached in a Registry.
//
// # Declaring the table
//
// Every entity declares its table with a TableName method:
//
//	func (Widget) TableName() string { return "widget" }
//
// # Declaring columns
//
// Columns are either registered explicitly by implementing Mapper on the
// pointer type:
//
//	func (*Widget) Columns() []schema.Accessor[Widget] {
//	    return []schema.Accessor[Widget]{
//	        schema.Field("id", (*Widget).GetID, (*Widget).SetID),
//	        schema.Field("name", (*Widget).GetName, (*Widget).SetName),
//	    }
//	}
//
// or discovered from struct tags. A tagged field needs a Get<Field> (Is<Field>
// for booleans) and a Set<Field> method on the pointer type:
//
//	type Widget struct {
//	    ID     *int64 `column:"id"`
//	    Active bool   `column:"active"`
//	}
//
//	func (w *Widget) GetID() *int64   { return w.ID }
//	func (w *Widget) SetID(v *int64)  { w.ID = v }
//	func (w *Widget) IsActive() bool  { return w.Active }
//	func (w *Widget) SetActive(v bool) { w.Active = v }
//
// # Storable types
//
// Columns hold booleans, integers, floats, strings, []byte, time.Time, or any
// type whose pointer implements sql.Scanner and whose value implements
// driver.Valuer (e.g. uuid.UUID). A pointer to one of these is the nullable
// form: a nil pointer is NULL.
package schema
