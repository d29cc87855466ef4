// Package facade holds the error taxonomy shared by every table-facade package.
//
// The facade itself is split the following way:
//
//   - schema: resolves a Go type into an immutable table descriptor and
//     caches it in an explicit Registry.
//   - dialect/sql: renders dialect specific statements, the condition model,
//     the row mapper and the database/sql transport.
//   - table: the typed operations facade (Repo) and table management, with
//     one variant per backend in table/mysql, table/opengauss and table/sqlite.
//   - config: YAML configuration that opens the right variant.
//
// A typical program:
//
//	type Widget struct {
//	    ID   *int64  `column:"id"`
//	    Name *string `column:"name"`
//	}
//
//	func (Widget) TableName() string { return "widget" }
//
//	func (w *Widget) GetID() *int64     { return w.ID }
//	func (w *Widget) SetID(v *int64)    { w.ID = v }
//	func (w *Widget) GetName() *string  { return w.Name }
//	func (w *Widget) SetName(v *string) { w.Name = v }
//
//	client, err := mysql.Open("user:pass@tcp(localhost:3306)/app")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	widgets := table.For[Widget](client)
//	if _, err := widgets.Insert(ctx, &Widget{ID: &id, Name: &name}); err != nil {
//	    log.Fatal(err)
//	}
//	w, err := widgets.Find(ctx, sql.EQ("id", id))
//
// Errors returned by every package can be matched with errors.Is against the
// sentinels declared here (ErrDescriptor, ErrEmptyInsert, ErrOddPairs,
// ErrMapping, ...), or unpacked with errors.As into the typed errors.
package facade
