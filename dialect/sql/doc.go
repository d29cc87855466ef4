// Package sql renders the statements of the table facade and runs them over
// database/sql.
//
// # Dialects
//
// Each backend has a Dialect value holding its quoting and placeholder rules:
//
//	sql.MySQL      // `ident`, ? placeholders
//	sql.OpenGauss  // "ident", $1..$n placeholders
//	sql.SQLite     // "ident", ? placeholders
//
// # Builder
//
// A Builder renders statements from a schema.Descriptor. Values are never
// written into the SQL text, they travel in Statement.Args:
//
//	b := sql.NewBuilder(sql.OpenGauss)
//	stmt, err := b.Update(desc, sql.EQ("id", 1), "name", "b")
//	// UPDATE "widget" SET "name" = $1 WHERE "id" = $2   [b 1]
//
// # Conditions
//
// Conditions implement the Condition interface and render themselves into a
// Where. The package provides comparisons and their combinations:
//
//	sql.EQ("id", 1)                         // "id" = ?
//	sql.And(sql.GE("id", 1), sql.LT("id", 9)) // ("id" >= ? AND "id" < ?)
//	sql.In("id", 1, 2, 3)                   // "id" IN (?, ?, ?)
//	sql.IsNull("name")                      // "name" IS NULL
//	sql.Column[int64]("id").GT(5)           // "id" > ?
//
// # Row mapping
//
// Fetched rows are read into a RawRow with ScanRow and turned into entities
// with Map. A Coercer supplies dialect specific fallbacks, e.g. HexBytes for
// binary data returned as hex text.
//
// # Drivers
//
// Driver implements dialect.Driver over a *sql.DB. StatsDriver and
// DebugDriver wrap any dialect.Driver with statistics and statement logging.
package sql
