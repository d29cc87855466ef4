// Package dialect defines the transport contract of the table facade and
// the names of the supported backends.
//
// # Supported Dialects
//
//   - MySQL: MySQL family (MySQL, MariaDB, TiDB), backtick quoted identifiers, ? placeholders
//   - OpenGauss: OpenGauss and other Postgres family servers, double quoted identifiers, $n placeholders
//   - SQLite: embedded SQLite, double quoted identifiers, ? placeholders
//
// Postgres is accepted as an alias of the OpenGauss rendering rules.
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Dialect() string
//	    Close() error
//	}
//
// The facade never schedules work on its own: it calls the Driver with the
// caller's context and propagates cancellation or failures unchanged.
//
// # Sub-packages
//
//   - dialect/sql: statement builder, conditions, row mapper and the
//     database/sql backed Driver
//   - dialect/sql/sqlstate: classification of transport errors
package dialect
