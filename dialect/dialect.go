package dialect

import (
	"context"
)

// Dialect names for the supported backends.
const (
	MySQL     = "mysql"
	OpenGauss = "opengauss"
	Postgres  = "postgres"
	SQLite    = "sqlite"
)

// ExecQuerier wraps the two operations every transport offers.
//
// Exec runs a statement that returns no rows; v is nil or a *sql.Result
// that receives the driver result (rows affected). Query runs a statement
// returning rows; v is a *sql.Rows.
type ExecQuerier interface {
	Exec(ctx context.Context, query string, args, v any) error
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the transport used by the table facade. It owns connection
// acquisition, release and any retry policy.
type Driver interface {
	ExecQuerier
	// Dialect returns the dialect name of the backend.
	Dialect() string
	// Close releases the underlying connections.
	Close() error
}

// IsPostgresFamily reports whether the dialect speaks the Postgres wire
// protocol and placeholder style.
func IsPostgresFamily(name string) bool {
	return name == OpenGauss || name == Postgres
}
