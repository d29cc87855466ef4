// Package sqlite opens table clients on an embedded SQLite database, using
// the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"strings"

	_ "modernc.org/sqlite"

	"github.com/zhiheng123/table-facade/dialect"
	"github.com/zhiheng123/table-facade/dialect/sql"
	"github.com/zhiheng123/table-facade/table"
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

// OpenDriver returns a driver on the database file (or URI) dsn. An
// in-memory database is limited to one connection, as each connection
// would otherwise see its own database.
func OpenDriver(dsn string) (*sql.Driver, error) {
	drv, err := sql.Open(dialect.SQLite, DriverName, dsn)
	if err != nil {
		return nil, err
	}
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		drv.DB().SetMaxOpenConns(1)
	}
	return drv, nil
}

// Open returns a client on the SQLite database dsn.
//
//	client, err := sqlite.Open("file:app.db?_pragma=foreign_keys(1)")
func Open(dsn string, opts ...table.Option) (*table.Client, error) {
	drv, err := OpenDriver(dsn)
	if err != nil {
		return nil, err
	}
	client, err := table.NewClient(append([]table.Option{table.Driver(drv)}, opts...)...)
	if err != nil {
		drv.Close()
		return nil, err
	}
	return client, nil
}
