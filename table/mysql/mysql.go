// Package mysql opens table clients on MySQL compatible servers.
package mysql

import (
	stdsql "database/sql"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/zhiheng123/table-facade/dialect"
	"github.com/zhiheng123/table-facade/dialect/sql"
	"github.com/zhiheng123/table-facade/table"
)

// ParseConfig parses a go-sql-driver/mysql data source name. Time parsing
// is always enabled so DATE and DATETIME columns map to time.Time.
func ParseConfig(dsn string) (*gomysql.Config, error) {
	cfg, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("table/mysql: parse dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg, nil
}

// OpenDriver returns a MySQL driver for the data source name. No connection
// is made until the first statement.
func OpenDriver(dsn string) (*sql.Driver, error) {
	cfg, err := ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	conn, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("table/mysql: connector: %w", err)
	}
	return sql.OpenDB(dialect.MySQL, stdsql.OpenDB(conn)), nil
}

// Open returns a client on the MySQL database described by dsn.
//
//	client, err := mysql.Open("user:pass@tcp(localhost:3306)/app", table.Debug())
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
