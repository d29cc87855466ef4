package table

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"
	"log/slog"

	facade "github.com/zhiheng123/table-facade"
	"github.com/zhiheng123/table-facade/dialect"
	"github.com/zhiheng123/table-facade/dialect/sql"
	"github.com/zhiheng123/table-facade/schema"
)

// config holds the configuration of the client.
type config struct {
	driver   dialect.Driver
	debug    bool
	log      *slog.Logger
	registry *schema.Registry
	coercer  sql.Coercer
	schema   string
}

// Option function to configure the client.
type Option func(*config)

// Driver sets the driver for the client.
func Driver(driver dialect.Driver) Option {
	return func(c *config) {
		c.driver = driver
	}
}

// Debug enables statement logging on the client.
func Debug() Option {
	return func(c *config) {
		c.debug = true
	}
}

// Logger sets the logger of the client. Statements are logged at debug
// level and transport failures at warn level.
func Logger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.log = l
		}
	}
}

// Registry sets the descriptor registry. Clients sharing a registry share
// their resolved descriptors.
func Registry(r *schema.Registry) Option {
	return func(c *config) {
		if r != nil {
			c.registry = r
		}
	}
}

// Coercer sets the fallback used when a fetched value does not convert to
// its column type.
func Coercer(co sql.Coercer) Option {
	return func(c *config) {
		c.coercer = co
	}
}

// Schema scopes the table management catalogue queries to the given
// schema. It is only meaningful for the Postgres family.
func Schema(name string) Option {
	return func(c *config) {
		c.schema = name
	}
}

// Client runs the table facade statements over a driver. It is safe for
// concurrent use.
type Client struct {
	config
	builder *sql.Builder
}

// NewClient creates a new client configured with the given options.
// The Driver option is required.
func NewClient(opts ...Option) (*Client, error) {
	c := config{
		log:     slog.Default(),
		coercer: sql.NoCoercion,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.driver == nil {
		return nil, errors.New("table: missing driver")
	}
	d, err := sql.DialectFor(c.driver.Dialect())
	if err != nil {
		return nil, err
	}
	if c.registry == nil {
		c.registry = schema.NewRegistry(schema.WithLogger(c.log))
	}
	if c.debug {
		c.driver = sql.NewDebugDriver(c.driver, sql.DebugWithLogger(c.log))
	}
	return &Client{config: c, builder: sql.NewBuilder(d)}, nil
}

// Debug returns a new client logging every statement, sharing the driver
// and the registry of c.
func (c *Client) Debug() *Client {
	if c.debug {
		return c
	}
	cfg := c.config
	cfg.debug = true
	cfg.driver = sql.NewDebugDriver(c.driver, sql.DebugWithLogger(c.log))
	return &Client{config: cfg, builder: c.builder}
}

// Dialect returns the dialect statements are rendered for.
func (c *Client) Dialect() sql.Dialect { return c.builder.Dialect() }

// Driver returns the underlying driver.
func (c *Client) Driver() dialect.Driver { return c.driver }

// Registry returns the descriptor registry of the client.
func (c *Client) Registry() *schema.Registry { return c.registry }

// Close closes the database connection and prevents new queries from starting.
func (c *Client) Close() error {
	return c.driver.Close()
}

// exec runs a statement and returns the number of affected rows.
func (c *Client) exec(ctx context.Context, op, table string, stmt sql.Statement) (int64, error) {
	c.log.DebugContext(ctx, "table: exec", "op", op, "table", table, "query", stmt.Query, "args", stmt.Args)
	ctx = sql.WithOperation(ctx, sql.Operation{Name: op, Table: table})
	var res stdsql.Result
	if err := c.driver.Exec(ctx, stmt.Query, stmt.Args, &res); err != nil {
		return 0, c.fail(ctx, op, table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, c.fail(ctx, op, table, err)
	}
	return n, nil
}

// rows runs a statement returning rows. The caller closes the rows.
func (c *Client) rows(ctx context.Context, op, table string, stmt sql.Statement) (*sql.Rows, []string, error) {
	c.log.DebugContext(ctx, "table: query", "op", op, "table", table, "query", stmt.Query, "args", stmt.Args)
	ctx = sql.WithOperation(ctx, sql.Operation{Name: op, Table: table})
	rows := &sql.Rows{}
	if err := c.driver.Query(ctx, stmt.Query, stmt.Args, rows); err != nil {
		return nil, nil, c.fail(ctx, op, table, err)
	}
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, nil, c.fail(ctx, op, table, err)
	}
	return rows, columns, nil
}

// query runs a statement returning rows and calls scan for each of them.
func (c *Client) query(ctx context.Context, op, table string, stmt sql.Statement, scan func(rows *sql.Rows, columns []string) error) error {
	rows, columns, err := c.rows(ctx, op, table, stmt)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows, columns); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return c.fail(ctx, op, table, err)
	}
	return nil
}

// columns runs a statement and returns the names of its result columns.
func (c *Client) columns(ctx context.Context, op, table string, stmt sql.Statement) ([]string, error) {
	rows, columns, err := c.rows(ctx, op, table, stmt)
	if err != nil {
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, c.fail(ctx, op, table, err)
	}
	return columns, nil
}

// queryInt64 runs a statement returning a single integer.
func (c *Client) queryInt64(ctx context.Context, op, table string, stmt sql.Statement) (int64, error) {
	var (
		n    int64
		seen bool
	)
	err := c.query(ctx, op, table, stmt, func(rows *sql.Rows, _ []string) error {
		if err := rows.Scan(&n); err != nil {
			return c.fail(ctx, op, table, err)
		}
		seen = true
		return nil
	})
	if err != nil {
		return 0, err
	}
	if !seen {
		return 0, c.fail(ctx, op, table, fmt.Errorf("no row returned by %q", stmt.Query))
	}
	return n, nil
}

// fail logs a transport failure and wraps it with the failed operation.
func (c *Client) fail(ctx context.Context, op, table string, err error) error {
	c.log.WarnContext(ctx, "table: operation failed", "op", op, "table", table, "error", err)
	return facade.NewTableError(op+" failed", table, err)
}
