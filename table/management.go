package table

import (
	"context"

	"github.com/zhiheng123/table-facade/dialect/sql"
)

// ShowTables returns the names of the tables of the current database, or
// of the configured schema.
func (c *Client) ShowTables(ctx context.Context) ([]string, error) {
	var names []string
	err := c.query(ctx, "show tables", "", c.builder.ShowTables(c.schema), func(rows *sql.Rows, _ []string) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return c.fail(ctx, "show tables", "", err)
		}
		names = append(names, name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// ExistsTable reports whether the table exists.
func (c *Client) ExistsTable(ctx context.Context, name string) (bool, error) {
	n, err := c.queryInt64(ctx, "exists table", name, c.builder.ExistsTable(name, c.schema))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DropTable drops the table. It fails if the table does not exist.
func (c *Client) DropTable(ctx context.Context, name string) error {
	_, err := c.exec(ctx, "drop table", name, c.builder.DropTable(name))
	return err
}

// DropTableIfExists drops the table if it exists.
func (c *Client) DropTableIfExists(ctx context.Context, name string) error {
	_, err := c.exec(ctx, "drop table", name, c.builder.DropTableIfExists(name))
	return err
}
