// Package table is the operations facade: a Client bound to one backend and
// typed repositories over it.
//
//	client, err := table.NewClient(table.Driver(drv), table.Logger(logger))
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	widgets := table.For[Widget](client)
//	n, err := widgets.Update(ctx, sql.EQ("id", 1), "name", "b")
//	all, err := widgets.FindAll(ctx)
//
// Builder and mapping failures are returned as their typed facade errors.
// Transport failures are wrapped in a *facade.TableError naming the
// operation and the table, with the driver error kept as its cause.
//
// The table/mysql, table/opengauss and table/sqlite packages open a Client
// for their backend with the right driver, dialect and row coercion.
package table
