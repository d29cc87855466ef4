package table

import (
	"context"

	facade "github.com/zhiheng123/table-facade"
	"github.com/zhiheng123/table-facade/dialect/sql"
	"github.com/zhiheng123/table-facade/schema"
)

// Repo runs the typed operations of the entity type T on a Client.
// T must declare its table and columns as described in package schema.
type Repo[T any] struct {
	client *Client
}

// For returns the repository of T on c.
//
//	widgets := table.For[Widget](client)
//	n, err := widgets.Insert(ctx, &Widget{ID: &id, Name: &name})
func For[T any](c *Client) *Repo[T] {
	return &Repo[T]{client: c}
}

// Descriptor resolves the table descriptor of T.
func (r *Repo[T]) Descriptor() (*schema.Descriptor, error) {
	return schema.Resolve[T](r.client.registry)
}

// Insert inserts the non-null columns of e and returns the number of
// inserted rows.
func (r *Repo[T]) Insert(ctx context.Context, e *T) (int64, error) {
	desc, err := r.Descriptor()
	if err != nil {
		return 0, err
	}
	stmt, err := r.client.builder.Insert(desc, e)
	if err != nil {
		return 0, err
	}
	return r.client.exec(ctx, "insert", desc.Table(), stmt)
}

// InsertOnDuplicateKeyUpdate inserts e, or updates the given alternating
// column/value pairs when the row already exists.
func (r *Repo[T]) InsertOnDuplicateKeyUpdate(ctx context.Context, e *T, pairs ...any) (int64, error) {
	desc, err := r.Descriptor()
	if err != nil {
		return 0, err
	}
	stmt, err := r.client.builder.Upsert(desc, e, pairs...)
	if err != nil {
		return 0, err
	}
	return r.client.exec(ctx, "upsert", desc.Table(), stmt)
}

// Find returns the single row matching cond. It returns a NotFoundError if
// no row matches, and a NotSingularError if more than one does.
func (r *Repo[T]) Find(ctx context.Context, cond sql.Condition) (*T, error) {
	desc, err := r.Descriptor()
	if err != nil {
		return nil, err
	}
	es, err := r.find(ctx, desc, cond)
	if err != nil {
		return nil, err
	}
	switch len(es) {
	case 1:
		return es[0], nil
	case 0:
		return nil, facade.NewNotFoundError(desc.Table())
	default:
		return nil, facade.NewNotSingularError(desc.Table(), len(es))
	}
}

// FindAll returns every row of the table. On a MappingError, the rows
// mapped before the failing one are returned along with the error.
func (r *Repo[T]) FindAll(ctx context.Context) ([]*T, error) {
	return r.FindWhere(ctx, nil)
}

// FindWhere returns the rows matching cond, or every row if cond is nil.
func (r *Repo[T]) FindWhere(ctx context.Context, cond sql.Condition) ([]*T, error) {
	desc, err := r.Descriptor()
	if err != nil {
		return nil, err
	}
	return r.find(ctx, desc, cond)
}

func (r *Repo[T]) find(ctx context.Context, desc *schema.Descriptor, cond sql.Condition) ([]*T, error) {
	stmt, err := r.client.builder.Select(desc, cond)
	if err != nil {
		return nil, err
	}
	var es []*T
	err = r.client.query(ctx, "find", desc.Table(), stmt, func(rows *sql.Rows, columns []string) error {
		row, err := sql.ScanRow(rows, columns)
		if err != nil {
			return r.client.fail(ctx, "find", desc.Table(), err)
		}
		e, err := sql.Map[T](row, desc, r.client.coercer)
		if err != nil {
			return err
		}
		es = append(es, e)
		return nil
	})
	return es, err
}

// Update sets the alternating column/value pairs on the rows matching cond
// and returns the number of affected rows. A nil cond is rejected.
func (r *Repo[T]) Update(ctx context.Context, cond sql.Condition, pairs ...any) (int64, error) {
	desc, err := r.Descriptor()
	if err != nil {
		return 0, err
	}
	stmt, err := r.client.builder.Update(desc, cond, pairs...)
	if err != nil {
		return 0, err
	}
	return r.client.exec(ctx, "update", desc.Table(), stmt)
}

// Delete deletes the rows matching cond and returns their number. A nil
// cond is rejected, use DeleteAll to empty the table.
func (r *Repo[T]) Delete(ctx context.Context, cond sql.Condition) (int64, error) {
	desc, err := r.Descriptor()
	if err != nil {
		return 0, err
	}
	stmt, err := r.client.builder.Delete(desc, cond)
	if err != nil {
		return 0, err
	}
	return r.client.exec(ctx, "delete", desc.Table(), stmt)
}

// DeleteAll deletes every row and returns their number.
func (r *Repo[T]) DeleteAll(ctx context.Context) (int64, error) {
	desc, err := r.Descriptor()
	if err != nil {
		return 0, err
	}
	return r.client.exec(ctx, "delete all", desc.Table(), r.client.builder.DeleteAll(desc))
}

// Count returns the number of rows of the table.
func (r *Repo[T]) Count(ctx context.Context) (int64, error) {
	return r.CountWhere(ctx, nil)
}

// CountWhere returns the number of rows matching cond.
func (r *Repo[T]) CountWhere(ctx context.Context, cond sql.Condition) (int64, error) {
	desc, err := r.Descriptor()
	if err != nil {
		return 0, err
	}
	stmt, err := r.client.builder.Count(desc, cond)
	if err != nil {
		return 0, err
	}
	return r.client.queryInt64(ctx, "count", desc.Table(), stmt)
}
