package sql

import (
	"fmt"
	"strconv"
	"strings"

	facade "github.com/zhiheng123/table-facade"
	"github.com/zhiheng123/table-facade/dialect"
	"github.com/zhiheng123/table-facade/schema"
)

// Dialect holds the rendering rules of one backend.
type Dialect struct {
	name     string
	quote    string
	numbered bool   // $1..$n placeholders instead of ?
	upsert   string // clause introducing the update list of an upsert
}

// Supported dialects.
var (
	MySQL     = Dialect{name: dialect.MySQL, quote: "`", upsert: "ON DUPLICATE KEY UPDATE"}
	OpenGauss = Dialect{name: dialect.OpenGauss, quote: `"`, numbered: true, upsert: "ON DUPLICATE KEY UPDATE"}
	Postgres  = Dialect{name: dialect.Postgres, quote: `"`, numbered: true}
	SQLite    = Dialect{name: dialect.SQLite, quote: `"`, upsert: "ON CONFLICT DO UPDATE SET"}
)

// DialectFor returns the dialect registered under name.
func DialectFor(name string) (Dialect, error) {
	switch name {
	case dialect.MySQL:
		return MySQL, nil
	case dialect.OpenGauss:
		return OpenGauss, nil
	case dialect.Postgres:
		return Postgres, nil
	case dialect.SQLite:
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("dialect/sql: unsupported dialect %q", name)
	}
}

// Name returns the dialect name.
func (d Dialect) Name() string { return d.name }

// Quote wraps an identifier in the dialect quote character. The identifier
// is not otherwise escaped.
func (d Dialect) Quote(ident string) string {
	return d.quote + ident + d.quote
}

// Placeholder returns the placeholder of the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Statement is a rendered SQL statement and its ordered arguments.
type Statement struct {
	Query string
	Args  []any
}

// Where accumulates SQL text and bound arguments while a statement is
// rendered. Conditions write themselves into it.
type Where struct {
	sb      strings.Builder
	args    []any
	dialect Dialect
	desc    *schema.Descriptor
}

func newWhere(d Dialect, desc *schema.Descriptor) *Where {
	return &Where{dialect: d, desc: desc}
}

// Dialect returns the dialect being rendered.
func (w *Where) Dialect() Dialect { return w.dialect }

// WriteString appends raw SQL text.
func (w *Where) WriteString(s string) {
	w.sb.WriteString(s)
}

// Column writes the quoted name of a mapped column. It fails with an
// UnknownColumnError if the descriptor does not map the column.
func (w *Where) Column(name string) error {
	if w.desc != nil {
		if _, ok := w.desc.Lookup(name); !ok {
			return &facade.UnknownColumnError{Table: w.desc.Table(), Column: name}
		}
	}
	w.Ident(name)
	return nil
}

// Ident writes a quoted identifier.
func (w *Where) Ident(name string) {
	w.sb.WriteString(w.dialect.Quote(name))
}

// Arg binds v and writes its placeholder.
func (w *Where) Arg(v any) {
	w.args = append(w.args, v)
	w.sb.WriteString(w.dialect.Placeholder(len(w.args)))
}

func (w *Where) statement() Statement {
	return Statement{Query: w.sb.String(), Args: w.args}
}

// Builder renders the statements of the table facade for one dialect.
// It is stateless and safe for concurrent use.
type Builder struct {
	dialect Dialect
}

// NewBuilder returns a Builder for d.
func NewBuilder(d Dialect) *Builder {
	return &Builder{dialect: d}
}

// Dialect returns the builder dialect.
func (b *Builder) Dialect() Dialect { return b.dialect }

// Insert renders an INSERT of the non-null columns of entity, a pointer to
// the described type, in descriptor order.
func (b *Builder) Insert(desc *schema.Descriptor, entity any) (Statement, error) {
	w := newWhere(b.dialect, desc)
	if err := b.insert(w, desc, entity); err != nil {
		return Statement{}, err
	}
	return w.statement(), nil
}

func (b *Builder) insert(w *Where, desc *schema.Descriptor, entity any) error {
	var (
		columns []string
		values  []any
	)
	for _, c := range desc.Columns() {
		if v, ok := c.Value(entity); ok {
			columns = append(columns, c.Name())
			values = append(values, v)
		}
	}
	if len(columns) == 0 {
		return &facade.EmptyInsertError{Table: desc.Table()}
	}
	w.WriteString("INSERT INTO ")
	w.Ident(desc.Table())
	w.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			w.WriteString(", ")
		}
		w.Ident(c)
	}
	w.WriteString(") VALUES (")
	for i, v := range values {
		if i > 0 {
			w.WriteString(", ")
		}
		w.Arg(v)
	}
	w.WriteString(")")
	return nil
}

// Upsert renders an INSERT of entity that updates the given column/value
// pairs when the row already exists. Insert values are bound first, then
// pair values.
func (b *Builder) Upsert(desc *schema.Descriptor, entity any, pairs ...any) (Statement, error) {
	if b.dialect.upsert == "" {
		return Statement{}, fmt.Errorf("dialect/sql: upsert is not supported by %s", b.dialect.name)
	}
	set, err := parsePairs(desc, pairs)
	if err != nil {
		return Statement{}, err
	}
	w := newWhere(b.dialect, desc)
	if err := b.insert(w, desc, entity); err != nil {
		return Statement{}, err
	}
	w.WriteString(" " + b.dialect.upsert + " ")
	writeSet(w, set)
	return w.statement(), nil
}

// Select renders a SELECT of every mapped column, filtered by cond if not nil.
func (b *Builder) Select(desc *schema.Descriptor, cond Condition) (Statement, error) {
	w := newWhere(b.dialect, desc)
	w.WriteString("SELECT ")
	for i, name := range desc.ColumnNames() {
		if i > 0 {
			w.WriteString(", ")
		}
		w.Ident(name)
	}
	w.WriteString(" FROM ")
	w.Ident(desc.Table())
	if err := writeWhere(w, cond); err != nil {
		return Statement{}, err
	}
	return w.statement(), nil
}

// Count renders a SELECT COUNT(*), filtered by cond if not nil.
func (b *Builder) Count(desc *schema.Descriptor, cond Condition) (Statement, error) {
	w := newWhere(b.dialect, desc)
	w.WriteString("SELECT COUNT(*) FROM ")
	w.Ident(desc.Table())
	if err := writeWhere(w, cond); err != nil {
		return Statement{}, err
	}
	return w.statement(), nil
}

// Update renders an UPDATE setting the alternating column/value pairs on
// the rows matching cond. SET values are bound in pair order, followed by
// the condition values.
func (b *Builder) Update(desc *schema.Descriptor, cond Condition, pairs ...any) (Statement, error) {
	set, err := parsePairs(desc, pairs)
	if err != nil {
		return Statement{}, err
	}
	if cond == nil {
		return Statement{}, fmt.Errorf("%w: update %s", facade.ErrMissingCondition, desc.Table())
	}
	w := newWhere(b.dialect, desc)
	w.WriteString("UPDATE ")
	w.Ident(desc.Table())
	w.WriteString(" SET ")
	writeSet(w, set)
	if err := writeWhere(w, cond); err != nil {
		return Statement{}, err
	}
	return w.statement(), nil
}

// Delete renders a DELETE of the rows matching cond.
func (b *Builder) Delete(desc *schema.Descriptor, cond Condition) (Statement, error) {
	if cond == nil {
		return Statement{}, fmt.Errorf("%w: delete %s", facade.ErrMissingCondition, desc.Table())
	}
	w := newWhere(b.dialect, desc)
	w.WriteString("DELETE FROM ")
	w.Ident(desc.Table())
	if err := writeWhere(w, cond); err != nil {
		return Statement{}, err
	}
	return w.statement(), nil
}

// DeleteAll renders a DELETE of every row.
func (b *Builder) DeleteAll(desc *schema.Descriptor) Statement {
	w := newWhere(b.dialect, desc)
	w.WriteString("DELETE FROM ")
	w.Ident(desc.Table())
	return w.statement()
}

// Probe renders a SELECT returning no row, used to read the column names
// of the live table.
func (b *Builder) Probe(desc *schema.Descriptor) Statement {
	return Statement{Query: "SELECT * FROM " + b.dialect.Quote(desc.Table()) + " WHERE 1 = 0"}
}

// DropTable renders a DROP TABLE.
func (b *Builder) DropTable(name string) Statement {
	return Statement{Query: "DROP TABLE " + b.dialect.Quote(name)}
}

// DropTableIfExists renders a DROP TABLE IF EXISTS.
func (b *Builder) DropTableIfExists(name string) Statement {
	return Statement{Query: "DROP TABLE IF EXISTS " + b.dialect.Quote(name)}
}

// ExistsTable renders a catalogue query returning a single row with a
// count or boolean that is non-zero when the table exists. The table name
// is bound as a value. For the Postgres family, a non-empty schema limits
// the lookup to that schema.
func (b *Builder) ExistsTable(name, schema string) Statement {
	switch b.dialect.name {
	case dialect.MySQL:
		return Statement{
			Query: "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?",
			Args:  []any{name},
		}
	case dialect.SQLite:
		return Statement{
			Query: "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?",
			Args:  []any{name},
		}
	default:
		if schema == "" {
			return Statement{
				Query: "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1",
				Args:  []any{name},
			}
		}
		return Statement{
			Query: "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2",
			Args:  []any{schema, name},
		}
	}
}

// ShowTables renders a catalogue query listing the table names of the
// current database (or schema), one per row.
func (b *Builder) ShowTables(schema string) Statement {
	switch b.dialect.name {
	case dialect.MySQL:
		return Statement{Query: "SHOW TABLES"}
	case dialect.SQLite:
		return Statement{Query: "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"}
	default:
		if schema == "" {
			return Statement{Query: "SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema() AND table_type = 'BASE TABLE' ORDER BY table_name"}
		}
		return Statement{
			Query: "SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = 'BASE TABLE' ORDER BY table_name",
			Args:  []any{schema},
		}
	}
}

type pair struct {
	column string
	value  any
}

// parsePairs validates an alternating column/value list against desc.
func parsePairs(desc *schema.Descriptor, pairs []any) ([]pair, error) {
	if len(pairs)%2 != 0 {
		return nil, &facade.OddPairsError{Count: len(pairs)}
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("dialect/sql: no column to set on %s", desc.Table())
	}
	set := make([]pair, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dialect/sql: pair key at position %d must be a column name, got %T", i, pairs[i])
		}
		if _, ok := desc.Lookup(name); !ok {
			return nil, &facade.UnknownColumnError{Table: desc.Table(), Column: name}
		}
		set = append(set, pair{column: name, value: pairs[i+1]})
	}
	return set, nil
}

func writeSet(w *Where, set []pair) {
	for i, p := range set {
		if i > 0 {
			w.WriteString(", ")
		}
		w.Ident(p.column)
		w.WriteString(" = ")
		w.Arg(p.value)
	}
}

func writeWhere(w *Where, cond Condition) error {
	if cond == nil {
		return nil
	}
	w.WriteString(" WHERE ")
	return cond.Render(w)
}
