package sql

import (
	"errors"
	"fmt"
)

// Condition is a WHERE clause fragment. Implementations write column names
// through Where.Column and values through Where.Arg only, so values are
// always bound.
type Condition interface {
	Render(w *Where) error
}

// Op is a comparison operator.
type Op int

// Comparison operators.
const (
	OpEQ Op = iota // =
	OpNE           // !=
	OpLT           // <
	OpLE           // <=
	OpGT           // >
	OpGE           // >=
)

var ops = [...]string{
	OpEQ: "=",
	OpNE: "!=",
	OpLT: "<",
	OpLE: "<=",
	OpGT: ">",
	OpGE: ">=",
}

// String returns the SQL symbol of the operator.
func (o Op) String() string {
	if o < 0 || int(o) >= len(ops) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return ops[o]
}

// Comparison compares a column with a bound value.
type Comparison struct {
	Column string
	Op     Op
	Value  any
}

// Render implements Condition.
func (c Comparison) Render(w *Where) error {
	if c.Op < 0 || int(c.Op) >= len(ops) {
		return fmt.Errorf("dialect/sql: invalid operator %s on column %q", c.Op, c.Column)
	}
	if err := w.Column(c.Column); err != nil {
		return err
	}
	w.WriteString(" " + c.Op.String() + " ")
	w.Arg(c.Value)
	return nil
}

// EQ returns a "column = value" condition.
func EQ(col string, v any) Condition { return Comparison{Column: col, Op: OpEQ, Value: v} }

// NE returns a "column != value" condition.
func NE(col string, v any) Condition { return Comparison{Column: col, Op: OpNE, Value: v} }

// LT returns a "column < value" condition.
func LT(col string, v any) Condition { return Comparison{Column: col, Op: OpLT, Value: v} }

// LE returns a "column <= value" condition.
func LE(col string, v any) Condition { return Comparison{Column: col, Op: OpLE, Value: v} }

// GT returns a "column > value" condition.
func GT(col string, v any) Condition { return Comparison{Column: col, Op: OpGT, Value: v} }

// GE returns a "column >= value" condition.
func GE(col string, v any) Condition { return Comparison{Column: col, Op: OpGE, Value: v} }

// junction joins conditions with AND or OR.
type junction struct {
	op    string
	conds []Condition
}

// And returns a condition matching rows that satisfy every cond.
func And(conds ...Condition) Condition { return junction{op: "AND", conds: conds} }

// Or returns a condition matching rows that satisfy any cond.
func Or(conds ...Condition) Condition { return junction{op: "OR", conds: conds} }

// Render implements Condition.
func (j junction) Render(w *Where) error {
	switch len(j.conds) {
	case 0:
		return fmt.Errorf("dialect/sql: empty %s condition", j.op)
	case 1:
		return render(w, j.conds[0])
	}
	w.WriteString("(")
	for i, c := range j.conds {
		if i > 0 {
			w.WriteString(" " + j.op + " ")
		}
		if err := render(w, c); err != nil {
			return err
		}
	}
	w.WriteString(")")
	return nil
}

func render(w *Where, c Condition) error {
	if c == nil {
		return errors.New("dialect/sql: nil condition")
	}
	return c.Render(w)
}

type in struct {
	column string
	values []any
}

// In returns a "column IN (values...)" condition.
func In(col string, vs ...any) Condition { return in{column: col, values: vs} }

// Render implements Condition.
func (c in) Render(w *Where) error {
	if len(c.values) == 0 {
		return fmt.Errorf("dialect/sql: IN on column %q requires at least one value", c.column)
	}
	if err := w.Column(c.column); err != nil {
		return err
	}
	w.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			w.WriteString(", ")
		}
		w.Arg(v)
	}
	w.WriteString(")")
	return nil
}

type null struct {
	column string
	not    bool
}

// IsNull returns a "column IS NULL" condition.
func IsNull(col string) Condition { return null{column: col} }

// NotNull returns a "column IS NOT NULL" condition.
func NotNull(col string) Condition { return null{column: col, not: true} }

// Render implements Condition.
func (c null) Render(w *Where) error {
	if err := w.Column(c.column); err != nil {
		return err
	}
	if c.not {
		w.WriteString(" IS NOT NULL")
	} else {
		w.WriteString(" IS NULL")
	}
	return nil
}

// TypedColumn is a column name carrying the Go type of its values, giving
// type-checked condition constructors.
//
//	var WidgetID = sql.Column[int64]("id")
//	widgets.Find(ctx, WidgetID.EQ(1))
type TypedColumn[V any] string

// Column returns the typed column name.
func Column[V any](name string) TypedColumn[V] { return TypedColumn[V](name) }

// Name returns the column name.
func (c TypedColumn[V]) Name() string { return string(c) }

// EQ returns a predicate that checks if the column equals v.
func (c TypedColumn[V]) EQ(v V) Condition { return EQ(string(c), v) }

// NE returns a predicate that checks if the column does not equal v.
func (c TypedColumn[V]) NE(v V) Condition { return NE(string(c), v) }

// LT returns a predicate that checks if the column is less than v.
func (c TypedColumn[V]) LT(v V) Condition { return LT(string(c), v) }

// LE returns a predicate that checks if the column is less than or equal to v.
func (c TypedColumn[V]) LE(v V) Condition { return LE(string(c), v) }

// GT returns a predicate that checks if the column is greater than v.
func (c TypedColumn[V]) GT(v V) Condition { return GT(string(c), v) }

// GE returns a predicate that checks if the column is greater than or equal to v.
func (c TypedColumn[V]) GE(v V) Condition { return GE(string(c), v) }

// In returns a predicate that checks if the column value is in vs.
func (c TypedColumn[V]) In(vs ...V) Condition {
	args := make([]any, len(vs))
	for i, v := range vs {
		args[i] = v
	}
	return In(string(c), args...)
}

// IsNull returns a predicate that checks if the column is NULL.
func (c TypedColumn[V]) IsNull() Condition { return IsNull(string(c)) }

// NotNull returns a predicate that checks if the column is not NULL.
func (c TypedColumn[V]) NotNull() Condition { return NotNull(string(c)) }
