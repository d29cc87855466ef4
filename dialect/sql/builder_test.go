package sql_test

import (
	"strings"
	"testing"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	facade "github.com/zhiheng123/table-facade"
	"github.com/zhiheng123/table-facade/dialect/sql"
	"github.com/zhiheng123/table-facade/schema"
)

type Widget struct {
	ID   *int64  `column:"id"`
	Name *string `column:"name"`
}

func (Widget) TableName() string { return "widget" }

func (w *Widget) GetID() *int64     { return w.ID }
func (w *Widget) SetID(v *int64)    { w.ID = v }
func (w *Widget) GetName() *string  { return w.Name }
func (w *Widget) SetName(v *string) { w.Name = v }

func ptr[T any](v T) *T { return &v }

func widgetDesc(t testing.TB) *schema.Descriptor {
	t.Helper()
	desc, err := schema.Resolve[Widget](schema.NewRegistry())
	require.NoError(t, err)
	return desc
}

func TestDialectFor(t *testing.T) {
	for _, name := range []string{"mysql", "opengauss", "postgres", "sqlite"} {
		d, err := sql.DialectFor(name)
		require.NoError(t, err)
		assert.Equal(t, name, d.Name())
	}
	_, err := sql.DialectFor("oracle")
	require.EqualError(t, err, `dialect/sql: unsupported dialect "oracle"`)

	assert.Equal(t, "`a`", sql.MySQL.Quote("a"))
	assert.Equal(t, `"a"`, sql.OpenGauss.Quote("a"))
	assert.Equal(t, "?", sql.MySQL.Placeholder(3))
	assert.Equal(t, "$3", sql.OpenGauss.Placeholder(3))
	assert.Equal(t, "?", sql.SQLite.Placeholder(1))
}

func TestWidgetExample(t *testing.T) {
	desc := widgetDesc(t)
	w := &Widget{ID: ptr(int64(1)), Name: ptr("a")}
	tests := []struct {
		dialect sql.Dialect
		insert  string
		find    string
	}{
		{
			dialect: sql.MySQL,
			insert:  "INSERT INTO `widget` (`id`, `name`) VALUES (?, ?)",
			find:    "SELECT `id`, `name` FROM `widget` WHERE `id` = ?",
		},
		{
			dialect: sql.OpenGauss,
			insert:  `INSERT INTO "widget" ("id", "name") VALUES ($1, $2)`,
			find:    `SELECT "id", "name" FROM "widget" WHERE "id" = $1`,
		},
		{
			dialect: sql.SQLite,
			insert:  `INSERT INTO "widget" ("id", "name") VALUES (?, ?)`,
			find:    `SELECT "id", "name" FROM "widget" WHERE "id" = ?`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.dialect.Name(), func(t *testing.T) {
			b := sql.NewBuilder(tt.dialect)
			stmt, err := b.Insert(desc, w)
			require.NoError(t, err)
			assert.Equal(t, tt.insert, stmt.Query)
			assert.Equal(t, []any{int64(1), "a"}, stmt.Args)

			stmt, err = b.Select(desc, sql.EQ("id", 1))
			require.NoError(t, err)
			assert.Equal(t, tt.find, stmt.Query)
			assert.Equal(t, []any{1}, stmt.Args)
		})
	}
}

func TestInsert(t *testing.T) {
	desc := widgetDesc(t)
	b := sql.NewBuilder(sql.MySQL)

	t.Run("SkipsNull", func(t *testing.T) {
		stmt, err := b.Insert(desc, &Widget{Name: ptr("a")})
		require.NoError(t, err)
		assert.Equal(t, "INSERT INTO `widget` (`name`) VALUES (?)", stmt.Query)
		assert.Equal(t, []any{"a"}, stmt.Args)
	})

	t.Run("AllNull", func(t *testing.T) {
		_, err := b.Insert(desc, &Widget{})
		require.ErrorIs(t, err, facade.ErrEmptyInsert)
		assert.EqualError(t, err, "facade: cannot insert into widget an object with all fields as null")
	})
}

func TestUpsert(t *testing.T) {
	desc := widgetDesc(t)
	w := &Widget{ID: ptr(int64(1)), Name: ptr("a")}
	tests := []struct {
		dialect sql.Dialect
		query   string
	}{
		{sql.MySQL, "INSERT INTO `widget` (`id`, `name`) VALUES (?, ?) ON DUPLICATE KEY UPDATE `name` = ?"},
		{sql.OpenGauss, `INSERT INTO "widget" ("id", "name") VALUES ($1, $2) ON DUPLICATE KEY UPDATE "name" = $3`},
		{sql.SQLite, `INSERT INTO "widget" ("id", "name") VALUES (?, ?) ON CONFLICT DO UPDATE SET "name" = ?`},
	}
	for _, tt := range tests {
		t.Run(tt.dialect.Name(), func(t *testing.T) {
			stmt, err := sql.NewBuilder(tt.dialect).Upsert(desc, w, "name", "b")
			require.NoError(t, err)
			assert.Equal(t, tt.query, stmt.Query)
			assert.Equal(t, []any{int64(1), "a", "b"}, stmt.Args)
		})
	}

	_, err := sql.NewBuilder(sql.Postgres).Upsert(desc, w, "name", "b")
	require.EqualError(t, err, "dialect/sql: upsert is not supported by postgres")

	_, err = sql.NewBuilder(sql.MySQL).Upsert(desc, w, "name")
	require.ErrorIs(t, err, facade.ErrOddPairs)
}

func TestUpdate(t *testing.T) {
	desc := widgetDesc(t)

	t.Run("NumbersSetThenWhere", func(t *testing.T) {
		stmt, err := sql.NewBuilder(sql.OpenGauss).Update(desc, sql.EQ("id", 1), "name", "b", "id", 2)
		require.NoError(t, err)
		assert.Equal(t, `UPDATE "widget" SET "name" = $1, "id" = $2 WHERE "id" = $3`, stmt.Query)
		assert.Equal(t, []any{"b", 2, 1}, stmt.Args)
	})

	t.Run("SetCount", func(t *testing.T) {
		for n := 1; n <= 4; n++ {
			pairs := make([]any, 0, 2*n)
			for i := range n {
				pairs = append(pairs, "name", i)
			}
			stmt, err := sql.NewBuilder(sql.MySQL).Update(desc, sql.GT("id", 0), pairs...)
			require.NoError(t, err)
			set := stmt.Query[strings.Index(stmt.Query, " SET ")+5 : strings.Index(stmt.Query, " WHERE ")]
			assert.Len(t, strings.Split(set, ", "), n)
			assert.Len(t, stmt.Args, n+1)
			assert.Equal(t, 0, stmt.Args[n])
		}
	})

	t.Run("OddPairs", func(t *testing.T) {
		for _, pairs := range [][]any{{"name"}, {"name", "a", "id"}} {
			_, err := sql.NewBuilder(sql.MySQL).Update(desc, sql.EQ("id", 1), pairs...)
			var oe *facade.OddPairsError
			require.ErrorAs(t, err, &oe)
			assert.Equal(t, len(pairs), oe.Count)
		}
		_, err := sql.NewBuilder(sql.MySQL).Update(desc, nil, "name")
		require.ErrorIs(t, err, facade.ErrOddPairs, "odd pairs are reported before the missing condition")
	})

	t.Run("BadPairs", func(t *testing.T) {
		_, err := sql.NewBuilder(sql.MySQL).Update(desc, sql.EQ("id", 1))
		require.EqualError(t, err, "dialect/sql: no column to set on widget")

		_, err = sql.NewBuilder(sql.MySQL).Update(desc, sql.EQ("id", 1), 1, "a")
		require.EqualError(t, err, "dialect/sql: pair key at position 0 must be a column name, got int")

		_, err = sql.NewBuilder(sql.MySQL).Update(desc, sql.EQ("id", 1), "color", "red")
		require.ErrorIs(t, err, facade.ErrUnknownColumn)
	})

	t.Run("MissingCondition", func(t *testing.T) {
		_, err := sql.NewBuilder(sql.MySQL).Update(desc, nil, "name", "a")
		require.ErrorIs(t, err, facade.ErrMissingCondition)
	})
}

func TestDelete(t *testing.T) {
	desc := widgetDesc(t)
	b := sql.NewBuilder(sql.OpenGauss)

	stmt, err := b.Delete(desc, sql.And(sql.GE("id", 1), sql.LT("id", 10)))
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "widget" WHERE ("id" >= $1 AND "id" < $2)`, stmt.Query)
	assert.Equal(t, []any{1, 10}, stmt.Args)

	_, err = b.Delete(desc, nil)
	require.ErrorIs(t, err, facade.ErrMissingCondition)

	stmt = b.DeleteAll(desc)
	assert.Equal(t, `DELETE FROM "widget"`, stmt.Query)
	assert.Empty(t, stmt.Args)
}

func TestSelectAndCount(t *testing.T) {
	desc := widgetDesc(t)
	b := sql.NewBuilder(sql.SQLite)

	stmt, err := b.Select(desc, nil)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id", "name" FROM "widget"`, stmt.Query)
	assert.Empty(t, stmt.Args)

	stmt, err = b.Count(desc, nil)
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM "widget"`, stmt.Query)

	stmt, err = b.Count(desc, sql.NotNull("name"))
	require.NoError(t, err)
	assert.Equal(t, `SELECT COUNT(*) FROM "widget" WHERE "name" IS NOT NULL`, stmt.Query)

	_, err = b.Select(desc, sql.EQ("color", "red"))
	var ue *facade.UnknownColumnError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "color", ue.Column)
}

func TestTableStatements(t *testing.T) {
	mysql := sql.NewBuilder(sql.MySQL)
	og := sql.NewBuilder(sql.OpenGauss)
	lite := sql.NewBuilder(sql.SQLite)

	assert.Equal(t, "DROP TABLE `widget`", mysql.DropTable("widget").Query)
	assert.Equal(t, `DROP TABLE IF EXISTS "widget"`, og.DropTableIfExists("widget").Query)
	assert.Empty(t, og.DropTable("widget").Args)

	stmt := mysql.ExistsTable("widget", "")
	assert.Equal(t, "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?", stmt.Query)
	assert.Equal(t, []any{"widget"}, stmt.Args)

	stmt = og.ExistsTable("widget", "app")
	assert.Equal(t, "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = $1 AND table_name = $2", stmt.Query)
	assert.Equal(t, []any{"app", "widget"}, stmt.Args)

	stmt = og.ExistsTable("widget", "")
	assert.Equal(t, []any{"widget"}, stmt.Args)
	assert.Contains(t, stmt.Query, "current_schema()")

	stmt = lite.ExistsTable("widget", "ignored")
	assert.Equal(t, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", stmt.Query)

	assert.Equal(t, "SHOW TABLES", mysql.ShowTables("").Query)
	assert.Equal(t, []any{"app"}, og.ShowTables("app").Args)
	assert.Contains(t, lite.ShowTables("").Query, "sqlite_master")

	desc := widgetDesc(t)
	assert.Equal(t, "SELECT * FROM `widget` WHERE 1 = 0", mysql.Probe(desc).Query)
	assert.Equal(t, `SELECT * FROM "widget" WHERE 1 = 0`, og.Probe(desc).Query)
}

func TestIdentifiersAlwaysQuoted(t *testing.T) {
	desc := widgetDesc(t)
	w := &Widget{ID: ptr(int64(1)), Name: ptr("a")}
	for _, d := range []sql.Dialect{sql.MySQL, sql.OpenGauss, sql.SQLite} {
		t.Run(d.Name(), func(t *testing.T) {
			b := sql.NewBuilder(d)
			var stmts []sql.Statement
			for _, f := range []func() (sql.Statement, error){
				func() (sql.Statement, error) { return b.Insert(desc, w) },
				func() (sql.Statement, error) { return b.Select(desc, sql.EQ("id", 1)) },
				func() (sql.Statement, error) { return b.Update(desc, sql.EQ("id", 1), "name", "b") },
				func() (sql.Statement, error) { return b.Delete(desc, sql.NE("name", "x")) },
				func() (sql.Statement, error) { return b.Count(desc, sql.IsNull("name")) },
			} {
				stmt, err := f()
				require.NoError(t, err)
				stmts = append(stmts, stmt)
			}
			stmts = append(stmts, b.DeleteAll(desc), b.DropTable("widget"))
			idents := []string{"widget", "id", "name"}
			for _, stmt := range stmts {
				rest := stmt.Query
				for _, ident := range idents {
					rest = strings.ReplaceAll(rest, d.Quote(ident), "")
				}
				for _, ident := range idents {
					assert.NotContains(t, rest, ident, "unquoted identifier in %s", stmt.Query)
				}
			}
		})
	}
}

// valueVisitor counts literal values and parameter markers of a MySQL statement.
type valueVisitor struct {
	literals, markers int
}

func (v *valueVisitor) Enter(n ast.Node) (ast.Node, bool) {
	if _, ok := n.(ast.ParamMarkerExpr); ok {
		v.markers++
		return n, true
	}
	if ve, ok := n.(ast.ValueExpr); ok {
		if ve.GetValue() == nil {
			v.markers++
		} else {
			v.literals++
		}
		return n, true
	}
	return n, false
}

func (v *valueVisitor) Leave(n ast.Node) (ast.Node, bool) { return n, true }

func TestValuesOnlyBound(t *testing.T) {
	desc := widgetDesc(t)
	b := sql.NewBuilder(sql.MySQL)
	w := &Widget{ID: ptr(int64(42)), Name: ptr("x'; DROP TABLE widget; --")}
	cond := sql.Or(
		sql.And(sql.EQ("id", 42), sql.NE("name", "o'hara")),
		sql.In("id", 7, 8, 9),
		sql.LE("id", 100),
	)
	build := []func() (sql.Statement, error){
		func() (sql.Statement, error) { return b.Insert(desc, w) },
		func() (sql.Statement, error) { return b.Upsert(desc, w, "name", "y") },
		func() (sql.Statement, error) { return b.Select(desc, cond) },
		func() (sql.Statement, error) { return b.Update(desc, cond, "name", "z", "id", 43) },
		func() (sql.Statement, error) { return b.Delete(desc, cond) },
		func() (sql.Statement, error) { return b.Count(desc, cond) },
	}
	p := parser.New()
	for _, f := range build {
		stmt, err := f()
		require.NoError(t, err)
		nodes, _, err := p.Parse(stmt.Query, "", "")
		require.NoError(t, err, stmt.Query)
		require.Len(t, nodes, 1)

		v := &valueVisitor{}
		nodes[0].Accept(v)
		assert.Zero(t, v.literals, "literal value in %s", stmt.Query)
		assert.Equal(t, len(stmt.Args), v.markers, stmt.Query)
		assert.Equal(t, len(stmt.Args), strings.Count(stmt.Query, "?"))
		assert.NotContains(t, stmt.Query, "DROP")
		assert.NotContains(t, stmt.Query, "hara")
	}
}

func BenchmarkBuilder(b *testing.B) {
	desc := widgetDesc(b)
	w := &Widget{ID: ptr(int64(1)), Name: ptr("a")}
	for _, d := range []sql.Dialect{sql.MySQL, sql.OpenGauss, sql.SQLite} {
		bd := sql.NewBuilder(d)
		b.Run(d.Name()+"/Insert", func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_, _ = bd.Insert(desc, w)
			}
		})
		b.Run(d.Name()+"/Select", func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				_, _ = bd.Select(desc, sql.And(sql.EQ("id", 1), sql.NotNull("name")))
			}
		})
	}
}
