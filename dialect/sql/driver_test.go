package sql

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhiheng123/table-facade/dialect"
)

func TestOpenDB(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
	}{
		{"OpenGauss", dialect.OpenGauss},
		{"Postgres", dialect.Postgres},
		{"MySQL", dialect.MySQL},
		{"SQLite", dialect.SQLite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			drv := OpenDB(tt.dialect, db)
			assert.NotNil(t, drv)
			assert.Equal(t, tt.dialect, drv.Dialect())
			assert.Same(t, db, drv.DB())
		})
	}
}

// TestDriverQuery tests query operations.
func TestDriverQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.OpenGauss, db)

	t.Run("query_with_args", func(t *testing.T) {
		mock.ExpectQuery(`SELECT "name" FROM "widget" WHERE "id" = \$1`).
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("a"))

		rows := &Rows{}
		err := drv.Query(context.Background(), `SELECT "name" FROM "widget" WHERE "id" = $1`, []any{1}, rows)
		require.NoError(t, err)
		require.True(t, rows.Next())
		var name string
		require.NoError(t, rows.Scan(&name))
		assert.Equal(t, "a", name)
		require.NoError(t, rows.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query_error", func(t *testing.T) {
		expectedErr := errors.New("database error")
		mock.ExpectQuery("SELECT").WillReturnError(expectedErr)

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT", []any{}, rows)
		require.ErrorIs(t, err, expectedErr)
		assert.Contains(t, err.Error(), "dialect/sql: query:")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_destination", func(t *testing.T) {
		err := drv.Query(context.Background(), "SELECT 1", []any{}, new(sql.Rows))
		require.EqualError(t, err, "dialect/sql: invalid type *sql.Rows. expect *sql.Rows")
	})

	t.Run("invalid_args", func(t *testing.T) {
		err := drv.Query(context.Background(), "SELECT 1", []string{}, &Rows{})
		require.EqualError(t, err, "dialect/sql: invalid type []string. expect []any for args")
	})
}

// TestDriverExec tests execute operations.
func TestDriverExec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.MySQL, db)

	t.Run("exec_with_result", func(t *testing.T) {
		mock.ExpectExec("UPDATE `widget` SET `name` = \\? WHERE `id` = \\?").
			WithArgs("b", 1).
			WillReturnResult(sqlmock.NewResult(0, 3))

		var res sql.Result
		err := drv.Exec(context.Background(), "UPDATE `widget` SET `name` = ? WHERE `id` = ?", []any{"b", 1}, &res)
		require.NoError(t, err)
		n, err := res.RowsAffected()
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec_without_result", func(t *testing.T) {
		mock.ExpectExec("DROP TABLE `widget`").WillReturnResult(sqlmock.NewResult(0, 0))

		err := drv.Exec(context.Background(), "DROP TABLE `widget`", []any{}, nil)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec_error", func(t *testing.T) {
		expectedErr := errors.New("constraint violation")
		mock.ExpectExec("DELETE").WillReturnError(expectedErr)

		err := drv.Exec(context.Background(), "DELETE FROM `widget`", []any{}, nil)
		require.ErrorIs(t, err, expectedErr)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_destination", func(t *testing.T) {
		var n int
		err := drv.Exec(context.Background(), "DELETE FROM `widget`", []any{}, &n)
		require.EqualError(t, err, "dialect/sql: invalid type *int. expect *sql.Result")
	})
}

func TestDriverClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	var closed []string
	drv := OpenDB(dialect.OpenGauss, db).
		OnClose(func() error { closed = append(closed, "pool"); return nil }).
		OnClose(func() error { closed = append(closed, "other"); return errors.New("boom") })

	err = drv.Close()
	require.EqualError(t, err, "boom")
	assert.Equal(t, []string{"pool", "other"}, closed)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestContextCancellation tests that context cancellation is propagated.
func TestContextCancellation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.SQLite, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock.ExpectQuery("SELECT").WillReturnError(context.Canceled)
	err = drv.Query(ctx, "SELECT 1", []any{}, &Rows{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatsDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var slow []SlowQuery
	drv := NewStatsDriver(OpenDB(dialect.MySQL, db),
		WithSlowThreshold(time.Nanosecond),
		WithSlowQueryHook(func(_ context.Context, q SlowQuery) {
			slow = append(slow, q)
		}),
	)
	assert.Equal(t, dialect.MySQL, drv.Dialect())

	mock.ExpectQuery("SELECT 1").WillDelayFor(time.Millisecond).WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectExec("DELETE").WillReturnError(errors.New("boom"))

	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())
	ctx := WithOperation(context.Background(), Operation{Name: "delete all", Table: "widget"})
	require.Error(t, drv.Exec(ctx, "DELETE FROM `widget`", []any{}, nil))

	s := drv.QueryStats().Stats()
	assert.Equal(t, int64(1), s.TotalQueries)
	assert.Equal(t, int64(1), s.TotalExecs)
	assert.Equal(t, int64(1), s.Errors)
	assert.GreaterOrEqual(t, s.SlowQueries, int64(1))
	assert.Contains(t, s.String(), "queries=1 execs=1")
	require.NotEmpty(t, slow)
	assert.Equal(t, "SELECT 1", slow[0].Query)
	assert.Equal(t, Operation{}, slow[0].Operation)

	ws := drv.TableStats("widget")
	assert.Zero(t, ws.TotalQueries)
	assert.Equal(t, int64(1), ws.TotalExecs)
	assert.Equal(t, int64(1), ws.Errors)
	assert.Equal(t, []string{"widget"}, drv.Tables())
	assert.Equal(t, StatsSnapshot{}, drv.TableStats("gadget"))

	drv.SetSlowThreshold(time.Hour)
	assert.Equal(t, time.Hour, drv.SlowThreshold())
	drv.QueryStats().Reset()
	assert.Zero(t, drv.QueryStats().Stats().TotalQueries)
	assert.Zero(t, StatsSnapshot{}.AvgQueryDuration())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebugDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var logged []string
	drv := NewDebugDriver(OpenDB(dialect.OpenGauss, db), DebugWithLog(func(_ context.Context, v ...any) {
		for _, s := range v {
			logged = append(logged, s.(string))
		}
	}))
	mock.ExpectExec(`DELETE FROM "widget"`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DROP TABLE "widget"`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, drv.Exec(context.Background(), `DELETE FROM "widget"`, []any{}, nil))
	ctx := WithOperation(context.Background(), Operation{Name: "drop table", Table: "widget"})
	require.NoError(t, drv.Exec(ctx, `DROP TABLE "widget"`, []any{}, nil))
	assert.Equal(t, []string{
		`exec: DELETE FROM "widget" args: []`,
		`drop table widget: exec: DROP TABLE "widget" args: []`,
	}, logged)
	require.NoError(t, mock.ExpectationsWereMet())
}
