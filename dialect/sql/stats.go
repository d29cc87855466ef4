package sql

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zhiheng123/table-facade/dialect"
)

// Operation identifies the facade operation a statement is issued for.
type Operation struct {
	Name  string // e.g. "insert", "drop table"
	Table string // empty for catalogue-wide statements
}

// String returns the operation name followed by its table, if any.
func (o Operation) String() string {
	if o.Table == "" {
		return o.Name
	}
	return o.Name + " " + o.Table
}

type operationKey struct{}

// WithOperation returns a copy of ctx carrying op. The stats and debug
// drivers read it to attribute the statements they see.
func WithOperation(ctx context.Context, op Operation) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

// OperationFrom returns the operation carried by ctx.
func OperationFrom(ctx context.Context) (Operation, bool) {
	op, ok := ctx.Value(operationKey{}).(Operation)
	return op, ok
}

// QueryStats counts the statements run through a StatsDriver.
type QueryStats struct {
	TotalQueries  atomic.Int64
	TotalExecs    atomic.Int64
	TotalDuration atomic.Int64 // nanoseconds
	SlowQueries   atomic.Int64
	Errors        atomic.Int64
}

func (s *QueryStats) add(query bool, d time.Duration, failed, slow bool) {
	if query {
		s.TotalQueries.Add(1)
	} else {
		s.TotalExecs.Add(1)
	}
	s.TotalDuration.Add(int64(d))
	if failed {
		s.Errors.Add(1)
	}
	if slow {
		s.SlowQueries.Add(1)
	}
}

// Stats returns a snapshot of the counters.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// Reset sets every counter back to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
}

// StatsSnapshot is a point-in-time copy of QueryStats.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
}

// AvgQueryDuration returns the mean duration of a statement.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	n := s.TotalQueries + s.TotalExecs
	if n == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(n)
}

func (s StatsSnapshot) String() string {
	return fmt.Sprintf("queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgQueryDuration(), s.SlowQueries, s.Errors)
}

// SlowQuery describes a statement that ran longer than the slow threshold.
type SlowQuery struct {
	Operation Operation
	Query     string
	Args      []any
	Duration  time.Duration
}

// SlowQueryHook is called for every slow statement.
type SlowQueryHook func(context.Context, SlowQuery)

// StatsDriver wraps a Driver and counts its statements, in total and per
// table for the statements issued by the table facade.
type StatsDriver struct {
	dialect.Driver
	stats     QueryStats
	tables    sync.Map // table name => *QueryStats
	threshold atomic.Int64
	slowHook  SlowQueryHook
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration above which a statement is slow.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.threshold.Store(int64(d))
	}
}

// WithSlowQueryHook sets the function called for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow statements at warn level to l, or to the
// default logger if l is nil.
func WithSlowQueryLog(l *slog.Logger) StatsOption {
	if l == nil {
		l = slog.Default()
	}
	return WithSlowQueryHook(func(ctx context.Context, q SlowQuery) {
		l.WarnContext(ctx, "table: slow statement",
			"op", q.Operation.Name,
			"table", q.Operation.Table,
			"duration", q.Duration,
			"query", q.Query,
			"args", q.Args,
		)
	})
}

// NewStatsDriver wraps drv with statement statistics.
//
//	sd := sql.NewStatsDriver(drv, sql.WithSlowQueryLog(logger))
//	client, err := table.NewClient(table.Driver(sd))
//	...
//	fmt.Println(sd.TableStats("widget"))
func NewStatsDriver(drv dialect.Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{Driver: drv}
	s.threshold.Store(int64(100 * time.Millisecond))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the counters of every statement.
func (d *StatsDriver) QueryStats() *QueryStats {
	return &d.stats
}

// TableStats returns the counters of the statements issued on table.
func (d *StatsDriver) TableStats(table string) StatsSnapshot {
	s, ok := d.tables.Load(table)
	if !ok {
		return StatsSnapshot{}
	}
	return s.(*QueryStats).Stats()
}

// Tables returns the sorted names of the tables with recorded statements.
func (d *StatsDriver) Tables() []string {
	var names []string
	d.tables.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	slices.Sort(names)
	return names
}

// SlowThreshold returns the slow statement threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	return time.Duration(d.threshold.Load())
}

// SetSlowThreshold updates the slow statement threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.threshold.Store(int64(threshold))
}

// Query runs a query and records it.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Query(ctx, query, args, v)
	d.record(ctx, true, query, args, time.Since(start), err)
	return err
}

// Exec runs a statement and records it.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Driver.Exec(ctx, query, args, v)
	d.record(ctx, false, query, args, time.Since(start), err)
	return err
}

func (d *StatsDriver) record(ctx context.Context, isQuery bool, query string, args any, elapsed time.Duration, err error) {
	slow := elapsed > d.SlowThreshold()
	d.stats.add(isQuery, elapsed, err != nil, slow)
	op, ok := OperationFrom(ctx)
	if ok && op.Table != "" {
		s, _ := d.tables.LoadOrStore(op.Table, &QueryStats{})
		s.(*QueryStats).add(isQuery, elapsed, err != nil, slow)
	}
	if slow && d.slowHook != nil {
		argv, _ := args.([]any)
		d.slowHook(ctx, SlowQuery{Operation: op, Query: query, Args: argv, Duration: elapsed})
	}
}

// DebugDriver wraps a Driver and logs every statement, prefixed with the
// facade operation when there is one.
type DebugDriver struct {
	dialect.Driver
	log func(context.Context, ...any)
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog sets a custom log function.
func DebugWithLog(logFunc func(context.Context, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// DebugWithLogger logs statements at debug level to l.
func DebugWithLogger(l *slog.Logger) DebugOption {
	return DebugWithLog(func(ctx context.Context, v ...any) {
		l.DebugContext(ctx, fmt.Sprint(v...))
	})
}

// NewDebugDriver wraps drv with statement logging. It logs through
// slog.Info unless an option says otherwise.
//
//	drv, _ := sql.Open(dialect.OpenGauss, "postgres", dsn)
//	client, err := table.NewClient(table.Driver(sql.NewDebugDriver(drv, sql.DebugWithLogger(logger))))
func NewDebugDriver(drv dialect.Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log: func(_ context.Context, v ...any) {
			slog.Info(fmt.Sprint(v...))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query logs and runs a query.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.print(ctx, "query", query, args)
	return d.Driver.Query(ctx, query, args, v)
}

// Exec logs and runs a statement.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.print(ctx, "exec", query, args)
	return d.Driver.Exec(ctx, query, args, v)
}

func (d *DebugDriver) print(ctx context.Context, kind, query string, args any) {
	msg := fmt.Sprintf("%s: %s args: %v", kind, query, args)
	if op, ok := OperationFrom(ctx); ok {
		msg = op.String() + ": " + msg
	}
	d.log(ctx, msg)
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
)
