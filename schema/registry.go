package schema

import (
	"log/slog"
	"reflect"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry caches the descriptors of resolved types. Descriptors are
// computed at most once per type under contention and never mutated
// afterwards. The zero value is not usable, use NewRegistry.
type Registry struct {
	descriptors sync.Map // reflect.Type => *Descriptor
	group       singleflight.Group
	log         *slog.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used to report resolved types.
func WithLogger(l *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the descriptor of T, computing and caching it on first use.
// T declares its table with a TableName method, and its columns either by
// implementing Mapper[T] on *T or with `column` struct tags.
//
// A DescriptorError is returned when T cannot be described. Failures are
// not cached.
func Resolve[T any](r *Registry) (*Descriptor, error) {
	typ := reflect.TypeFor[T]()
	if d, ok := r.descriptors.Load(typ); ok {
		return d.(*Descriptor), nil
	}
	v, err, _ := r.group.Do(typeKey(typ), func() (any, error) {
		if d, ok := r.descriptors.Load(typ); ok {
			return d, nil
		}
		d, err := build[T](typ)
		if err != nil {
			return nil, err
		}
		actual, loaded := r.descriptors.LoadOrStore(typ, d)
		if !loaded {
			r.log.Debug("schema: resolved descriptor", "type", typ.String(), "table", d.table, "columns", len(d.columns))
		}
		return actual, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Descriptor), nil
}

// Lookup returns the cached descriptor of typ, if any.
func (r *Registry) Lookup(typ reflect.Type) (*Descriptor, bool) {
	d, ok := r.descriptors.Load(typ)
	if !ok {
		return nil, false
	}
	return d.(*Descriptor), true
}

// Len returns the number of cached descriptors.
func (r *Registry) Len() int {
	n := 0
	r.descriptors.Range(func(any, any) bool {
		n++
		return true
	})
	return n
}

func build[T any](typ reflect.Type) (*Descriptor, error) {
	e := new(T)
	tabler, ok := any(e).(Tabler)
	if !ok {
		return nil, descriptorError(typ, "", "", "missing table name declaration (TableName method)")
	}
	table := tabler.TableName()
	if table == "" {
		return nil, descriptorError(typ, "", "", "empty table name")
	}
	var (
		columns []*Column
		err     error
	)
	if m, ok := any(e).(Mapper[T]); ok {
		columns, err = registered(typ, m.Columns())
	} else {
		columns, err = discover(typ)
	}
	if err != nil {
		return nil, err
	}
	return newDescriptor(typ, table, columns)
}

func registered[T any](typ reflect.Type, accessors []Accessor[T]) ([]*Column, error) {
	columns := make([]*Column, 0, len(accessors))
	for _, a := range accessors {
		c, err := a.build(typ)
		if err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return columns, nil
}

// typeKey identifies typ for singleflight. Type names alone may collide
// (e.g. types declared inside functions), so the key carries the type
// pointer as well.
func typeKey(typ reflect.Type) string {
	return typ.String() + "@" + strconv.FormatUint(uint64(reflect.ValueOf(typ).Pointer()), 16)
}
