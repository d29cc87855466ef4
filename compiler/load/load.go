// Package load inspects a Go package and collects the entity types whose
// struct fields carry column tags, together with their accessor methods.
package load

import (
	"errors"
	"fmt"
	"go/types"
	"path/filepath"
	"reflect"

	"golang.org/x/tools/go/packages"

	"github.com/zhiheng123/table-facade/schema"
)

// Package is a loaded package of entities.
type Package struct {
	Name     string
	Path     string
	Dir      string
	Entities []*Entity
}

// Entity is a struct type mapped to a table.
type Entity struct {
	Name    string
	Pos     string
	Columns []*Column
}

// Column is a tagged struct field and its accessor methods.
type Column struct {
	Name   string // column name
	Field  string
	Type   string // qualified Go type of the field
	Getter string
	Setter string
}

// Config configures the loading.
type Config struct {
	// Dir is the directory patterns are resolved from.
	Dir string
	// BuildFlags are passed to the build system, e.g. "-tags=integration".
	BuildFlags []string
}

const mode = packages.NeedName | packages.NeedFiles | packages.NeedTypes |
	packages.NeedSyntax | packages.NeedTypesInfo

// Load loads the single package matching pattern and collects its entities.
// Every tagged field must have a getter and a setter of its own type, and
// every entity must declare a TableName method.
func (c *Config) Load(pattern string) (*Package, error) {
	pkgs, err := packages.Load(&packages.Config{
		Mode:       mode,
		Dir:        c.Dir,
		BuildFlags: c.BuildFlags,
	}, pattern)
	if err != nil {
		return nil, fmt.Errorf("load: loading package %q: %w", pattern, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("load: pattern %q matches %d packages, expect 1", pattern, len(pkgs))
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("load: package %s: %v", pkg.PkgPath, pkg.Errors[0])
	}
	p := &Package{Name: pkg.Name, Path: pkg.PkgPath}
	if len(pkg.GoFiles) > 0 {
		p.Dir = filepath.Dir(pkg.GoFiles[0])
	}
	var errs []error
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || tn.IsAlias() {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}
		e, err := entity(pkg, named, st)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if e != nil {
			p.Entities = append(p.Entities, e)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return p, nil
}

// entity returns the entity of the named struct type, or nil if no field
// is tagged.
func entity(pkg *packages.Package, named *types.Named, st *types.Struct) (*Entity, error) {
	name := named.Obj().Name()
	e := &Entity{Name: name, Pos: pkg.Fset.Position(named.Obj().Pos()).String()}
	mset := types.NewMethodSet(types.NewPointer(named))
	seen := make(map[string]bool)
	qualifier := types.RelativeTo(pkg.Types)
	for i := range st.NumFields() {
		f := st.Field(i)
		column, ok := reflect.StructTag(st.Tag(i)).Lookup(schema.TagName)
		if !ok || column == "-" {
			continue
		}
		if column == "" {
			return nil, fmt.Errorf("load: %s.%s: empty column name", name, f.Name())
		}
		if seen[column] {
			return nil, fmt.Errorf("load: %s.%s: duplicate column %q", name, f.Name(), column)
		}
		seen[column] = true
		get, set := schema.AccessorNames(f.Name(), isBool(f.Type()))
		if !hasGetter(pkg.Types, mset, get, f.Type()) {
			return nil, fmt.Errorf("load: %s.%s: missing get method %s() %s", name, f.Name(), get, types.TypeString(f.Type(), qualifier))
		}
		if !hasSetter(pkg.Types, mset, set, f.Type()) {
			return nil, fmt.Errorf("load: %s.%s: missing set method %s(%s)", name, f.Name(), set, types.TypeString(f.Type(), qualifier))
		}
		e.Columns = append(e.Columns, &Column{
			Name:   column,
			Field:  f.Name(),
			Type:   types.TypeString(f.Type(), qualifier),
			Getter: get,
			Setter: set,
		})
	}
	if len(e.Columns) == 0 {
		return nil, nil
	}
	if !hasTableName(pkg.Types, mset) {
		return nil, fmt.Errorf("load: %s: missing TableName() string method", name)
	}
	return e, nil
}

func isBool(t types.Type) bool {
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Info()&types.IsBoolean != 0
}

func method(pkg *types.Package, mset *types.MethodSet, name string) *types.Signature {
	sel := mset.Lookup(pkg, name)
	if sel == nil {
		return nil
	}
	sig, _ := sel.Type().(*types.Signature)
	return sig
}

func hasGetter(pkg *types.Package, mset *types.MethodSet, name string, t types.Type) bool {
	sig := method(pkg, mset, name)
	return sig != nil && sig.Params().Len() == 0 && sig.Results().Len() == 1 &&
		types.Identical(sig.Results().At(0).Type(), t)
}

func hasSetter(pkg *types.Package, mset *types.MethodSet, name string, t types.Type) bool {
	sig := method(pkg, mset, name)
	return sig != nil && sig.Params().Len() == 1 && sig.Results().Len() == 0 &&
		types.Identical(sig.Params().At(0).Type(), t)
}

func hasTableName(pkg *types.Package, mset *types.MethodSet) bool {
	sig := method(pkg, mset, "TableName")
	if sig == nil || sig.Params().Len() != 0 || sig.Results().Len() != 1 {
		return false
	}
	b, ok := sig.Results().At(0).Type().(*types.Basic)
	return ok && b.Kind() == types.String
}
