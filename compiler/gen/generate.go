package gen

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/zhiheng123/table-facade/compiler/load"
)

const schemaPkg = "github.com/zhiheng123/table-facade/schema"

// Generate writes the registration file of every entity of pkg and returns
// the paths of the written files.
func Generate(ctx context.Context, pkg *load.Package, cfg *Config) ([]string, error) {
	if cfg == nil {
		return nil, NewConfigError("Config", nil, "missing configuration")
	}
	if cfg.Workers <= 0 {
		return nil, NewConfigError("Workers", cfg.Workers, "workers must be positive")
	}
	dir := cfg.Target
	if dir == "" {
		dir = pkg.Dir
	}
	if dir == "" {
		return nil, NewConfigError("Target", nil, "missing target directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, len(pkg.Entities))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.Workers)
	for i, e := range pkg.Entities {
		paths[i] = filepath.Join(dir, strings.ToLower(e.Name)+cfg.Suffix)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := writeFile(Render(pkg, e, cfg.Header), paths[i]); err != nil {
				return &GenerationError{Entity: e.Name, File: paths[i], Cause: err}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// Render returns the registration file of the entity e of pkg.
func Render(pkg *load.Package, e *load.Entity, header string) *jen.File {
	f := jen.NewFilePathName(pkg.Path, pkg.Name)
	if header != "" {
		f.HeaderComment(header)
	}
	f.ImportName(schemaPkg, "schema")
	accessor := jen.Index().Qual(schemaPkg, "Accessor").Types(jen.Id(e.Name))
	fields := make([]jen.Code, 0, len(e.Columns))
	for _, c := range e.Columns {
		fields = append(fields, jen.Qual(schemaPkg, "Field").Call(
			jen.Lit(c.Name),
			jen.Parens(jen.Op("*").Id(e.Name)).Dot(c.Getter),
			jen.Parens(jen.Op("*").Id(e.Name)).Dot(c.Setter),
		))
	}
	f.Commentf("Columns returns the column accessors of %s.", e.Name)
	f.Func().Params(jen.Op("*").Id(e.Name)).Id("Columns").Params().Add(accessor.Clone()).Block(
		jen.Return(accessor.Clone().Custom(jen.Options{
			Open:      "{",
			Close:     "}",
			Separator: ",",
			Multi:     true,
		}, fields...)),
	)
	return f
}

func writeFile(f *jen.File, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Render(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
