package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhiheng123/table-facade/compiler/load"
)

func widgetPackage(dir string) *load.Package {
	return &load.Package{
		Name: "app",
		Path: "example.com/app",
		Dir:  dir,
		Entities: []*load.Entity{
			{
				Name: "Widget",
				Columns: []*load.Column{
					{Name: "id", Field: "ID", Type: "int64", Getter: "GetID", Setter: "SetID"},
					{Name: "active", Field: "Active", Type: "bool", Getter: "IsActive", Setter: "SetActive"},
				},
			},
			{
				Name: "Gadget",
				Columns: []*load.Column{
					{Name: "name", Field: "Name", Type: "*string", Getter: "GetName", Setter: "SetName"},
				},
			},
		},
	}
}

func TestRender(t *testing.T) {
	pkg := widgetPackage("")
	code := fmt.Sprintf("%#v", Render(pkg, pkg.Entities[0], DefaultHeader))
	assert.Contains(t, code, "// Code generated by tablegen. DO NOT EDIT.")
	assert.Contains(t, code, "package app")
	assert.Contains(t, code, `"github.com/zhiheng123/table-facade/schema"`)
	assert.Contains(t, code, "// Columns returns the column accessors of Widget.")
	assert.Contains(t, code, "func (*Widget) Columns() []schema.Accessor[Widget] {")
	assert.Contains(t, code, "\t\tschema.Field(\"id\", (*Widget).GetID, (*Widget).SetID),\n")
	assert.Contains(t, code, "\t\tschema.Field(\"active\", (*Widget).IsActive, (*Widget).SetActive),\n")
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	cfg, err := NewConfig(WithWorkers(1))
	require.NoError(t, err)

	paths, err := Generate(context.Background(), widgetPackage(dir), cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "widget_columns.go"),
		filepath.Join(dir, "gadget_columns.go"),
	}, paths)

	b, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Contains(t, string(b), "func (*Gadget) Columns() []schema.Accessor[Gadget] {")
	assert.Contains(t, string(b), `schema.Field("name", (*Gadget).GetName, (*Gadget).SetName),`)
}

func TestGenerateTarget(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out")
	cfg, err := NewConfig(WithTarget(target), WithSuffix(".gen.go"), WithHeader(""))
	require.NoError(t, err)
	paths, err := Generate(context.Background(), widgetPackage(""), cfg)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(target, "widget.gen.go"), paths[0])
	b, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.NotContains(t, string(b), "DO NOT EDIT")
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(context.Background(), widgetPackage(""), nil)
	require.ErrorIs(t, err, ErrMissingConfig)

	_, err = Generate(context.Background(), widgetPackage(t.TempDir()), &Config{Suffix: "_columns.go"})
	require.EqualError(t, err, "gen: config Workers=0: workers must be positive")

	cfg, err := NewConfig()
	require.NoError(t, err)
	_, err = Generate(context.Background(), widgetPackage(""), cfg)
	require.ErrorIs(t, err, ErrMissingConfig)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Generate(ctx, widgetPackage(t.TempDir()), cfg)
	require.ErrorIs(t, err, context.Canceled)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	pkg := widgetPackage(file)
	_, err = Generate(context.Background(), pkg, cfg)
	require.Error(t, err)
}

func TestOptions(t *testing.T) {
	_, err := NewConfig(WithWorkers(0))
	require.EqualError(t, err, "gen: config Workers=0: workers must be positive")
	_, err = NewConfig(WithSuffix(".txt"))
	require.ErrorIs(t, err, ErrMissingConfig)
}
