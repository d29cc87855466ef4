package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/zhiheng123/table-facade/compiler/gen"
	"github.com/zhiheng123/table-facade/compiler/load"
)

type generateOptions struct {
	dir     string
	target  string
	suffix  string
	header  string
	tags    string
	workers int
	verbose bool
}

func newGenerateCommand() *cobra.Command {
	var opts generateOptions
	cmd := &cobra.Command{
		Use:     "generate [package]",
		Short:   "Generate the Columns method of every tagged entity of a package",
		Example: "  tablegen generate ./internal/model\n  tablegen generate --target ./internal/model/gen --tags integration .",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := "."
			if len(args) == 1 {
				pattern = args[0]
			}
			return runGenerate(cmd, pattern, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.dir, "dir", "", "directory the package pattern is resolved from")
	f.StringVar(&opts.target, "target", "", "output directory (default: the package directory)")
	f.StringVar(&opts.suffix, "suffix", "_columns.go", "generated file name suffix")
	f.StringVar(&opts.header, "header", gen.DefaultHeader, "header comment of the generated files")
	f.StringVar(&opts.tags, "tags", "", "comma separated build tags")
	f.IntVar(&opts.workers, "workers", 4, "number of files generated in parallel")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log every generated file")
	return cmd
}

func runGenerate(cmd *cobra.Command, pattern string, opts generateOptions) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	lc := &load.Config{Dir: opts.dir}
	if opts.tags != "" {
		lc.BuildFlags = []string{"-tags=" + opts.tags}
	}
	pkg, err := lc.Load(pattern)
	if err != nil {
		return err
	}
	if len(pkg.Entities) == 0 {
		logger.Warn("no entity found", "package", pkg.Path)
		return nil
	}
	cfg, err := gen.NewConfig(
		gen.WithTarget(opts.target),
		gen.WithSuffix(opts.suffix),
		gen.WithHeader(opts.header),
		gen.WithWorkers(opts.workers),
	)
	if err != nil {
		return err
	}
	paths, err := gen.Generate(cmd.Context(), pkg, cfg)
	if err != nil {
		return err
	}
	for _, p := range paths {
		logger.Debug("generated", "file", p)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "generated %d file(s) for %s\n", len(paths), pkg.Path)
	return nil
}
