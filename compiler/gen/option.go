package gen

import (
	"runtime"
	"strings"
)

// DefaultHeader is the header comment of the generated files.
const DefaultHeader = "Code generated by tablegen. DO NOT EDIT."

// Config holds the generation settings.
type Config struct {
	// Header is the comment at the top of each generated file.
	Header string
	// Target is the output directory. It defaults to the package directory.
	Target string
	// Suffix is appended to the lower-cased entity name to form the file name.
	Suffix string
	// Workers bounds the number of files rendered in parallel.
	Workers int
}

// Option configures code generation.
type Option func(*Config) error

// NewConfig returns the configuration built from the defaults and opts.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Header:  DefaultHeader,
		Suffix:  "_columns.go",
		Workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		c.Target = dir
		return nil
	}
}

// WithSuffix sets the file name suffix. It must end with ".go".
func WithSuffix(suffix string) Option {
	return func(c *Config) error {
		if !strings.HasSuffix(suffix, ".go") {
			return NewConfigError("Suffix", suffix, `suffix must end with ".go"`)
		}
		c.Suffix = suffix
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}
