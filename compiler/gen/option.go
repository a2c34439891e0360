package gen

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/syssam/tablegen/dialect"
)

// Option configures code generation.
type Option func(*Config) error

// WithDialect selects the backend by name.
// Supported names: "postgres", "mysql", "sqlite" and their aliases.
func WithDialect(name string) Option {
	return func(c *Config) error {
		b, err := dialect.Lookup(name)
		if err != nil {
			return NewConfigError("Dialect", name, "unsupported dialect; use postgres, mysql, or sqlite")
		}
		c.Backend = b
		return nil
	}
}

// WithBackend sets the backend descriptor directly.
func WithBackend(b *dialect.Backend) Option {
	return func(c *Config) error {
		if b == nil {
			return NewConfigError("Backend", nil, "backend cannot be nil")
		}
		c.Backend = b
		return nil
	}
}

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the package name of generated files.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = filepath.Base(pkg)
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where generated code will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithWorkers bounds the number of files rendered in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithRuntimePkg overrides the import path of the runtime package.
func WithRuntimePkg(path string) Option {
	return func(c *Config) error {
		if path == "" {
			return NewConfigError("RuntimePkg", nil, "runtime package cannot be empty")
		}
		c.RuntimePkg = path
		return nil
	}
}

// WithLogger sets the logger for warnings and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options. The backend
// defaults to PostgreSQL.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Backend: dialect.MustLookup(dialect.Postgres), RuntimePkg: DefaultRuntimePkg}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
