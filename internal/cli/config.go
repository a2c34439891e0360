package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/syssam/tablegen/compiler/gen"
	"github.com/syssam/tablegen/dialect"
)

const (
	maxWalkDepth = 25
	envPrefix    = "TABLEGEN"
)

// ConfigNames lists the file names searched for during discovery, in order.
var ConfigNames = []string{"tablegen.yaml", "tablegen.yml"}

// Config represents the tablegen configuration from tablegen.yaml.
type Config struct {
	// Paths lists the Go files, YAML files and directories holding
	// declarations.
	Paths   []string `mapstructure:"paths"`
	Dialect string   `mapstructure:"dialect"`
	Target  string   `mapstructure:"target"`
	Package string   `mapstructure:"package"`
	Header  string   `mapstructure:"header"`
	Workers int      `mapstructure:"workers"`
	// RuntimePkg is the import path of the runtime used by generated code.
	RuntimePkg string `mapstructure:"runtime_pkg"`
	// Cache enables the fingerprint cache in the target directory.
	Cache bool `mapstructure:"cache"`

	Database DatabaseConfig `mapstructure:"database"`
}

// DatabaseConfig holds the connection used by verify.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
	// Driver is the database/sql driver name. It defaults to the driver
	// registered for the dialect.
	Driver string `mapstructure:"driver"`
}

// LoadConfig discovers and loads configuration with proper precedence:
// flags > env > config file > defaults.
//
// Returns the loaded config, the path to the config file (empty if none found),
// and any error encountered.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	// Relative paths in a config file are relative to the file.
	if configPath != "" {
		base := filepath.Dir(configPath)
		for i, p := range cfg.Paths {
			cfg.Paths[i] = relativeTo(base, p)
		}
		cfg.Target = relativeTo(base, cfg.Target)
	}

	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths", []string{"."})
	v.SetDefault("dialect", dialect.Postgres)
	v.SetDefault("target", "")
	v.SetDefault("package", "")
	v.SetDefault("header", gen.DefaultHeader)
	v.SetDefault("workers", 0)
	v.SetDefault("runtime_pkg", gen.DefaultRuntimePkg)
	v.SetDefault("cache", false)

	v.SetDefault("database.url", "")
	v.SetDefault("database.driver", "")
}

func relativeTo(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// findConfigFile finds the config file to use.
// If explicitPath is provided, it validates the file exists.
// Otherwise, it walks up from cwd looking for tablegen.yaml or tablegen.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}

	dir := cwd
	for range maxWalkDepth {
		for _, name := range ConfigNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", nil
}

// Options returns the generator options described by the configuration.
func (c *Config) Options() []gen.Option {
	var opts []gen.Option
	if c.Dialect != "" {
		opts = append(opts, gen.WithDialect(c.Dialect))
	}
	if c.RuntimePkg != "" {
		opts = append(opts, gen.WithRuntimePkg(c.RuntimePkg))
	}
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if target := c.ResolvedTarget(); target != "" {
		opts = append(opts, gen.WithTarget(target))
	}
	if c.Package != "" {
		opts = append(opts, gen.WithPackage(c.Package))
	}
	if c.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	return opts
}

// ResolvedTarget returns the output directory. Without an explicit target,
// a single declaration directory receives the generated files.
func (c *Config) ResolvedTarget() string {
	if c.Target != "" || len(c.Paths) != 1 {
		return c.Target
	}
	if info, err := os.Stat(c.Paths[0]); err == nil && info.IsDir() {
		return c.Paths[0]
	}
	return ""
}

// DriverName returns the database/sql driver used to reach the configured
// dialect.
func (c *Config) DriverName() (string, error) {
	if c.Database.Driver != "" {
		return c.Database.Driver, nil
	}
	b, err := dialect.Lookup(c.Dialect)
	if err != nil {
		return "", err
	}
	switch b.Name {
	case dialect.Postgres:
		return "pgx", nil
	case dialect.MySQL:
		return "mysql", nil
	default:
		return "sqlite", nil
	}
}
