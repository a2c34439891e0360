package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/syssam/tablegen/internal/cli"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *cli.Config
	configPath string
	logger     *slog.Logger

	// Persistent flags
	cfgFile     string
	verbose     int
	quiet       bool
	dialectName string
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tablegen",
		Short: "Typed SQL access layer compiler",
		Long: `tablegen - typed SQL access layer compiler

tablegen reads table and patch declarations from Go struct tags or YAML files
and writes get, stream, update, delete, insert, setter, lookup and patch
operations with their SQL rendered for PostgreSQL, MySQL or SQLite.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = cli.NewLogger(cmd.ErrOrStderr(), verbose, quiet)
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
				return nil
			}

			var err error
			cfg, configPath, err = cli.LoadConfig(cfgFile)
			if err != nil {
				return cli.ConfigError("loading configuration", err)
			}
			if configPath != "" {
				logger.Debug("loaded config", "path", configPath)
			}
			cfg.Dialect = resolveString(dialectName, cfg.Dialect)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover tablegen.yaml)")
	cmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase verbosity (can be repeated)")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-error output")
	cmd.PersistentFlags().StringVarP(&dialectName, "dialect", "d", "", "SQL dialect: postgres, mysql or sqlite")

	cmd.AddCommand(newGenerateCmd(), newCheckCmd(), newVerifyCmd(), newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		cli.ExitWithError(err)
	}
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolvePaths returns the positional paths when given, else the configured
// ones.
func resolvePaths(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return cfg.Paths
}
