package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	sqldriver "github.com/syssam/tablegen/dialect/sql"
	"github.com/syssam/tablegen/internal/cli"
)

func newVerifyCmd() *cobra.Command {
	var (
		dsn        string
		driverName string
	)
	cmd := &cobra.Command{
		Use:   "verify [paths...]",
		Short: "Prepare generated statements against a database",
		Long: `Prepare every generated statement against a live database to catch
column and table names that do not exist.`,
		Example: `  tablegen verify --dsn postgres://localhost/app?sslmode=disable ./models
  tablegen verify --dialect sqlite --dsn file:app.db ./models`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Paths = resolvePaths(args)
			cfg.Database.URL = resolveString(dsn, cfg.Database.URL)
			cfg.Database.Driver = resolveString(driverName, cfg.Database.Driver)
			if cfg.Database.URL == "" {
				return cli.ConfigError("--dsn or database.url required", nil)
			}

			g, err := cli.Build(cfg, logger)
			if err != nil {
				return err
			}
			name, err := cfg.DriverName()
			if err != nil {
				return cli.ConfigError("resolving driver", err)
			}
			drv, err := sqldriver.Open(name, cfg.Database.URL)
			if err != nil {
				return cli.DBConnectError("opening database", err)
			}
			defer func() { _ = drv.Close() }()
			if err := drv.DB().PingContext(cmd.Context()); err != nil {
				return cli.DBConnectError("connecting to database", err)
			}

			db, stats := cli.Instrument(drv, logger, verbose > 1)
			failures, err := cli.Verify(cmd.Context(), db, g, logger)
			if err != nil {
				return cli.GeneralError("verifying statements", err)
			}
			s := stats.Stats()
			logger.Info("verify finished", "stats", s.String())
			out := cmd.OutOrStdout()
			for _, f := range failures {
				fmt.Fprintln(out, "FAIL", f)
			}
			if len(failures) > 0 {
				return cli.VerifyError(fmt.Sprintf("%d of %d statement(s) rejected", len(failures), s.Prepares), nil)
			}
			if !quiet {
				fmt.Fprintf(out, "All %d statement(s) prepared successfully in %s.\n", s.Prepares, s.Duration.Round(time.Millisecond))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "database connection string")
	cmd.Flags().StringVar(&driverName, "driver", "", "database/sql driver (default: derived from the dialect)")
	return cmd
}
