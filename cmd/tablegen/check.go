package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/tablegen/compiler/gen/sql"
	"github.com/syssam/tablegen/internal/cli"
)

func newCheckCmd() *cobra.Command {
	var showSQL bool
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Validate declarations",
		Long:  `Parse and validate declarations without writing any file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Paths = resolvePaths(args)
			g, err := cli.Build(cfg, logger)
			if err != nil {
				return err
			}
			if quiet {
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Declarations are valid. Found %d table(s) and %d patch(es):\n", len(g.Tables), len(g.Patches))
			for _, t := range g.Tables {
				fmt.Fprintf(out, "  - %s (%s, %d fields)\n", t.Entity, t.Table, len(t.Fields))
			}
			for _, p := range g.Patches {
				fmt.Fprintf(out, "  - %s (patch of %s, %d fields)\n", p.Entity, p.TableName, len(p.Fields))
			}
			for _, w := range g.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			if showSQL {
				for _, stmt := range sql.Statements(g) {
					fmt.Fprintf(out, "%s: %s\n", stmt.Const, stmt.SQL)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSQL, "sql", false, "print every generated statement")
	return cmd
}
