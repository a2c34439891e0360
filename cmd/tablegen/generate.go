package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/syssam/tablegen/internal/cli"
)

func newGenerateCmd() *cobra.Command {
	var (
		target  string
		pkg     string
		workers int
		watch   bool
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate the access layer",
		Long:  `Generate the typed access layer for every table and patch declared under the given paths.`,
		Example: `  # Generate next to the declarations in ./models
  tablegen generate ./models

  # Generate MySQL code into another directory
  tablegen generate --dialect mysql --target ./store ./models

  # Regenerate on every change
  tablegen generate --watch ./models`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Paths = resolvePaths(args)
			cfg.Target = resolveString(target, cfg.Target)
			cfg.Package = resolveString(pkg, cfg.Package)
			if workers > 0 {
				cfg.Workers = workers
			}
			// Watch mode always uses the cache so unchanged files are not
			// rewritten on every event.
			cfg.Cache = (cfg.Cache || watch) && !noCache

			generate := func(ctx context.Context) error {
				written, err := cli.Generate(ctx, cfg, logger)
				if err != nil {
					return err
				}
				if !quiet {
					fmt.Fprintf(cmd.OutOrStdout(), "Generated %d file(s)\n", len(written))
				}
				return nil
			}
			if !watch {
				return generate(cmd.Context())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return cli.Watch(ctx, cfg, logger, cli.DefaultDebounce, generate)
		},
	}
	cmd.Flags().StringVarP(&target, "target", "o", "", "output directory (default: the declaration directory)")
	cmd.Flags().StringVarP(&pkg, "package", "p", "", "package name of generated files")
	cmd.Flags().IntVar(&workers, "workers", 0, "files rendered in parallel (default: GOMAXPROCS)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate when declarations change")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "always rewrite every file")
	return cmd
}
