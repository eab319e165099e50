package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sydlexius/kala/internal/cache"
	"github.com/sydlexius/kala/internal/maintenance"
)

func newCacheCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the sqlite thumbnail cache",
	}

	run := func(fn func(ctx context.Context, a *app, m *maintenance.Service) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()
			if a.sqlite == nil {
				return errors.New("cache maintenance needs the " + cache.BackendSQLite + " backend")
			}
			return fn(ctx, a, maintenance.NewService(a.db, a.cfg.Cache.Path, a.sqlite, a.logger))
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Print cache size and entry counts as JSON",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, a *app, m *maintenance.Service) error {
				st, err := m.Status(ctx)
				if err != nil {
					return err
				}
				return newPrinter(a.out).print(st)
			}),
		},
		&cobra.Command{
			Use:   "prune",
			Short: "Delete expired entries and optimize the database",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, a *app, m *maintenance.Service) error {
				n, err := m.Run(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "pruned %d entries\n", n)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "vacuum",
			Short: "Rebuild the database file",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, _ *app, m *maintenance.Service) error {
				return m.Vacuum(ctx)
			}),
		},
	)
	return cmd
}
