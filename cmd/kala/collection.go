package main

import (
	"github.com/spf13/cobra"
)

func newCollectionCmd(root *rootOptions) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "collection",
		Short: "Resolve every artist in the collection",
		Long: `Resolve every artist in the configured collection and print one JSON
line per artist, in collection order. Without a configured collection file
the built-in classifier catalog is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := a.loadCollection()
			if err != nil {
				return err
			}

			if workers <= 0 {
				workers = a.cfg.Resolver.Workers
			}
			results, _ := a.resolver.ResolveAll(ctx, c.Identities(), workers)

			p := newPrinter(a.out)
			for i, res := range results {
				if err := p.print(newRecord(c.Artists[i], res)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "concurrent resolutions (default from config)")
	return cmd
}
