package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the configuration, the cache backend and the Wikipedia API",
		Args:  cobra.NoArgs,
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
			if err := a.adapter.TestConnection(ctx); err != nil {
				return fmt.Errorf("wikipedia api: %w", err)
			}

			fmt.Fprintf(a.out, "config ok\ncache %s ok\ncollection %s: %d artists\nwikipedia %s ok\n",
				a.cfg.Cache.Backend, c.Source, c.Len(), a.cfg.Wikipedia.Endpoint)
			return nil
		},
	}
}
