// Command kala resolves portrait thumbnails for artists in a collection.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sydlexius/kala/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "kala",
		Short: "Resolve artist portrait thumbnails from Wikipedia",
		Long: `Kala looks up a portrait thumbnail for each artist in a collection.

Each artist is identified by a display name and a Wikipedia article URL.
The article's page image is used when present; otherwise the display name
is searched and the first hit's page image is tried. Artists without a
portrait get a deterministic placeholder (initial and hue).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (YAML); defaults to $KALA_CONFIG")
	pf.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the configuration")
	pf.StringVar(&opts.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")

	cmd.AddCommand(
		newResolveCmd(opts),
		newCollectionCmd(opts),
		newWatchCmd(opts),
		newCheckCmd(opts),
		newCacheCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kala %s\n", version.String())
		},
	}
}
