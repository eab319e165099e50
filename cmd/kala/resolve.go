package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sydlexius/kala/internal/artist"
)

func newResolveCmd(root *rootOptions) *cobra.Command {
	var name, sourceURL, label string

	cmd := &cobra.Command{
		Use:   "resolve [artist]",
		Short: "Resolve the thumbnail for one artist",
		Long: `Resolve the thumbnail for one artist and print it as a JSON line.

The artist is given either by name from the collection, by an explicit
--name and --url pair, or by a classifier --label such as Claude_Monet.`,
		Example: `  kala resolve "Claude Monet"
  kala resolve --name "Vincent van Gogh" --url https://en.wikipedia.org/wiki/Vincent_van_Gogh
  kala resolve --label Henri_de_Toulouse-Lautrec`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			target, err := resolveTarget(a, args, name, sourceURL, label)
			if err != nil {
				return err
			}

			res := a.resolver.Resolve(ctx, target.Identity())
			return newPrinter(a.out).print(newRecord(target, res))
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "artist display name")
	cmd.Flags().StringVar(&sourceURL, "url", "", "artist Wikipedia article URL")
	cmd.Flags().StringVar(&label, "label", "", "classifier label, e.g. Claude_Monet")
	cmd.MarkFlagsRequiredTogether("name", "url")
	cmd.MarkFlagsMutuallyExclusive("name", "label")
	return cmd
}

// resolveTarget picks the artist from exactly one of the accepted forms.
func resolveTarget(a *app, args []string, name, sourceURL, label string) (artist.Artist, error) {
	forms := 0
	for _, set := range []bool{len(args) == 1, name != "", label != ""} {
		if set {
			forms++
		}
	}
	if forms != 1 {
		return artist.Artist{}, errors.New("specify exactly one of: an artist name, --name/--url, or --label")
	}

	switch {
	case name != "":
		return artist.Artist{Name: strings.TrimSpace(name), Wikipedia: strings.TrimSpace(sourceURL)}, nil
	case label != "":
		id := artist.IdentityFromLabel(label, a.cfg.Wikipedia.ArticleBaseURL)
		return artist.Artist{Name: id.DisplayName, Wikipedia: id.SourceURL, Genre: artist.Style(id.DisplayName)}, nil
	}

	c, err := a.loadCollection()
	if err != nil {
		return artist.Artist{}, err
	}
	found, ok := c.Find(args[0])
	if !ok {
		return artist.Artist{}, fmt.Errorf("artist %q is not in collection %s", args[0], c.Source)
	}
	return found, nil
}
