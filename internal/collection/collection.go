// Package collection loads the set of artists whose portraits are resolved.
package collection

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/sydlexius/kala/internal/artist"
)

// SourceBuiltin is the Source of a collection built from the classifier
// catalog.
const SourceBuiltin = "builtin"

// ErrEmpty is returned when a collection file lists no artists.
var ErrEmpty = errors.New("collection has no artists")

// file is the on-disk layout of a collection.
type file struct {
	Artists []artist.Artist `yaml:"artists"`
}

// Collection is an ordered list of artists.
type Collection struct {
	Artists []artist.Artist
	// Source is the file the collection was read from, or SourceBuiltin.
	Source string
}

// Builtin returns the classifier catalog as a collection.
func Builtin(baseURL string) *Collection {
	return &Collection{Artists: artist.Catalog(baseURL), Source: SourceBuiltin}
}

// Load reads the collection at path from fsys. An empty path returns the
// built-in catalog. Entries without an article URL get one derived from
// their name under baseURL; entries without an id are numbered by position.
func Load(fsys afero.Fs, path, baseURL string) (*Collection, error) {
	if path == "" {
		return Builtin(baseURL), nil
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading collection: %w", err)
	}
	return Parse(data, path, baseURL)
}

// Parse decodes and validates collection YAML. source is recorded on the
// result and used in error messages.
func Parse(data []byte, source, baseURL string) (*Collection, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing collection %s: %w", source, err)
	}
	if len(f.Artists) == 0 {
		return nil, fmt.Errorf("%s: %w", source, ErrEmpty)
	}

	seen := make(map[int]int, len(f.Artists))
	for i := range f.Artists {
		a := &f.Artists[i]
		a.Name = strings.TrimSpace(a.Name)
		if a.Name == "" {
			return nil, fmt.Errorf("%s: artist %d: name is required", source, i+1)
		}
		if a.ID == 0 {
			a.ID = i + 1
		}
		if prev, ok := seen[a.ID]; ok {
			return nil, fmt.Errorf("%s: artist %q reuses id %d of entry %d", source, a.Name, a.ID, prev)
		}
		seen[a.ID] = i + 1
		a.Wikipedia = strings.TrimSpace(a.Wikipedia)
		if a.Wikipedia == "" {
			a.Wikipedia = artist.IdentityFromLabel(a.Name, baseURL).SourceURL
		}
	}

	return &Collection{Artists: f.Artists, Source: source}, nil
}

// Len returns the number of artists.
func (c *Collection) Len() int {
	return len(c.Artists)
}

// Identities returns the lookup identity of every artist in order.
func (c *Collection) Identities() []artist.Identity {
	out := make([]artist.Identity, len(c.Artists))
	for i, a := range c.Artists {
		out[i] = a.Identity()
	}
	return out
}

// Find returns the artist whose name matches name, ignoring case.
func (c *Collection) Find(name string) (artist.Artist, bool) {
	for _, a := range c.Artists {
		if strings.EqualFold(a.Name, strings.TrimSpace(name)) {
			return a, true
		}
	}
	return artist.Artist{}, false
}
