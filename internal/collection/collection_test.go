package collection

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func memFS(t *testing.T, path string, data []byte) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return fsys
}

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("loading fixture %s: %v", name, err)
	}
	return data
}

func TestLoadBuiltin(t *testing.T) {
	c, err := Load(afero.NewMemMapFs(), "", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Source != SourceBuiltin {
		t.Errorf("source = %q", c.Source)
	}
	if c.Len() != 51 {
		t.Errorf("expected 51 artists, got %d", c.Len())
	}
}

func TestLoadFile(t *testing.T) {
	fsys := memFS(t, "/etc/kala/artists.yaml", loadFixture(t, "artists.yaml"))

	c, err := Load(fsys, "/etc/kala/artists.yaml", "https://en.example.org/wiki/")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 artists, got %d", c.Len())
	}
	if c.Artists[0].Paintings != 73 || c.Artists[0].Nationality != "French" {
		t.Errorf("first artist = %+v", c.Artists[0])
	}

	frida := c.Artists[2]
	if frida.Name != "Frida Kahlo" {
		t.Errorf("name not trimmed: %q", frida.Name)
	}
	if frida.ID != 3 {
		t.Errorf("id = %d, want positional 3", frida.ID)
	}
	if frida.Wikipedia != "https://en.example.org/wiki/Frida_Kahlo" {
		t.Errorf("derived wikipedia = %q", frida.Wikipedia)
	}
	if frida.PrimaryGenre() != "Primitivism" {
		t.Errorf("primary genre = %q", frida.PrimaryGenre())
	}

	ids := c.Identities()
	if len(ids) != 3 || ids[1].DisplayName != "Vincent van Gogh" ||
		ids[1].SourceURL != "https://en.wikipedia.org/wiki/Vincent_van_Gogh" {
		t.Errorf("identities = %+v", ids)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "artists.yaml", "")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"empty", "artists: []\n", "no artists"},
		{"no name", "artists:\n  - genre: Cubism\n", "name is required"},
		{"duplicate id", "artists:\n  - {id: 4, name: A}\n  - {id: 4, name: B}\n", "reuses id 4"},
		{"bad yaml", "artists: [\n", "parsing collection"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "test.yaml", "")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestFind(t *testing.T) {
	c := Builtin("")
	a, ok := c.Find("  claude monet")
	if !ok || a.Name != "Claude Monet" {
		t.Errorf("Find = %+v, %v", a, ok)
	}
	if _, ok := c.Find("Nobody"); ok {
		t.Error("expected no match")
	}
}
