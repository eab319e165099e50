package thumbnail

import (
	"context"
	"testing"

	"github.com/sydlexius/kala/internal/artist"
)

func TestResolveAll(t *testing.T) {
	src := &fakeSource{
		thumbFn: func(_ context.Context, title string) (string, error) {
			if title == "Titian" {
				return "", nil
			}
			return "https://example.org/img/" + title + ".jpg", nil
		},
	}
	r := NewResolver(src, testLogger(), Options{})

	ids := []artist.Identity{
		artist.IdentityFromLabel("Claude_Monet", ""),
		artist.IdentityFromLabel("Titian", ""),
		artist.IdentityFromLabel("Raphael", ""),
		{DisplayName: "Broken", SourceURL: "nowhere"},
	}
	results, summary := r.ResolveAll(context.Background(), ids, 2)
	if len(results) != len(ids) {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].ImageURL != "https://example.org/img/Claude_Monet.jpg" {
		t.Errorf("result 0 = %+v", results[0])
	}
	if results[1].IsFound() || results[3].IsFound() {
		t.Errorf("expected misses at 1 and 3: %+v %+v", results[1], results[3])
	}
	if results[2].ImageURL != "https://example.org/img/Raphael.jpg" {
		t.Errorf("result 2 = %+v", results[2])
	}
	if summary.Total != 4 || summary.Found != 2 || summary.NotFound != 2 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.ID == "" {
		t.Error("expected batch id")
	}
}
