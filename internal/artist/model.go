package artist

import (
	"net/url"
	"strings"
)

// DefaultWikiBaseURL is the article prefix used when building identities
// from classifier labels.
const DefaultWikiBaseURL = "https://en.wikipedia.org/wiki/"

const wikiMarker = "/wiki/"

// Identity is the (display name, article URL) pair that identifies one
// artist for thumbnail lookup. It is a value type and never mutated.
type Identity struct {
	DisplayName string `json:"display_name" yaml:"name"`
	SourceURL   string `json:"source_url" yaml:"wikipedia"`
}

// PageTitle extracts the decoded encyclopedia page title from SourceURL.
// The second return value is false only when the URL carries no /wiki/
// segment. A segment that does not decode yields an empty title with ok
// set, so callers can skip the exact-title lookup and still search by
// name. Underscores are kept as-is since the encyclopedia treats them as
// spaces.
func (id Identity) PageTitle() (string, bool) {
	parts := strings.Split(id.SourceURL, wikiMarker)
	if len(parts) < 2 {
		return "", false
	}
	title, err := url.PathUnescape(parts[1])
	if err != nil {
		return "", true
	}
	return title, true
}

// Key returns the string used to deduplicate and cache lookups for this
// identity.
func (id Identity) Key() string {
	return id.SourceURL + "\t" + id.DisplayName
}

// Artist is one entry of an artist collection.
type Artist struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Years       string `json:"years,omitempty" yaml:"years"`
	Genre       string `json:"genre,omitempty" yaml:"genre"`
	Nationality string `json:"nationality,omitempty" yaml:"nationality"`
	Bio         string `json:"bio,omitempty" yaml:"bio"`
	Wikipedia   string `json:"wikipedia" yaml:"wikipedia"`
	Paintings   int    `json:"paintings,omitempty" yaml:"paintings"`
}

// Identity returns the lookup identity of the artist.
func (a Artist) Identity() Identity {
	return Identity{DisplayName: a.Name, SourceURL: a.Wikipedia}
}

// PrimaryGenre returns the first comma-separated genre, trimmed.
func (a Artist) PrimaryGenre() string {
	g, _, _ := strings.Cut(a.Genre, ",")
	return strings.TrimSpace(g)
}

// IdentityFromLabel builds an identity from a classifier label such as
// "Claude_Monet". The display name is cleaned for presentation and the
// article URL is baseURL followed by the name with spaces as underscores.
// An empty baseURL selects DefaultWikiBaseURL.
func IdentityFromLabel(label, baseURL string) Identity {
	if baseURL == "" {
		baseURL = DefaultWikiBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	name := CleanName(label)
	return Identity{
		DisplayName: name,
		SourceURL:   baseURL + strings.ReplaceAll(name, " ", "_"),
	}
}

var nameFixes = []struct{ old, new string }{
	{"Du rer", "Dürer"},
	{"Duerer", "Dürer"},
	{"Vasiliy Kandinskiy", "Wassily Kandinsky"},
}

// CleanName converts a classifier label to a display name.
func CleanName(label string) string {
	name := strings.ReplaceAll(label, "_", " ")
	for _, f := range nameFixes {
		name = strings.ReplaceAll(name, f.old, f.new)
	}
	return strings.TrimSpace(name)
}
