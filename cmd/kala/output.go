package main

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/sydlexius/kala/internal/artist"
	"github.com/sydlexius/kala/internal/placeholder"
	"github.com/sydlexius/kala/internal/thumbnail"
)

const placeholderAlpha = 0.6

type placeholderView struct {
	Initial    string `json:"initial"`
	Hue        int    `json:"hue"`
	Background string `json:"background"`
	Foreground string `json:"foreground"`
}

// record is one JSON line of command output.
type record struct {
	ID          int              `json:"id,omitempty"`
	Name        string           `json:"name"`
	SourceURL   string           `json:"source_url"`
	Genre       string           `json:"genre,omitempty"`
	Status      thumbnail.Status `json:"status"`
	ImageURL    string           `json:"image_url,omitempty"`
	Stage       thumbnail.Stage  `json:"stage"`
	Placeholder *placeholderView `json:"placeholder,omitempty"`
}

// newRecord describes a resolution. The placeholder is included only when
// no image was found.
func newRecord(a artist.Artist, res thumbnail.Result) record {
	r := record{
		ID:        a.ID,
		Name:      a.Name,
		SourceURL: a.Wikipedia,
		Genre:     a.PrimaryGenre(),
		Status:    res.Status,
		ImageURL:  res.ImageURL,
		Stage:     res.Stage,
	}
	if !res.IsFound() {
		style := placeholder.Derive(a.Name)
		r.Placeholder = &placeholderView{
			Initial:    style.Initial,
			Hue:        style.Hue,
			Background: style.Background(),
			Foreground: style.Foreground(placeholderAlpha),
		}
	}
	return r
}

// printer writes JSON lines; it is safe for concurrent use.
type printer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func newPrinter(w io.Writer) *printer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &printer{enc: enc}
}

func (p *printer) print(v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enc.Encode(v)
}
