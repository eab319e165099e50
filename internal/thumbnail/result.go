// Package thumbnail resolves artist identities to portrait image URLs.
//
// Resolution is best-effort: an exact page-image lookup on the article
// title, then a search-assisted lookup on the display name. Every failure
// collapses to NotFound so callers only ever decide between showing the
// image and showing the placeholder.
package thumbnail

// Status is the outcome of a resolution.
type Status string

// Resolution outcomes.
const (
	StatusFound    Status = "found"
	StatusNotFound Status = "not_found"
)

// Stage records which lookup produced a Result. It is diagnostic only.
type Stage string

// Lookup stages.
const (
	StagePrimary Stage = "primary"
	StageSearch  Stage = "search"
	StageCache   Stage = "cache"
	StageNone    Stage = "none"
)

// Result is the resolution outcome for one identity.
type Result struct {
	Status   Status `json:"status"`
	ImageURL string `json:"image_url,omitempty"`
	Stage    Stage  `json:"stage"`
}

// Found returns a found result for imageURL.
func Found(imageURL string, stage Stage) Result {
	return Result{Status: StatusFound, ImageURL: imageURL, Stage: stage}
}

// NotFound returns the result callers render as a placeholder.
func NotFound() Result {
	return Result{Status: StatusNotFound, Stage: StageNone}
}

// IsFound reports whether the result carries an image URL.
func (r Result) IsFound() bool {
	return r.Status == StatusFound && r.ImageURL != ""
}
