package wikipedia

// MediaWiki Action API response types.

// missingPageID is the page id the API reports for titles that do not exist.
const missingPageID = "-1"

// QueryResponse is the top-level response from action=query.
type QueryResponse struct {
	Query *QueryResult `json:"query"`
	Error *APIError    `json:"error,omitempty"`
}

// QueryResult wraps the page map and search hits.
type QueryResult struct {
	Redirects []Redirect      `json:"redirects,omitempty"`
	Pages     map[string]Page `json:"pages,omitempty"`
	Search    []SearchHit     `json:"search,omitempty"`
}

// Redirect records a title the API followed because of redirects=1.
type Redirect struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Page is the metadata for one page id.
type Page struct {
	PageID    int        `json:"pageid,omitempty"`
	Title     string     `json:"title"`
	Missing   *string    `json:"missing,omitempty"`
	Invalid   *string    `json:"invalid,omitempty"`
	Thumbnail *Thumbnail `json:"thumbnail,omitempty"`
}

// Thumbnail is a scaled page image.
type Thumbnail struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SearchHit is a single full-text search result.
type SearchHit struct {
	NS     int    `json:"ns"`
	Title  string `json:"title"`
	PageID int    `json:"pageid"`
}

// APIError is the error object MediaWiki returns with HTTP 200.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}
