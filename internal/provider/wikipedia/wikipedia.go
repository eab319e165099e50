package wikipedia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/sydlexius/kala/internal/provider"
)

const (
	// DefaultEndpoint is the English Wikipedia Action API.
	DefaultEndpoint = "https://en.wikipedia.org/w/api.php"
	// DefaultThumbSize is the long-edge pixel size requested for thumbnails.
	DefaultThumbSize = 300
	// DefaultUserAgent identifies the client to the API operators.
	DefaultUserAgent = "Kala/1.0 (https://github.com/sydlexius/kala)"

	searchLimit = 5
	maxBodySize = 2 << 20
)

// Options configures an Adapter. Zero values select the defaults.
type Options struct {
	Endpoint  string
	ThumbSize int
	UserAgent string
	Timeout   time.Duration
}

// Adapter queries the MediaWiki Action API for page thumbnails and
// full-text search hits.
type Adapter struct {
	client    *http.Client
	limiter   *provider.RateLimiterMap
	logger    *slog.Logger
	endpoint  string
	thumbSize int
	userAgent string
}

// New creates a Wikipedia adapter with the default endpoint.
func New(limiter *provider.RateLimiterMap, logger *slog.Logger) *Adapter {
	return NewWithOptions(limiter, logger, Options{})
}

// NewWithEndpoint creates a Wikipedia adapter with a custom endpoint (for testing).
func NewWithEndpoint(limiter *provider.RateLimiterMap, logger *slog.Logger, endpoint string) *Adapter {
	return NewWithOptions(limiter, logger, Options{Endpoint: endpoint})
}

// NewWithOptions creates a Wikipedia adapter from explicit options.
func NewWithOptions(limiter *provider.RateLimiterMap, logger *slog.Logger, opts Options) *Adapter {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.ThumbSize <= 0 {
		opts.ThumbSize = DefaultThumbSize
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Adapter{
		client:    &http.Client{Timeout: opts.Timeout},
		limiter:   limiter,
		logger:    logger.With(slog.String("provider", "wikipedia")),
		endpoint:  opts.Endpoint,
		thumbSize: opts.ThumbSize,
		userAgent: opts.UserAgent,
	}
}

// Name returns the provider name.
func (a *Adapter) Name() provider.ProviderName { return provider.NameWikipedia }

// PageThumbnail returns the thumbnail URL of the page with the exact title,
// following redirects. It returns ErrNotFound when the title does not exist
// and an empty string when the page exists but has no page image.
func (a *Adapter) PageThumbnail(ctx context.Context, title string) (string, error) {
	params := url.Values{
		"action":      {"query"},
		"prop":        {"pageimages"},
		"piprop":      {"thumbnail"},
		"pithumbsize": {strconv.Itoa(a.thumbSize)},
		"redirects":   {"1"},
		"titles":      {title},
	}
	result, err := a.query(ctx, params)
	if err != nil {
		return "", err
	}

	for _, r := range result.Redirects {
		a.logger.Debug("title redirected", slog.String("from", r.From), slog.String("to", r.To))
	}

	page, ok := firstPage(result.Pages)
	if !ok {
		return "", &provider.ErrNotFound{Provider: provider.NameWikipedia, ID: title}
	}
	if page.Thumbnail == nil {
		return "", nil
	}
	return page.Thumbnail.Source, nil
}

// SearchTitles runs a full-text search and returns hit titles in rank order,
// exactly as received.
func (a *Adapter) SearchTitles(ctx context.Context, query string) ([]string, error) {
	params := url.Values{
		"action":      {"query"},
		"list":        {"search"},
		"srsearch":    {query},
		"srnamespace": {"0"},
		"srlimit":     {strconv.Itoa(searchLimit)},
	}
	result, err := a.query(ctx, params)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(result.Search))
	for _, hit := range result.Search {
		titles = append(titles, hit.Title)
	}

	a.logger.Debug("search completed",
		slog.String("query", query),
		slog.Int("results", len(titles)))

	return titles, nil
}

// TestConnection verifies connectivity to the API endpoint.
func (a *Adapter) TestConnection(ctx context.Context) error {
	_, err := a.query(ctx, url.Values{
		"action": {"query"},
		"meta":   {"siteinfo"},
	})
	return err
}

func (a *Adapter) query(ctx context.Context, params url.Values) (*QueryResult, error) {
	if err := a.limiter.Wait(ctx, provider.NameWikipedia); err != nil {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameWikipedia,
			Cause:    fmt.Errorf("rate limiter: %w", err),
		}
	}

	params.Set("format", "json")
	reqURL := a.endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req) //nolint:gosec // URL constructed from configured API endpoint
	if err != nil {
		return nil, &provider.ErrProviderUnavailable{
			Provider: provider.NameWikipedia,
			Cause:    err,
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		unavailable := &provider.ErrProviderUnavailable{
			Provider: provider.NameWikipedia,
			Cause:    fmt.Errorf("HTTP %d", resp.StatusCode),
		}
		if s := resp.Header.Get("Retry-After"); s != "" {
			if secs, convErr := strconv.Atoi(s); convErr == nil {
				unavailable.RetryAfter = time.Duration(secs) * time.Second
			}
		}
		return nil, unavailable
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var qr QueryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("parsing query response: %w", err)
	}
	if qr.Error != nil {
		return nil, fmt.Errorf("api error %s: %s", qr.Error.Code, qr.Error.Info)
	}
	if qr.Query == nil {
		return &QueryResult{}, nil
	}
	return qr.Query, nil
}

// firstPage returns the first page in id order, skipping the sentinel
// missing-page entry and pages flagged missing or invalid.
func firstPage(pages map[string]Page) (Page, bool) {
	ids := make([]string, 0, len(pages))
	for id := range pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := pages[id]
		if id == missingPageID || p.Missing != nil || p.Invalid != nil {
			continue
		}
		return p, true
	}
	return Page{}, false
}
