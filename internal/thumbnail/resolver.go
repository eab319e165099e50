package thumbnail

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/sydlexius/kala/internal/artist"
	"github.com/sydlexius/kala/internal/cache"
	"github.com/sydlexius/kala/internal/event"
	"github.com/sydlexius/kala/internal/provider"
)

// Defaults applied by NewResolver for zero Options fields.
const (
	DefaultTimeout       = 5 * time.Second
	DefaultMaxConcurrent = 8
)

// Source is the encyclopedia backend the resolver queries.
type Source interface {
	// PageThumbnail returns the thumbnail URL for an exact page title,
	// following redirects. An empty string means the page has no image.
	PageThumbnail(ctx context.Context, title string) (string, error)

	// SearchTitles returns full-text search hit titles in rank order.
	SearchTitles(ctx context.Context, query string) ([]string, error)
}

// Options tunes a Resolver.
type Options struct {
	// Timeout bounds each individual network call.
	Timeout time.Duration
	// MaxConcurrent bounds resolutions running at once across all callers.
	MaxConcurrent int64
}

// Resolver turns artist identities into thumbnail results. It is safe for
// concurrent use; identical identities resolving at the same time share a
// single lookup.
type Resolver struct {
	source  Source
	logger  *slog.Logger
	timeout time.Duration
	sem     *semaphore.Weighted
	flights singleflight.Group

	cache    cache.Store
	eventBus *event.Bus
}

// NewResolver creates a Resolver over source.
func NewResolver(source Source, logger *slog.Logger, opts Options) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	return &Resolver{
		source:  source,
		logger:  logger.With(slog.String("component", "thumbnail-resolver")),
		timeout: opts.Timeout,
		sem:     semaphore.NewWeighted(opts.MaxConcurrent),
	}
}

// SetCache attaches a result cache. A nil store disables caching.
func (r *Resolver) SetCache(s cache.Store) {
	r.cache = s
}

// SetEventBus attaches an event bus for resolution events.
func (r *Resolver) SetEventBus(b *event.Bus) {
	r.eventBus = b
}

// Resolve returns the thumbnail for id, or NotFound. It never fails: a
// source URL without an article segment, a missing page, a transport error
// and a malformed response all end in NotFound. An empty or undecodable
// title skips the exact-title lookup and goes straight to search. If ctx is canceled before the lookup
// completes the caller receives NotFound while any other caller sharing
// the lookup still gets its result.
func (r *Resolver) Resolve(ctx context.Context, id artist.Identity) Result {
	title, ok := id.PageTitle()
	if !ok {
		r.logger.Debug("source url has no article title",
			slog.String("artist", id.DisplayName),
			slog.String("source_url", id.SourceURL))
		r.publish(id, NotFound(), false, 0)
		return NotFound()
	}

	ch := r.flights.DoChan(id.Key(), func() (any, error) {
		return r.lookup(context.WithoutCancel(ctx), id, title), nil
	})

	select {
	case res := <-ch:
		return res.Val.(Result)
	case <-ctx.Done():
		return NotFound()
	}
}

func (r *Resolver) lookup(ctx context.Context, id artist.Identity, title string) Result {
	start := time.Now()
	log := r.logger.With(slog.String("artist", id.DisplayName))

	if r.cache != nil {
		e, ok, err := r.cache.Get(ctx, id.Key())
		switch {
		case err != nil:
			log.Warn("reading thumbnail cache", slog.Any("error", err))
		case ok:
			res := NotFound()
			if e.Found && e.ImageURL != "" {
				res = Found(e.ImageURL, StageCache)
			}
			log.Debug("thumbnail cache hit", slog.String("status", string(res.Status)))
			r.publish(id, res, false, time.Since(start))
			return res
		}
	}

	if err := r.sem.Acquire(ctx, 1); err != nil {
		return NotFound()
	}
	defer r.sem.Release(1)

	res, degraded := r.run(ctx, log, id, title)

	if r.cache != nil && (res.IsFound() || !degraded) {
		if err := r.cache.Set(ctx, id.Key(), cache.Entry{ImageURL: res.ImageURL, Found: res.IsFound()}); err != nil {
			log.Warn("writing thumbnail cache", slog.Any("error", err))
		}
	}

	r.publish(id, res, degraded, time.Since(start))
	return res
}

// run performs the primary, search and secondary lookups in order. The
// degraded flag is set when any stage failed for a reason other than the
// page not existing.
func (r *Resolver) run(ctx context.Context, log *slog.Logger, id artist.Identity, title string) (Result, bool) {
	degraded := false

	if title == "" {
		log.Debug("source url has an empty or undecodable title, skipping primary lookup",
			slog.String("source_url", id.SourceURL))
	} else {
		thumb, err := r.pageThumbnail(ctx, title)
		if err != nil {
			degraded = !isNotFound(err)
			log.Debug("primary lookup yielded nothing", slog.String("title", title), slog.Any("error", err))
		}
		if thumb != "" {
			log.Debug("primary lookup found thumbnail", slog.String("title", title))
			return Found(thumb, StagePrimary), degraded
		}
	}

	query := NormalizeQuery(id.DisplayName)
	if query == "" {
		return NotFound(), degraded
	}

	titles, err := r.searchTitles(ctx, query)
	if err != nil {
		degraded = degraded || !isNotFound(err)
		log.Warn("fallback search failed", slog.String("query", query), slog.Any("error", err))
	}
	if len(titles) == 0 {
		log.Debug("fallback search returned no results", slog.String("query", query))
		return NotFound(), degraded
	}
	if titles[0] == "" {
		log.Debug("first search hit has no title", slog.String("query", query))
		return NotFound(), degraded
	}

	thumb, err := r.pageThumbnail(ctx, titles[0])
	if err != nil {
		degraded = degraded || !isNotFound(err)
		log.Debug("secondary lookup yielded nothing", slog.String("title", titles[0]), slog.Any("error", err))
	}
	if thumb != "" {
		log.Debug("secondary lookup found thumbnail", slog.String("title", titles[0]))
		return Found(thumb, StageSearch), degraded
	}
	return NotFound(), degraded
}

func (r *Resolver) pageThumbnail(ctx context.Context, title string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.source.PageThumbnail(ctx, title)
}

func (r *Resolver) searchTitles(ctx context.Context, query string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.source.SearchTitles(ctx, query)
}

func (r *Resolver) publish(id artist.Identity, res Result, degraded bool, elapsed time.Duration) {
	if r.eventBus == nil {
		return
	}
	typ := event.ThumbnailMissing
	if res.IsFound() {
		typ = event.ThumbnailResolved
	}
	r.eventBus.Publish(event.Event{
		Type: typ,
		Data: map[string]any{
			"artist":      id.DisplayName,
			"source_url":  id.SourceURL,
			"image_url":   res.ImageURL,
			"stage":       string(res.Stage),
			"degraded":    degraded,
			"duration_ms": elapsed.Milliseconds(),
		},
	})
}

func isNotFound(err error) bool {
	var nf *provider.ErrNotFound
	return errors.As(err, &nf)
}
