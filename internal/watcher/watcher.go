// Package watcher reloads the artist collection when its file changes.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sydlexius/kala/internal/event"
)

// ReloadFunc is called once per coalesced burst of changes to the file.
type ReloadFunc func(ctx context.Context) error

// Service watches one collection file. Editors often save by renaming a
// temporary file over the original, so the parent directory is watched and
// events are filtered by name.
type Service struct {
	path         string
	reload       ReloadFunc
	eventBus     *event.Bus
	logger       *slog.Logger
	debounce     time.Duration
	pollInterval time.Duration
	pollOnly     bool
}

// NewService creates a watcher for the file at path.
func NewService(path string, reload ReloadFunc, logger *slog.Logger) *Service {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &Service{
		path:         filepath.Clean(path),
		reload:       reload,
		logger:       logger.With(slog.String("component", "collection-watcher")),
		debounce:     500 * time.Millisecond,
		pollInterval: 30 * time.Second,
	}
}

// SetEventBus attaches a bus for collection.changed events.
func (s *Service) SetEventBus(b *event.Bus) {
	s.eventBus = b
}

// SetDebounce overrides the default debounce interval.
func (s *Service) SetDebounce(d time.Duration) {
	s.debounce = d
}

// SetPollInterval overrides how often the file is polled when fsnotify is
// not in use.
func (s *Service) SetPollInterval(d time.Duration) {
	s.pollInterval = d
}

// SetPollOnly disables fsnotify, for filesystems that do not deliver
// events (see ProbeFSNotify).
func (s *Service) SetPollOnly(v bool) {
	s.pollOnly = v
}

// Start blocks until ctx is canceled. If fsnotify is unavailable the file
// is polled for modification time and size changes instead.
func (s *Service) Start(ctx context.Context) {
	var eventCh <-chan fsnotify.Event
	var errCh <-chan error

	if !s.pollOnly {
		w, err := s.newWatcher()
		if err != nil {
			s.logger.Warn("fsnotify unavailable, polling collection file", slog.Any("error", err))
		} else {
			defer w.Close() //nolint:errcheck
			eventCh = w.Events
			errCh = w.Errors
		}
	}

	var pollCh <-chan time.Time
	if eventCh == nil {
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		pollCh = ticker.C
	}
	last := stampOf(s.path)

	debounceTimer := time.NewTimer(0)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	pending := false
	schedule := func() {
		if !debounceTimer.Stop() {
			select {
			case <-debounceTimer.C:
			default:
			}
		}
		debounceTimer.Reset(s.debounce)
		pending = true
	}

	s.logger.Info("collection watcher starting",
		slog.String("path", s.path),
		slog.Bool("polling", eventCh == nil))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("collection watcher stopping")
			return

		case ev, ok := <-eventCh:
			if !ok {
				return
			}
			if s.relevant(ev) {
				s.logger.Debug("collection file event", slog.String("op", ev.Op.String()))
				schedule()
			}

		case err, ok := <-errCh:
			if !ok {
				return
			}
			s.logger.Error("fsnotify error", slog.Any("error", err))

		case <-pollCh:
			if now := stampOf(s.path); now != last {
				last = now
				schedule()
			}

		case <-debounceTimer.C:
			if pending {
				pending = false
				s.fire(ctx)
			}
		}
	}
}

func (s *Service) newWatcher() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close() //nolint:errcheck
		return nil, err
	}
	return w, nil
}

func (s *Service) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != s.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

// fire reloads the collection unless the file is gone, in which case the
// previous collection stays in effect until the file reappears.
func (s *Service) fire(ctx context.Context) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("collection file removed, keeping previous collection", slog.String("path", s.path))
		return
	}

	s.logger.Info("collection file changed, reloading", slog.String("path", s.path))
	if err := s.reload(ctx); err != nil {
		s.logger.Error("reloading collection", slog.String("path", s.path), slog.Any("error", err))
		return
	}

	if s.eventBus != nil {
		s.eventBus.Publish(event.Event{
			Type: event.CollectionChanged,
			Data: map[string]any{"path": s.path},
		})
	}
}

type fileStamp struct {
	exists  bool
	size    int64
	modTime time.Time
}

func stampOf(path string) fileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{exists: true, size: info.Size(), modTime: info.ModTime()}
}
