package main

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/sydlexius/kala/internal/artist"
	"github.com/sydlexius/kala/internal/collection"
	"github.com/sydlexius/kala/internal/maintenance"
	"github.com/sydlexius/kala/internal/thumbnail"
	"github.com/sydlexius/kala/internal/watcher"
)

func newWatchCmd(root *rootOptions) *cobra.Command {
	var (
		debounce        time.Duration
		pollOnly        bool
		metricsInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Resolve the collection and re-resolve it whenever the file changes",
		Long: `Resolve every artist in the collection file, then keep watching the file.
On each change only positions whose artist changed are resolved again;
lookups still in flight for replaced artists are canceled and their
results discarded. Each completed resolution is printed as a JSON line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cmd, root)
			if err != nil {
				return err
			}
			defer a.Close()

			path := a.cfg.Collection.Path
			if path == "" {
				return errors.New("watch needs a collection file (collection.path or KALA_COLLECTION_PATH)")
			}

			c, err := a.loadCollection()
			if err != nil {
				return err
			}
			b := newBoard(a.resolver, newPrinter(a.out), a.logger)
			defer b.close()
			b.apply(ctx, c)

			if a.sqlite != nil && a.cfg.Cache.MaintenanceInterval > 0 {
				maint := maintenance.NewService(a.db, a.cfg.Cache.Path, a.sqlite, a.logger)
				go maint.StartScheduler(ctx, a.cfg.Cache.MaintenanceInterval)
			}
			if a.cfg.Metrics.TextfilePath != "" && metricsInterval > 0 {
				go exportMetrics(ctx, a, metricsInterval)
			}

			svc := watcher.NewService(path, func(ctx context.Context) error {
				c, err := a.loadCollection()
				if err != nil {
					return err
				}
				b.apply(ctx, c)
				return nil
			}, a.logger)
			svc.SetEventBus(a.bus)
			if debounce > 0 {
				svc.SetDebounce(debounce)
			}
			if pollOnly || !watcher.ProbeFSNotify(filepath.Dir(path), 2*time.Second) {
				svc.SetPollOnly(true)
			}

			svc.Start(ctx)
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 0, "quiet period before reloading after a change (default 500ms)")
	cmd.Flags().BoolVar(&pollOnly, "poll", false, "poll the file instead of using filesystem notifications")
	cmd.Flags().DurationVar(&metricsInterval, "metrics-interval", 15*time.Second, "how often to refresh the metrics textfile")
	return cmd
}

func exportMetrics(ctx context.Context, a *app, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil {
				a.logger.Warn("exporting metrics", slog.Any("error", err))
			}
		}
	}
}

// position is one slot of the board and the artist currently assigned to it.
type position struct {
	slot   *thumbnail.Slot
	artist atomic.Pointer[artist.Artist]
}

// board keeps one thumbnail slot per collection position.
type board struct {
	resolver thumbnail.Resolving
	printer  *printer
	logger   *slog.Logger

	mu        sync.Mutex
	positions []*position
}

func newBoard(resolver thumbnail.Resolving, p *printer, logger *slog.Logger) *board {
	return &board{resolver: resolver, printer: p, logger: logger}
}

// apply assigns c's artists to positions. Positions whose identity did not
// change keep their slot state; others start a new load, superseding any
// load in flight.
func (b *board) apply(ctx context.Context, c *collection.Collection) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, pos := range b.positions[min(len(c.Artists), len(b.positions)):] {
		pos.slot.Close()
	}
	if len(b.positions) > len(c.Artists) {
		b.positions = b.positions[:len(c.Artists)]
	}

	for i, art := range c.Artists {
		if i == len(b.positions) {
			pos := &position{}
			pos.slot = thumbnail.NewSlot(b.resolver, func(snap thumbnail.Snapshot) {
				b.changed(pos, snap)
			})
			b.positions = append(b.positions, pos)
		}
		pos := b.positions[i]
		pos.artist.Store(&art)

		snap := pos.slot.Snapshot()
		if snap.State != thumbnail.StateEmpty && snap.Identity == art.Identity() {
			continue
		}
		pos.slot.Load(ctx, art.Identity())
	}

	b.logger.Info("collection applied",
		slog.String("source", c.Source),
		slog.Int("artists", len(c.Artists)))
}

// changed prints a position once its slot is ready. Slot notifications for
// superseded loads never arrive here.
func (b *board) changed(pos *position, snap thumbnail.Snapshot) {
	if snap.State != thumbnail.StateReady {
		return
	}
	art := pos.artist.Load()
	if art == nil || art.Identity() != snap.Identity {
		return
	}
	if err := b.printer.print(newRecord(*art, snap.Result)); err != nil {
		b.logger.Error("writing result", slog.Any("error", err))
	}
}

func (b *board) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, pos := range b.positions {
		pos.slot.Close()
	}
}
