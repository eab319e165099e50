package metrics

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/sydlexius/kala/internal/event"
)

func TestHandleResolutions(t *testing.T) {
	m := New()
	m.Handle(event.Event{Type: event.ThumbnailResolved, Data: map[string]any{
		"stage": "primary", "degraded": false, "duration_ms": int64(120),
	}})
	m.Handle(event.Event{Type: event.ThumbnailResolved, Data: map[string]any{
		"stage": "search", "degraded": true, "duration_ms": int64(900),
	}})
	m.Handle(event.Event{Type: event.ThumbnailMissing, Data: map[string]any{
		"stage": "none", "degraded": true,
	}})
	m.Handle(event.Event{Type: event.ThumbnailMissing})

	if got := testutil.ToFloat64(m.resolutions.WithLabelValues(OutcomeFound, "primary")); got != 1 {
		t.Errorf("found/primary = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.resolutions.WithLabelValues(OutcomeFound, "search")); got != 1 {
		t.Errorf("found/search = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.resolutions.WithLabelValues(OutcomeNotFound, "none")); got != 2 {
		t.Errorf("not_found/none = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.degraded); got != 2 {
		t.Errorf("degraded = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(m.duration); n != 1 {
		t.Errorf("expected one histogram series, got %d", n)
	}
}

func TestHandleCollectionAndBatch(t *testing.T) {
	m := New()
	m.Handle(event.Event{Type: event.CollectionChanged})
	m.Handle(event.Event{Type: event.CollectionChanged})
	m.Handle(event.Event{Type: event.BatchCompleted})

	if got := testutil.ToFloat64(m.reloads); got != 2 {
		t.Errorf("reloads = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.batches); got != 1 {
		t.Errorf("batches = %v, want 1", got)
	}
}

func TestSubscribe(t *testing.T) {
	bus := event.NewBus(slog.New(slog.DiscardHandler), 8)
	m := New()
	m.Subscribe(bus)
	go bus.Start()

	bus.Publish(event.Event{Type: event.CollectionChanged})
	bus.Stop()
	<-bus.Finished()

	if got := testutil.ToFloat64(m.reloads); got != 1 {
		t.Errorf("reloads = %v, want 1", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Handle(event.Event{Type: event.ThumbnailResolved, Data: map[string]any{"stage": "primary"}})

	path := filepath.Join(t.TempDir(), "kala.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `kala_thumbnail_resolutions_total{outcome="found",stage="primary"} 1`
	if !strings.Contains(string(data), want) {
		t.Errorf("textfile missing %q:\n%s", want, data)
	}
}

func TestWriteTextfileBadPath(t *testing.T) {
	m := New()
	if err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "kala.prom")); err == nil {
		t.Error("expected error for missing directory")
	}
}
