package event

import (
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestPublishSubscribe(t *testing.T) {
	bus := NewBus(testLogger(), 16)
	go bus.Start()

	var mu sync.Mutex
	var received []Event

	bus.Subscribe(ThumbnailResolved, func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, e)
	})

	bus.Publish(Event{
		Type: ThumbnailResolved,
		Data: map[string]any{"image_url": "https://example.org/img/monet.jpg"},
	})

	bus.Stop()
	<-bus.Finished()

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 1 {
		t.Fatalf("got %d events, want 1", len(received))
	}
	if received[0].Data["image_url"] != "https://example.org/img/monet.jpg" {
		t.Errorf("data[image_url] = %v", received[0].Data["image_url"])
	}
	if received[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
	if received[0].ID == "" {
		t.Error("expected id to be set")
	}
}

func TestSubscribeAll(t *testing.T) {
	bus := NewBus(testLogger(), 16)
	go bus.Start()

	var mu sync.Mutex
	seen := make(map[Type]int)
	bus.SubscribeAll(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		seen[e.Type]++
	})

	for _, typ := range AllTypes() {
		bus.Publish(Event{Type: typ})
	}
	bus.Stop()
	<-bus.Finished()

	mu.Lock()
	defer mu.Unlock()
	for _, typ := range AllTypes() {
		if seen[typ] != 1 {
			t.Errorf("type %s seen %d times, want 1", typ, seen[typ])
		}
	}
}

func TestMultipleSubscribers(t *testing.T) {
	bus := NewBus(testLogger(), 16)
	go bus.Start()

	var mu sync.Mutex
	count := 0

	for range 3 {
		bus.Subscribe(BatchCompleted, func(_ Event) {
			mu.Lock()
			defer mu.Unlock()
			count++
		})
	}

	bus.Publish(Event{Type: BatchCompleted})
	bus.Stop()
	<-bus.Finished()

	mu.Lock()
	defer mu.Unlock()
	if count != 3 {
		t.Errorf("got %d handler calls, want 3", count)
	}
}

func TestNoSubscribers(t *testing.T) {
	bus := NewBus(testLogger(), 16)
	go bus.Start()
	defer bus.Stop()

	// Should not panic
	bus.Publish(Event{Type: CollectionChanged})
	time.Sleep(20 * time.Millisecond)
}

func TestBufferFull(t *testing.T) {
	bus := NewBus(testLogger(), 2)
	// Do NOT start the bus -- events will accumulate in the channel

	bus.Publish(Event{Type: ThumbnailMissing})
	bus.Publish(Event{Type: ThumbnailMissing})
	// Third event should be dropped (buffer full)
	bus.Publish(Event{Type: ThumbnailMissing})
	// No panic or deadlock expected
}

func TestHandlerPanicRecovery(t *testing.T) {
	bus := NewBus(testLogger(), 16)
	go bus.Start()

	var mu sync.Mutex
	secondCalled := false

	bus.Subscribe(ThumbnailMissing, func(_ Event) {
		panic("test panic")
	})
	bus.Subscribe(ThumbnailMissing, func(_ Event) {
		mu.Lock()
		defer mu.Unlock()
		secondCalled = true
	})

	bus.Publish(Event{Type: ThumbnailMissing})
	bus.Stop()
	<-bus.Finished()

	mu.Lock()
	defer mu.Unlock()
	if !secondCalled {
		t.Error("second handler should still be called after first panics")
	}
}

func TestStopDrainsBuffer(t *testing.T) {
	bus := NewBus(testLogger(), 16)

	var mu sync.Mutex
	count := 0

	bus.Subscribe(ThumbnailResolved, func(_ Event) {
		mu.Lock()
		defer mu.Unlock()
		count++
	})

	// Publish before starting
	bus.Publish(Event{Type: ThumbnailResolved})
	bus.Publish(Event{Type: ThumbnailResolved})

	bus.Stop()
	go bus.Start()

	select {
	case <-bus.Finished():
	case <-time.After(time.Second):
		t.Fatal("bus did not finish")
	}

	mu.Lock()
	defer mu.Unlock()
	if count != 2 {
		t.Errorf("got %d events, want 2 (all drained)", count)
	}
}
