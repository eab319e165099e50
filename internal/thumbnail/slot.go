package thumbnail

import (
	"context"
	"sync"

	"github.com/sydlexius/kala/internal/artist"
	"github.com/sydlexius/kala/internal/placeholder"
)

// State is the lifecycle of a Slot.
type State string

// Slot states.
const (
	StateEmpty   State = "empty"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Resolving is the part of Resolver a Slot needs.
type Resolving interface {
	Resolve(ctx context.Context, id artist.Identity) Result
}

// Snapshot is what a renderer needs to draw a slot.
type Snapshot struct {
	Identity    artist.Identity   `json:"identity"`
	State       State             `json:"state"`
	Result      Result            `json:"result"`
	Placeholder placeholder.Style `json:"placeholder"`
}

// Slot holds the thumbnail for one rendering position. Each Load starts a
// new generation and cancels the previous one; a completion is applied
// only while its generation is current, so a stale result never replaces
// the state of a newer identity.
type Slot struct {
	resolver Resolving
	onChange func(Snapshot)

	mu       sync.Mutex
	gen      uint64
	cancel   context.CancelFunc
	identity artist.Identity
	state    State
	result   Result

	notifyMu sync.Mutex
}

// NewSlot creates an empty slot. onChange, if not nil, is called after
// every applied transition; it must not call back into the slot's Load or
// Close.
func NewSlot(resolver Resolving, onChange func(Snapshot)) *Slot {
	return &Slot{
		resolver: resolver,
		onChange: onChange,
		state:    StateEmpty,
	}
}

// Load switches the slot to id and starts resolving it. The returned
// channel is closed when this generation's resolution has finished,
// whether its result was applied or discarded.
func (s *Slot) Load(ctx context.Context, id artist.Identity) <-chan struct{} {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.identity = id
	s.state = StateLoading
	s.result = Result{}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(gen, snap)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()

		res := s.resolver.Resolve(ctx, id)

		s.mu.Lock()
		if gen != s.gen {
			s.mu.Unlock()
			return
		}
		s.state = StateReady
		s.result = res
		s.cancel = nil
		snap := s.snapshotLocked()
		s.mu.Unlock()

		s.notify(gen, snap)
	}()
	return done
}

// Close cancels any in-flight resolution and empties the slot.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.identity = artist.Identity{}
	s.state = StateEmpty
	s.result = Result{}
}

// Snapshot returns the current slot state.
func (s *Slot) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Slot) snapshotLocked() Snapshot {
	return Snapshot{
		Identity:    s.identity,
		State:       s.state,
		Result:      s.result,
		Placeholder: placeholder.Derive(s.identity.DisplayName),
	}
}

// notify delivers snap unless a newer generation has started meanwhile.
func (s *Slot) notify(gen uint64, snap Snapshot) {
	if s.onChange == nil {
		return
	}
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	current := s.gen
	s.mu.Unlock()
	if gen != current {
		return
	}
	s.onChange(snap)
}
