package keychord

import (
	"sync"

	"github.com/rs/zerolog"
)

// FakeBackend feeds synthetic canonical key transitions through the real
// chord tracker, registration table and dispatcher. It exists for tests and
// for headless hosts that receive key events from elsewhere.
type FakeBackend struct {
	mu      sync.Mutex
	tracker *chordTracker
	stopped bool
}

// NewFake constructs a Hook driven by a synthetic backend instead of a
// platform capture loop, and returns the handle used to inject transitions.
func NewFake(opts ...Option) (*Hook, *FakeBackend) {
	h := &Hook{
		log:      zerolog.Nop(),
		byHotkey: make(map[Hotkey]*registration),
		byToken:  make(map[RegistrationToken]*registration),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.dispatcher = newDispatcher(h.log, false)

	fb := &FakeBackend{tracker: newChordTracker(h)}
	h.backend = fb
	return h, fb
}

func (f *FakeBackend) start() error { return nil }

func (f *FakeBackend) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	f.tracker.reset()
}

// KeyDown injects a synthetic key press.
func (f *FakeBackend) KeyDown(key KeyCode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return
	}
	f.tracker.keyDown(key)
}

// KeyUp injects a synthetic key release.
func (f *FakeBackend) KeyUp(key KeyCode) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return
	}
	f.tracker.keyUp(key)
}

// Tap injects a press immediately followed by a release.
func (f *FakeBackend) Tap(key KeyCode) {
	f.KeyDown(key)
	f.KeyUp(key)
}
