// Package keychord registers process-wide global hotkeys: key combinations
// detected regardless of which application has input focus. One capture
// backend is selected per platform at construction (a low-level keyboard
// hook on Windows, raw input devices with an X11 grab fallback on Linux,
// Carbon hotkeys on macOS, DOM key events under js/wasm) and chord
// completions are handed to user callbacks on a dedicated dispatch
// goroutine.
package keychord

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Callback is invoked when a registered chord completes. Callbacks for a
// Hook run one at a time, in trigger order, and never concurrently with
// each other.
type Callback func(Hotkey)

// RegistrationToken identifies one live registration. It is consumed by
// Unregister and unusable afterwards.
type RegistrationToken struct {
	id uuid.UUID
}

// String returns the token's unique identifier.
func (t RegistrationToken) String() string { return t.id.String() }

type registration struct {
	token    RegistrationToken
	hotkey   Hotkey
	callback Callback
}

// Hook owns one platform capture backend, the registration table and the
// dispatcher. A Hook is safe for concurrent use from multiple goroutines.
type Hook struct {
	log        zerolog.Logger
	dispatcher *dispatcher
	backend    backend

	mu       sync.RWMutex
	byHotkey map[Hotkey]*registration
	byToken  map[RegistrationToken]*registration
	closed   bool
	failed   bool

	closeOnce sync.Once
}

// Option configures a Hook at construction.
type Option func(*Hook)

// WithLogger routes the Hook's internal diagnostics to the given logger.
// The default is zerolog.Nop().
func WithLogger(log zerolog.Logger) Option {
	return func(h *Hook) { h.log = log }
}

// New selects and initializes the platform capture backend, starts its
// capture loop and the dispatcher, and returns the facade. It fails with
// ErrBackendUnavailable when no capture mechanism is usable; the Hook is
// never returned half-initialized.
func New(opts ...Option) (*Hook, error) {
	h := &Hook{
		log:      zerolog.Nop(),
		byHotkey: make(map[Hotkey]*registration),
		byToken:  make(map[RegistrationToken]*registration),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.dispatcher = newDispatcher(h.log, inlineDispatch)

	b, err := newBackend(h)
	if err != nil {
		h.dispatcher.stop()
		return nil, err
	}
	h.backend = b
	if err := b.start(); err != nil {
		h.dispatcher.stop()
		return nil, err
	}
	return h, nil
}

// Register binds a callback to a chord. At most one registration may exist
// per distinct Hotkey value; a duplicate fails with ErrAlreadyRegistered.
// On grab-style backends the native grab is issued here, and a grab failure
// rolls the registration back.
func (h *Hook) Register(hotkey Hotkey, callback Callback) (RegistrationToken, error) {
	if callback == nil {
		return RegistrationToken{}, fmt.Errorf("%w: nil callback", ErrInvalidHotkey)
	}
	if !hotkey.valid() {
		return RegistrationToken{}, fmt.Errorf("%w: %s", ErrInvalidHotkey, hotkey)
	}

	reg := &registration{
		token:    RegistrationToken{id: uuid.New()},
		hotkey:   hotkey,
		callback: callback,
	}

	h.mu.Lock()
	if h.closed || h.failed {
		h.mu.Unlock()
		return RegistrationToken{}, ErrBackendUnavailable
	}
	if _, exists := h.byHotkey[hotkey]; exists {
		h.mu.Unlock()
		return RegistrationToken{}, fmt.Errorf("%w: %s", ErrAlreadyRegistered, hotkey)
	}
	h.byHotkey[hotkey] = reg
	h.byToken[reg.token] = reg
	h.mu.Unlock()

	// The native grab must run outside the table lock: grab-style backends
	// serialize it through their own event loop, which takes the read lock
	// when it fires chords.
	if g, ok := h.backend.(grabber); ok {
		if err := g.grab(hotkey); err != nil {
			h.mu.Lock()
			delete(h.byHotkey, hotkey)
			delete(h.byToken, reg.token)
			h.mu.Unlock()
			return RegistrationToken{}, err
		}
	}

	h.log.Debug().Stringer("hotkey", hotkey).Msg("Registered hotkey")
	return reg.token, nil
}

// Unregister removes the registration identified by token and releases any
// per-hotkey native resource. The token is consumed either way; a second
// call fails with ErrNotRegistered.
func (h *Hook) Unregister(token RegistrationToken) error {
	h.mu.Lock()
	reg, ok := h.byToken[token]
	if !ok {
		h.mu.Unlock()
		return ErrNotRegistered
	}
	delete(h.byToken, token)
	delete(h.byHotkey, reg.hotkey)
	h.mu.Unlock()

	if g, ok := h.backend.(grabber); ok {
		if err := g.ungrab(reg.hotkey); err != nil {
			return err
		}
	}

	h.log.Debug().Stringer("hotkey", reg.hotkey).Msg("Unregistered hotkey")
	return nil
}

// Close tears the Hook down: the capture loop is woken, its resources are
// released and it is joined synchronously, then the dispatcher stops and
// discards anything still queued. No callback runs after Close returns.
// Close is idempotent; a closed Hook rejects further registrations.
func (h *Hook) Close() error {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.byHotkey = make(map[Hotkey]*registration)
		h.byToken = make(map[RegistrationToken]*registration)
		h.mu.Unlock()

		h.backend.stop()
		h.dispatcher.stop()
		h.log.Debug().Msg("Hook closed")
	})
	return nil
}

// snapshot implements registry for transition-style backends.
func (h *Hook) snapshot() []Hotkey {
	h.mu.RLock()
	defer h.mu.RUnlock()
	chords := make([]Hotkey, 0, len(h.byHotkey))
	for hk := range h.byHotkey {
		chords = append(chords, hk)
	}
	return chords
}

// trigger implements registry: it looks the chord up under a consistent
// snapshot of the table and offers it to the dispatcher. A chord
// unregistered strictly before the triggering event never fires.
func (h *Hook) trigger(hotkey Hotkey) {
	h.mu.RLock()
	reg, ok := h.byHotkey[hotkey]
	closed := h.closed
	h.mu.RUnlock()
	if !ok || closed {
		return
	}
	h.dispatcher.offer(dispatchEvent{hotkey: hotkey, callback: reg.callback})
}

// backendFailed records the capture backend's terminal failure state. The
// process keeps running; subsequent Register calls fail with
// ErrBackendUnavailable.
func (h *Hook) backendFailed(err error) {
	h.mu.Lock()
	h.failed = true
	h.mu.Unlock()
	h.log.Error().Err(err).Msg("Capture backend entered terminal failure state")
}
