package keychord

// registry is the view of the Hook that transition-style capture backends
// consult on every key transition. snapshot and trigger are synchronized by
// the Hook; the tracker itself is owned by a single capture loop and needs
// no locking of its own.
type registry interface {
	// snapshot returns the chords currently registered.
	snapshot() []Hotkey
	// trigger hands a completed chord over for dispatch.
	trigger(Hotkey)
}

// chordTracker turns a stream of canonical key-down/key-up transitions into
// chord-completion events. A chord fires exactly once, on a press of its
// defining key while the required modifiers are held; a modifier press never
// fires a chord, even if it completes the held set around an already-held
// defining key. Key-repeat presses of an already-held key are inert;
// releasing the defining key or any required modifier re-arms the chord for
// the next defining-key press. Grab-style mechanisms report chords the same
// way, so both kinds of backend expose one detection contract.
type chordTracker struct {
	reg    registry
	held   map[KeyCode]bool
	active map[Hotkey]bool
	mods   Modifiers
}

func newChordTracker(reg registry) *chordTracker {
	return &chordTracker{
		reg:    reg,
		held:   make(map[KeyCode]bool),
		active: make(map[Hotkey]bool),
	}
}

func (t *chordTracker) keyDown(key KeyCode) {
	if t.held[key] {
		// Key-repeat while held; never re-triggers.
		return
	}
	t.held[key] = true
	t.recomputeMods()

	for _, h := range t.reg.snapshot() {
		switch {
		case key == h.Key && t.complete(h) && !t.active[h]:
			t.active[h] = true
			t.reg.trigger(h)
		case !t.complete(h) && t.active[h]:
			// An extra modifier broke the chord; it must complete via a
			// fresh defining-key press to fire again.
			delete(t.active, h)
		}
	}
}

func (t *chordTracker) keyUp(key KeyCode) {
	if !t.held[key] {
		return
	}
	delete(t.held, key)
	t.recomputeMods()

	for h := range t.active {
		if !t.complete(h) {
			delete(t.active, h)
		}
	}
}

// complete reports whether the chord's defining key is held and the held
// modifier set matches the chord exactly.
func (t *chordTracker) complete(h Hotkey) bool {
	return t.held[h.Key] && t.mods == h.Mods
}

func (t *chordTracker) recomputeMods() {
	var mods Modifiers
	for key, down := range t.held {
		if down {
			mods |= key.modifierFlag()
		}
	}
	t.mods = mods
}

// reset clears all transient key state, e.g. when the capture loop stops.
func (t *chordTracker) reset() {
	t.held = make(map[KeyCode]bool)
	t.active = make(map[Hotkey]bool)
	t.mods = 0
}
