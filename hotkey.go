package keychord

// Modifiers is a bit-set of the modifier keys a chord requires. Equality is
// set equality; a chord only fires when the held modifiers match exactly.
type Modifiers uint8

const (
	ModAlt Modifiers = 1 << iota
	ModControl
	ModShift
	ModMeta
)

// Has reports whether all modifiers in m are present in the set.
func (mods Modifiers) Has(m Modifiers) bool {
	return mods&m == m
}

// String renders the set in canonical order, e.g. "alt+control".
func (mods Modifiers) String() string {
	var s string
	for _, part := range modifierOrder {
		if mods.Has(part.flag) {
			if s != "" {
				s += "+"
			}
			s += part.name
		}
	}
	return s
}

var modifierOrder = []struct {
	flag Modifiers
	name string
}{
	{ModAlt, "alt"},
	{ModControl, "control"},
	{ModShift, "shift"},
	{ModMeta, "meta"},
}

// Hotkey is an immutable chord value: a set of modifiers plus one
// non-modifier key. Two Hotkeys name the same registration target iff both
// fields are exactly equal.
type Hotkey struct {
	Mods Modifiers
	Key  KeyCode
}

// String renders the chord in the canonical descriptor format.
func (h Hotkey) String() string {
	return Format(h)
}

// valid reports whether the chord can be registered: the defining key must
// be a known, non-modifier key.
func (h Hotkey) valid() bool {
	_, known := keyNames[h.Key]
	return known && !h.Key.IsModifier()
}
