package keychord

import (
	"fmt"
	"strings"
)

// Parse converts a textual chord descriptor like "alt+control+x" into a
// Hotkey. Modifier names are case-insensitive; the final part must be a
// canonical key identifier. Parse(Format(h)) == h for every valid Hotkey.
func Parse(s string) (Hotkey, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")

	keyStr := parts[len(parts)-1]
	key, ok := KeyCodeByName(keyStr)
	if !ok || keyStr == "" {
		return Hotkey{}, fmt.Errorf("%w: unsupported key %q", ErrInvalidHotkey, keyStr)
	}
	if key.IsModifier() {
		return Hotkey{}, fmt.Errorf("%w: %q cannot be the defining key", ErrInvalidHotkey, keyStr)
	}

	var mods Modifiers
	for _, part := range parts[:len(parts)-1] {
		switch part {
		case "alt", "option":
			mods |= ModAlt
		case "control", "ctrl":
			mods |= ModControl
		case "shift":
			mods |= ModShift
		case "meta", "super", "win", "cmd":
			mods |= ModMeta
		default:
			return Hotkey{}, fmt.Errorf("%w: unsupported modifier %q", ErrInvalidHotkey, part)
		}
	}

	return Hotkey{Mods: mods, Key: key}, nil
}

// Format renders a Hotkey as a canonical descriptor: modifiers in the fixed
// order alt, control, shift, meta, then the key identifier, all lowercase.
func Format(h Hotkey) string {
	if h.Mods == 0 {
		return h.Key.String()
	}
	return h.Mods.String() + "+" + h.Key.String()
}

// MustParse is Parse for compile-time-known descriptors; it panics on error.
func MustParse(s string) Hotkey {
	h, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return h
}
