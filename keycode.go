package keychord

// KeyCode identifies a physical key independent of any platform key space.
// Every backend translates its native codes into this enumeration; native
// codes without a canonical counterpart are ignored by the capture loops.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota

	// Letters
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	// Number row
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	// Function keys
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20
	KeyF21
	KeyF22
	KeyF23
	KeyF24

	// Editing and whitespace
	KeySpace
	KeyEnter
	KeyTab
	KeyEscape
	KeyBackspace
	KeyInsert
	KeyDelete

	// Navigation
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Locks and system keys
	KeyCapsLock
	KeyNumLock
	KeyScrollLock
	KeyPrintScreen
	KeyPauseBreak
	KeyMenu

	// Punctuation (US physical positions)
	KeyMinus
	KeyEqual
	KeyLeftBracket
	KeyRightBracket
	KeyBackslash
	KeySemicolon
	KeyQuote
	KeyComma
	KeyPeriod
	KeySlash
	KeyGrave

	// Numpad
	KeyNumpad0
	KeyNumpad1
	KeyNumpad2
	KeyNumpad3
	KeyNumpad4
	KeyNumpad5
	KeyNumpad6
	KeyNumpad7
	KeyNumpad8
	KeyNumpad9
	KeyNumpadAdd
	KeyNumpadSubtract
	KeyNumpadMultiply
	KeyNumpadDivide
	KeyNumpadDecimal
	KeyNumpadEnter

	// Multimedia
	KeyVolumeUp
	KeyVolumeDown
	KeyVolumeMute
	KeyMediaPlayPause
	KeyMediaStop
	KeyMediaNext
	KeyMediaPrev

	// Modifier keys. These are real keys with their own codes so the capture
	// loops can track them in the held set like any other key; the Modifiers
	// bit-set is derived from them.
	KeyLeftControl
	KeyRightControl
	KeyLeftShift
	KeyRightShift
	KeyLeftAlt
	KeyRightAlt
	KeyLeftMeta
	KeyRightMeta

	keyCodeCount // keep last
)

// keyNames are the canonical identifiers used by the textual descriptor
// format. Lowercase, stable, one per KeyCode.
var keyNames = map[KeyCode]string{
	KeyA: "a", KeyB: "b", KeyC: "c", KeyD: "d", KeyE: "e", KeyF: "f",
	KeyG: "g", KeyH: "h", KeyI: "i", KeyJ: "j", KeyK: "k", KeyL: "l",
	KeyM: "m", KeyN: "n", KeyO: "o", KeyP: "p", KeyQ: "q", KeyR: "r",
	KeyS: "s", KeyT: "t", KeyU: "u", KeyV: "v", KeyW: "w", KeyX: "x",
	KeyY: "y", KeyZ: "z",

	Key0: "0", Key1: "1", Key2: "2", Key3: "3", Key4: "4",
	Key5: "5", Key6: "6", Key7: "7", Key8: "8", Key9: "9",

	KeyF1: "f1", KeyF2: "f2", KeyF3: "f3", KeyF4: "f4", KeyF5: "f5",
	KeyF6: "f6", KeyF7: "f7", KeyF8: "f8", KeyF9: "f9", KeyF10: "f10",
	KeyF11: "f11", KeyF12: "f12", KeyF13: "f13", KeyF14: "f14",
	KeyF15: "f15", KeyF16: "f16", KeyF17: "f17", KeyF18: "f18",
	KeyF19: "f19", KeyF20: "f20", KeyF21: "f21", KeyF22: "f22",
	KeyF23: "f23", KeyF24: "f24",

	KeySpace:     "space",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyEscape:    "escape",
	KeyBackspace: "backspace",
	KeyInsert:    "insert",
	KeyDelete:    "delete",

	KeyHome:     "home",
	KeyEnd:      "end",
	KeyPageUp:   "pageup",
	KeyPageDown: "pagedown",
	KeyUp:       "up",
	KeyDown:     "down",
	KeyLeft:     "left",
	KeyRight:    "right",

	KeyCapsLock:    "capslock",
	KeyNumLock:     "numlock",
	KeyScrollLock:  "scrolllock",
	KeyPrintScreen: "printscreen",
	KeyPauseBreak:  "pausebreak",
	KeyMenu:        "menu",

	KeyMinus:        "minus",
	KeyEqual:        "equal",
	KeyLeftBracket:  "leftbracket",
	KeyRightBracket: "rightbracket",
	KeyBackslash:    "backslash",
	KeySemicolon:    "semicolon",
	KeyQuote:        "quote",
	KeyComma:        "comma",
	KeyPeriod:       "period",
	KeySlash:        "slash",
	KeyGrave:        "grave",

	KeyNumpad0: "numpad0", KeyNumpad1: "numpad1", KeyNumpad2: "numpad2",
	KeyNumpad3: "numpad3", KeyNumpad4: "numpad4", KeyNumpad5: "numpad5",
	KeyNumpad6: "numpad6", KeyNumpad7: "numpad7", KeyNumpad8: "numpad8",
	KeyNumpad9: "numpad9",
	KeyNumpadAdd:      "numpadadd",
	KeyNumpadSubtract: "numpadsubtract",
	KeyNumpadMultiply: "numpadmultiply",
	KeyNumpadDivide:   "numpaddivide",
	KeyNumpadDecimal:  "numpaddecimal",
	KeyNumpadEnter:    "numpadenter",

	KeyVolumeUp:       "volumeup",
	KeyVolumeDown:     "volumedown",
	KeyVolumeMute:     "volumemute",
	KeyMediaPlayPause: "mediaplaypause",
	KeyMediaStop:      "mediastop",
	KeyMediaNext:      "medianext",
	KeyMediaPrev:      "mediaprev",

	KeyLeftControl:  "leftcontrol",
	KeyRightControl: "rightcontrol",
	KeyLeftShift:    "leftshift",
	KeyRightShift:   "rightshift",
	KeyLeftAlt:      "leftalt",
	KeyRightAlt:     "rightalt",
	KeyLeftMeta:     "leftmeta",
	KeyRightMeta:    "rightmeta",
}

var keyByName = func() map[string]KeyCode {
	m := make(map[string]KeyCode, len(keyNames))
	for k, name := range keyNames {
		m[name] = k
	}
	return m
}()

// String returns the canonical identifier for the key, or "unknown".
func (k KeyCode) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// KeyCodeByName resolves a canonical identifier back to its KeyCode.
func KeyCodeByName(name string) (KeyCode, bool) {
	k, ok := keyByName[name]
	return k, ok
}

// IsModifier reports whether the key is one of the modifier keys.
func (k KeyCode) IsModifier() bool {
	return k >= KeyLeftControl && k <= KeyRightMeta
}

// modifierFlag returns the Modifiers bit contributed by a held modifier key,
// or 0 for non-modifier keys.
func (k KeyCode) modifierFlag() Modifiers {
	switch k {
	case KeyLeftControl, KeyRightControl:
		return ModControl
	case KeyLeftShift, KeyRightShift:
		return ModShift
	case KeyLeftAlt, KeyRightAlt:
		return ModAlt
	case KeyLeftMeta, KeyRightMeta:
		return ModMeta
	}
	return 0
}
