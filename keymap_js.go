//go:build js

package keychord

// domCodeToKey maps KeyboardEvent.code values to canonical keys. The code
// property names physical key positions, matching the other backends.
var domCodeToKey = map[string]KeyCode{
	"KeyA": KeyA, "KeyB": KeyB, "KeyC": KeyC, "KeyD": KeyD, "KeyE": KeyE,
	"KeyF": KeyF, "KeyG": KeyG, "KeyH": KeyH, "KeyI": KeyI, "KeyJ": KeyJ,
	"KeyK": KeyK, "KeyL": KeyL, "KeyM": KeyM, "KeyN": KeyN, "KeyO": KeyO,
	"KeyP": KeyP, "KeyQ": KeyQ, "KeyR": KeyR, "KeyS": KeyS, "KeyT": KeyT,
	"KeyU": KeyU, "KeyV": KeyV, "KeyW": KeyW, "KeyX": KeyX, "KeyY": KeyY,
	"KeyZ": KeyZ,

	"Digit0": Key0, "Digit1": Key1, "Digit2": Key2, "Digit3": Key3,
	"Digit4": Key4, "Digit5": Key5, "Digit6": Key6, "Digit7": Key7,
	"Digit8": Key8, "Digit9": Key9,

	"F1": KeyF1, "F2": KeyF2, "F3": KeyF3, "F4": KeyF4, "F5": KeyF5,
	"F6": KeyF6, "F7": KeyF7, "F8": KeyF8, "F9": KeyF9, "F10": KeyF10,
	"F11": KeyF11, "F12": KeyF12, "F13": KeyF13, "F14": KeyF14,
	"F15": KeyF15, "F16": KeyF16, "F17": KeyF17, "F18": KeyF18,
	"F19": KeyF19, "F20": KeyF20, "F21": KeyF21, "F22": KeyF22,
	"F23": KeyF23, "F24": KeyF24,

	"Space":     KeySpace,
	"Enter":     KeyEnter,
	"Tab":       KeyTab,
	"Escape":    KeyEscape,
	"Backspace": KeyBackspace,
	"Insert":    KeyInsert,
	"Delete":    KeyDelete,

	"Home":       KeyHome,
	"End":        KeyEnd,
	"PageUp":     KeyPageUp,
	"PageDown":   KeyPageDown,
	"ArrowUp":    KeyUp,
	"ArrowDown":  KeyDown,
	"ArrowLeft":  KeyLeft,
	"ArrowRight": KeyRight,

	"CapsLock":    KeyCapsLock,
	"NumLock":     KeyNumLock,
	"ScrollLock":  KeyScrollLock,
	"PrintScreen": KeyPrintScreen,
	"Pause":       KeyPauseBreak,
	"ContextMenu": KeyMenu,

	"Minus":        KeyMinus,
	"Equal":        KeyEqual,
	"BracketLeft":  KeyLeftBracket,
	"BracketRight": KeyRightBracket,
	"Backslash":    KeyBackslash,
	"Semicolon":    KeySemicolon,
	"Quote":        KeyQuote,
	"Comma":        KeyComma,
	"Period":       KeyPeriod,
	"Slash":        KeySlash,
	"Backquote":    KeyGrave,

	"Numpad0": KeyNumpad0, "Numpad1": KeyNumpad1, "Numpad2": KeyNumpad2,
	"Numpad3": KeyNumpad3, "Numpad4": KeyNumpad4, "Numpad5": KeyNumpad5,
	"Numpad6": KeyNumpad6, "Numpad7": KeyNumpad7, "Numpad8": KeyNumpad8,
	"Numpad9": KeyNumpad9,
	"NumpadAdd":      KeyNumpadAdd,
	"NumpadSubtract": KeyNumpadSubtract,
	"NumpadMultiply": KeyNumpadMultiply,
	"NumpadDivide":   KeyNumpadDivide,
	"NumpadDecimal":  KeyNumpadDecimal,
	"NumpadEnter":    KeyNumpadEnter,

	"AudioVolumeUp":      KeyVolumeUp,
	"AudioVolumeDown":    KeyVolumeDown,
	"AudioVolumeMute":    KeyVolumeMute,
	"MediaPlayPause":     KeyMediaPlayPause,
	"MediaStop":          KeyMediaStop,
	"MediaTrackNext":     KeyMediaNext,
	"MediaTrackPrevious": KeyMediaPrev,

	"ControlLeft":  KeyLeftControl,
	"ControlRight": KeyRightControl,
	"ShiftLeft":    KeyLeftShift,
	"ShiftRight":   KeyRightShift,
	"AltLeft":      KeyLeftAlt,
	"AltRight":     KeyRightAlt,
	"MetaLeft":     KeyLeftMeta,
	"MetaRight":    KeyRightMeta,
}

var keyToDOMCode = func() map[KeyCode]string {
	m := make(map[KeyCode]string, len(domCodeToKey))
	for code, k := range domCodeToKey {
		m[k] = code
	}
	return m
}()

func keyFromDOMCode(code string) (KeyCode, bool) {
	k, ok := domCodeToKey[code]
	return k, ok
}

func domCodeFromKey(k KeyCode) (string, bool) {
	code, ok := keyToDOMCode[k]
	return code, ok
}
