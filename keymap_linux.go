//go:build linux

package keychord

// evdevToKey maps Linux input-event KEY_* codes to canonical keys. The X11
// fallback shares this table: X servers running the evdev/libinput drivers
// use keycode = evdev code + 8.
var evdevToKey = map[uint16]KeyCode{
	30: KeyA, 48: KeyB, 46: KeyC, 32: KeyD, 18: KeyE, 33: KeyF,
	34: KeyG, 35: KeyH, 23: KeyI, 36: KeyJ, 37: KeyK, 38: KeyL,
	50: KeyM, 49: KeyN, 24: KeyO, 25: KeyP, 16: KeyQ, 19: KeyR,
	31: KeyS, 20: KeyT, 22: KeyU, 47: KeyV, 17: KeyW, 45: KeyX,
	21: KeyY, 44: KeyZ,

	11: Key0, 2: Key1, 3: Key2, 4: Key3, 5: Key4,
	6: Key5, 7: Key6, 8: Key7, 9: Key8, 10: Key9,

	59: KeyF1, 60: KeyF2, 61: KeyF3, 62: KeyF4, 63: KeyF5,
	64: KeyF6, 65: KeyF7, 66: KeyF8, 67: KeyF9, 68: KeyF10,
	87: KeyF11, 88: KeyF12,
	183: KeyF13, 184: KeyF14, 185: KeyF15, 186: KeyF16,
	187: KeyF17, 188: KeyF18, 189: KeyF19, 190: KeyF20,
	191: KeyF21, 192: KeyF22, 193: KeyF23, 194: KeyF24,

	57:  KeySpace,
	28:  KeyEnter,
	15:  KeyTab,
	1:   KeyEscape,
	14:  KeyBackspace,
	110: KeyInsert,
	111: KeyDelete,

	102: KeyHome,
	107: KeyEnd,
	104: KeyPageUp,
	109: KeyPageDown,
	103: KeyUp,
	108: KeyDown,
	105: KeyLeft,
	106: KeyRight,

	58:  KeyCapsLock,
	69:  KeyNumLock,
	70:  KeyScrollLock,
	99:  KeyPrintScreen,
	119: KeyPauseBreak,
	127: KeyMenu,

	12: KeyMinus,
	13: KeyEqual,
	26: KeyLeftBracket,
	27: KeyRightBracket,
	43: KeyBackslash,
	39: KeySemicolon,
	40: KeyQuote,
	51: KeyComma,
	52: KeyPeriod,
	53: KeySlash,
	41: KeyGrave,

	82: KeyNumpad0, 79: KeyNumpad1, 80: KeyNumpad2, 81: KeyNumpad3,
	75: KeyNumpad4, 76: KeyNumpad5, 77: KeyNumpad6, 71: KeyNumpad7,
	72: KeyNumpad8, 73: KeyNumpad9,
	78: KeyNumpadAdd,
	74: KeyNumpadSubtract,
	55: KeyNumpadMultiply,
	98: KeyNumpadDivide,
	83: KeyNumpadDecimal,
	96: KeyNumpadEnter,

	115: KeyVolumeUp,
	114: KeyVolumeDown,
	113: KeyVolumeMute,
	164: KeyMediaPlayPause,
	166: KeyMediaStop,
	163: KeyMediaNext,
	165: KeyMediaPrev,

	29:  KeyLeftControl,
	97:  KeyRightControl,
	42:  KeyLeftShift,
	54:  KeyRightShift,
	56:  KeyLeftAlt,
	100: KeyRightAlt,
	125: KeyLeftMeta,
	126: KeyRightMeta,
}

var keyToEvdev = func() map[KeyCode]uint16 {
	m := make(map[KeyCode]uint16, len(evdevToKey))
	for code, k := range evdevToKey {
		m[k] = code
	}
	return m
}()

func keyFromEvdev(code uint16) (KeyCode, bool) {
	k, ok := evdevToKey[code]
	return k, ok
}

func evdevFromKey(k KeyCode) (uint16, bool) {
	code, ok := keyToEvdev[k]
	return code, ok
}
