//go:build windows

package keychord

// Virtual-key constants the translation layer needs by name.
const (
	vkShift   = 0x10
	vkControl = 0x11
	vkMenu    = 0x12
	vkReturn  = 0x0D
)

// vkToKey maps each Windows virtual-key code to exactly one canonical
// KeyCode. Generic modifier codes (VK_SHIFT et al.) and the extended-key
// distinction for the numpad Enter are resolved in keyFromVirtualKey, so
// this table stays one-to-one and its inverse is well defined.
var vkToKey = map[uint32]KeyCode{
	0x41: KeyA, 0x42: KeyB, 0x43: KeyC, 0x44: KeyD, 0x45: KeyE,
	0x46: KeyF, 0x47: KeyG, 0x48: KeyH, 0x49: KeyI, 0x4A: KeyJ,
	0x4B: KeyK, 0x4C: KeyL, 0x4D: KeyM, 0x4E: KeyN, 0x4F: KeyO,
	0x50: KeyP, 0x51: KeyQ, 0x52: KeyR, 0x53: KeyS, 0x54: KeyT,
	0x55: KeyU, 0x56: KeyV, 0x57: KeyW, 0x58: KeyX, 0x59: KeyY,
	0x5A: KeyZ,

	0x30: Key0, 0x31: Key1, 0x32: Key2, 0x33: Key3, 0x34: Key4,
	0x35: Key5, 0x36: Key6, 0x37: Key7, 0x38: Key8, 0x39: Key9,

	0x70: KeyF1, 0x71: KeyF2, 0x72: KeyF3, 0x73: KeyF4,
	0x74: KeyF5, 0x75: KeyF6, 0x76: KeyF7, 0x77: KeyF8,
	0x78: KeyF9, 0x79: KeyF10, 0x7A: KeyF11, 0x7B: KeyF12,
	0x7C: KeyF13, 0x7D: KeyF14, 0x7E: KeyF15, 0x7F: KeyF16,
	0x80: KeyF17, 0x81: KeyF18, 0x82: KeyF19, 0x83: KeyF20,
	0x84: KeyF21, 0x85: KeyF22, 0x86: KeyF23, 0x87: KeyF24,

	0x20:     KeySpace,
	vkReturn: KeyEnter,
	0x09:     KeyTab,
	0x1B:     KeyEscape,
	0x08:     KeyBackspace,
	0x2D:     KeyInsert,
	0x2E:     KeyDelete,

	0x24: KeyHome,
	0x23: KeyEnd,
	0x21: KeyPageUp,
	0x22: KeyPageDown,
	0x26: KeyUp,
	0x28: KeyDown,
	0x25: KeyLeft,
	0x27: KeyRight,

	0x14: KeyCapsLock,
	0x90: KeyNumLock,
	0x91: KeyScrollLock,
	0x2C: KeyPrintScreen,
	0x13: KeyPauseBreak,
	0x5D: KeyMenu,

	0xBD: KeyMinus,
	0xBB: KeyEqual,
	0xDB: KeyLeftBracket,
	0xDD: KeyRightBracket,
	0xDC: KeyBackslash,
	0xBA: KeySemicolon,
	0xDE: KeyQuote,
	0xBC: KeyComma,
	0xBE: KeyPeriod,
	0xBF: KeySlash,
	0xC0: KeyGrave,

	0x60: KeyNumpad0, 0x61: KeyNumpad1, 0x62: KeyNumpad2,
	0x63: KeyNumpad3, 0x64: KeyNumpad4, 0x65: KeyNumpad5,
	0x66: KeyNumpad6, 0x67: KeyNumpad7, 0x68: KeyNumpad8,
	0x69: KeyNumpad9,
	0x6B: KeyNumpadAdd,
	0x6D: KeyNumpadSubtract,
	0x6A: KeyNumpadMultiply,
	0x6F: KeyNumpadDivide,
	0x6E: KeyNumpadDecimal,

	0xAF: KeyVolumeUp,
	0xAE: KeyVolumeDown,
	0xAD: KeyVolumeMute,
	0xB3: KeyMediaPlayPause,
	0xB2: KeyMediaStop,
	0xB0: KeyMediaNext,
	0xB1: KeyMediaPrev,

	0xA2: KeyLeftControl,
	0xA3: KeyRightControl,
	0xA0: KeyLeftShift,
	0xA1: KeyRightShift,
	0xA4: KeyLeftAlt,
	0xA5: KeyRightAlt,
	0x5B: KeyLeftMeta,
	0x5C: KeyRightMeta,
}

// keyFromVirtualKey translates a virtual-key code plus the low-level hook's
// extended flag into a canonical KeyCode. Unknown codes map to (0, false)
// and are ignored by the capture loop.
func keyFromVirtualKey(vk uint32, extended bool) (KeyCode, bool) {
	switch vk {
	case vkShift:
		return KeyLeftShift, true
	case vkControl:
		return KeyLeftControl, true
	case vkMenu:
		return KeyLeftAlt, true
	case vkReturn:
		if extended {
			return KeyNumpadEnter, true
		}
		return KeyEnter, true
	}
	k, ok := vkToKey[vk]
	return k, ok
}
