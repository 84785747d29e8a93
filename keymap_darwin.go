//go:build darwin

package keychord

// keyToCarbon maps canonical keys to Carbon virtual key codes (kVK_*).
// Media keys are absent: RegisterEventHotKey cannot bind them.
var keyToCarbon = map[KeyCode]uint32{
	KeyA: 0x00, KeyB: 0x0B, KeyC: 0x08, KeyD: 0x02, KeyE: 0x0E,
	KeyF: 0x03, KeyG: 0x05, KeyH: 0x04, KeyI: 0x22, KeyJ: 0x26,
	KeyK: 0x28, KeyL: 0x25, KeyM: 0x2E, KeyN: 0x2D, KeyO: 0x1F,
	KeyP: 0x23, KeyQ: 0x0C, KeyR: 0x0F, KeyS: 0x01, KeyT: 0x11,
	KeyU: 0x20, KeyV: 0x09, KeyW: 0x0D, KeyX: 0x07, KeyY: 0x10,
	KeyZ: 0x06,

	Key0: 0x1D, Key1: 0x12, Key2: 0x13, Key3: 0x14, Key4: 0x15,
	Key5: 0x17, Key6: 0x16, Key7: 0x1A, Key8: 0x1C, Key9: 0x19,

	KeyF1: 0x7A, KeyF2: 0x78, KeyF3: 0x63, KeyF4: 0x76, KeyF5: 0x60,
	KeyF6: 0x61, KeyF7: 0x62, KeyF8: 0x64, KeyF9: 0x65, KeyF10: 0x6D,
	KeyF11: 0x67, KeyF12: 0x6F, KeyF13: 0x69, KeyF14: 0x6B, KeyF15: 0x71,
	KeyF16: 0x6A, KeyF17: 0x40, KeyF18: 0x4F, KeyF19: 0x50, KeyF20: 0x5A,

	KeySpace:     0x31,
	KeyEnter:     0x24,
	KeyTab:       0x30,
	KeyEscape:    0x35,
	KeyBackspace: 0x33,
	KeyInsert:    0x72, // Help key position on Apple keyboards
	KeyDelete:    0x75,

	KeyHome:     0x73,
	KeyEnd:      0x77,
	KeyPageUp:   0x74,
	KeyPageDown: 0x79,
	KeyUp:       0x7E,
	KeyDown:     0x7D,
	KeyLeft:     0x7B,
	KeyRight:    0x7C,

	KeyCapsLock: 0x39,
	KeyNumLock:  0x47, // Clear
	KeyMenu:     0x6E,

	KeyMinus:        0x1B,
	KeyEqual:        0x18,
	KeyLeftBracket:  0x21,
	KeyRightBracket: 0x1E,
	KeyBackslash:    0x2A,
	KeySemicolon:    0x29,
	KeyQuote:        0x27,
	KeyComma:        0x2B,
	KeyPeriod:       0x2F,
	KeySlash:        0x2C,
	KeyGrave:        0x32,

	KeyNumpad0: 0x52, KeyNumpad1: 0x53, KeyNumpad2: 0x54, KeyNumpad3: 0x55,
	KeyNumpad4: 0x56, KeyNumpad5: 0x57, KeyNumpad6: 0x58, KeyNumpad7: 0x59,
	KeyNumpad8: 0x5B, KeyNumpad9: 0x5C,
	KeyNumpadAdd:      0x45,
	KeyNumpadSubtract: 0x4E,
	KeyNumpadMultiply: 0x43,
	KeyNumpadDivide:   0x4B,
	KeyNumpadDecimal:  0x41,
	KeyNumpadEnter:    0x4C,

	KeyVolumeUp:   0x48,
	KeyVolumeDown: 0x49,
	KeyVolumeMute: 0x4A,

	KeyLeftControl:  0x3B,
	KeyRightControl: 0x3E,
	KeyLeftShift:    0x38,
	KeyRightShift:   0x3C,
	KeyLeftAlt:      0x3A,
	KeyRightAlt:     0x3D,
	KeyLeftMeta:     0x37,
	KeyRightMeta:    0x36,
}

func carbonFromKey(k KeyCode) (uint32, bool) {
	vk, ok := keyToCarbon[k]
	return vk, ok
}

// Carbon modifier masks for RegisterEventHotKey.
const (
	carbonCmdKey     = 0x0100
	carbonShiftKey   = 0x0200
	carbonOptionKey  = 0x0800
	carbonControlKey = 0x1000
)

func carbonModsFromMods(mods Modifiers) uint32 {
	var mask uint32
	if mods.Has(ModAlt) {
		mask |= carbonOptionKey
	}
	if mods.Has(ModControl) {
		mask |= carbonControlKey
	}
	if mods.Has(ModShift) {
		mask |= carbonShiftKey
	}
	if mods.Has(ModMeta) {
		mask |= carbonCmdKey
	}
	return mask
}
