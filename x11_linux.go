//go:build linux

package keychord

/*
#cgo pkg-config: x11
#include <X11/Xlib.h>
#include <X11/XKBlib.h>

// XGrabKey failures arrive asynchronously through the X error handler.
// The handler records the last grab-related error code so the grab call
// can pick it up after an XSync.
static volatile int lastGrabError = 0;

static int grabErrorHandler(Display *d, XErrorEvent *e) {
	lastGrabError = e->error_code;
	return 0;
}

static void installGrabErrorHandler() {
	XSetErrorHandler(grabErrorHandler);
}

static int takeGrabError() {
	int e = lastGrabError;
	lastGrabError = 0;
	return e;
}

// DefaultRootWindow and ConnectionNumber are macros.
static Window rootWindow(Display *d) { return DefaultRootWindow(d); }
static int connNumber(Display *d) { return ConnectionNumber(d); }

static int nextKeyEvent(Display *d, unsigned int *keycode, unsigned int *state, int *pressed) {
	while (XPending(d) > 0) {
		XEvent ev;
		XNextEvent(d, &ev);
		if (ev.type == KeyPress || ev.type == KeyRelease) {
			*keycode = ev.xkey.keycode;
			*state = ev.xkey.state;
			*pressed = (ev.type == KeyPress);
			return 1;
		}
	}
	return 0;
}
*/
import "C"

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// X modifier masks.
const (
	xShiftMask   = 1 << 0
	xLockMask    = 1 << 1 // CapsLock
	xControlMask = 1 << 2
	xMod1Mask    = 1 << 3 // Alt
	xMod2Mask    = 1 << 4 // NumLock
	xMod4Mask    = 1 << 6 // Super/Meta
)

// xkbKeycodeOffset converts evdev codes to X keycodes under the evdev and
// libinput X drivers.
const xkbKeycodeOffset = 8

type x11Cmd struct {
	hotkey Hotkey
	ungrab bool
	reply  chan error
}

// x11Backend is the windowing-system fallback used when no raw input device
// can be opened. It issues one XGrabKey per registered chord (expanded over
// the NumLock and CapsLock masks) and receives chord completions directly
// from the X server. All Xlib traffic is serialized through the event loop
// goroutine; registration-time grabs travel there over a command channel.
type x11Backend struct {
	hook *Hook
	log  zerolog.Logger

	display *C.Display
	root    C.Window
	connFd  int
	wakeFd  int

	cmds     chan x11Cmd
	stopping atomic.Bool
	done     chan struct{}
	stopOnce sync.Once

	// Loop-owned. pressed suppresses server autorepeat between the real
	// press and release of a grabbed keycode.
	grabbed map[Hotkey]bool
	pressed map[uint32]bool
}

func newX11Backend(h *Hook) (*x11Backend, error) {
	display := C.XOpenDisplay(nil)
	if display == nil {
		return nil, fmt.Errorf("cannot open X display (is DISPLAY set?)")
	}

	wakeFd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		C.XCloseDisplay(display)
		return nil, osErr("eventfd", err)
	}

	C.installGrabErrorHandler()
	// With detectable autorepeat a held key yields repeated KeyPress events
	// without fake releases, which the pressed set can then filter.
	C.XkbSetDetectableAutoRepeat(display, C.True, nil)

	return &x11Backend{
		hook:    h,
		log:     h.log,
		display: display,
		root:    C.rootWindow(display),
		connFd:  int(C.connNumber(display)),
		wakeFd:  wakeFd,
		cmds:    make(chan x11Cmd, 16),
		done:    make(chan struct{}),
		grabbed: make(map[Hotkey]bool),
		pressed: make(map[uint32]bool),
	}, nil
}

func (b *x11Backend) start() error {
	b.log.Info().Msg("Capturing via X11 key grabs")
	go b.loop()
	return nil
}

func (b *x11Backend) loop() {
	defer close(b.done)
	defer b.cleanup()

	fds := []unix.PollFd{
		{Fd: int32(b.connFd), Events: unix.POLLIN},
		{Fd: int32(b.wakeFd), Events: unix.POLLIN},
	}

	for {
		// Xlib may already have queued events; drain before blocking.
		b.processKeyEvents()

		fds[0].Revents = 0
		fds[1].Revents = 0
		if _, err := unix.Poll(fds, -1); err != nil {
			if err == unix.EINTR {
				continue
			}
			b.hook.backendFailed(osErr("poll", err))
			return
		}

		if fds[1].Revents&unix.POLLIN != 0 {
			var v [8]byte
			unix.Read(b.wakeFd, v[:])
			b.processCommands()
			if b.stopping.Load() {
				return
			}
		}
	}
}

func (b *x11Backend) processCommands() {
	for {
		select {
		case cmd := <-b.cmds:
			if cmd.ungrab {
				cmd.reply <- b.doUngrab(cmd.hotkey)
			} else {
				cmd.reply <- b.doGrab(cmd.hotkey)
			}
		default:
			return
		}
	}
}

func (b *x11Backend) processKeyEvents() {
	var keycode, state C.uint
	var pressedEv C.int
	for C.nextKeyEvent(b.display, &keycode, &state, &pressedEv) != 0 {
		kc := uint32(keycode)
		if pressedEv == 0 {
			delete(b.pressed, kc)
			continue
		}
		if b.pressed[kc] {
			continue // autorepeat of a held grabbed key
		}
		b.pressed[kc] = true

		key, ok := keyFromEvdev(uint16(kc - xkbKeycodeOffset))
		if !ok {
			continue
		}
		mods := modsFromXState(uint32(state))
		b.hook.trigger(Hotkey{Mods: mods, Key: key})
	}
}

func modsFromXState(state uint32) Modifiers {
	var mods Modifiers
	if state&xMod1Mask != 0 {
		mods |= ModAlt
	}
	if state&xControlMask != 0 {
		mods |= ModControl
	}
	if state&xShiftMask != 0 {
		mods |= ModShift
	}
	if state&xMod4Mask != 0 {
		mods |= ModMeta
	}
	return mods
}

func xMaskFromMods(mods Modifiers) C.uint {
	var mask C.uint
	if mods.Has(ModAlt) {
		mask |= xMod1Mask
	}
	if mods.Has(ModControl) {
		mask |= xControlMask
	}
	if mods.Has(ModShift) {
		mask |= xShiftMask
	}
	if mods.Has(ModMeta) {
		mask |= xMod4Mask
	}
	return mask
}

// lockVariants are the extra mask combinations each grab is expanded over so
// chords still trigger while NumLock or CapsLock are latched.
var lockVariants = []C.uint{0, xMod2Mask, xLockMask, xMod2Mask | xLockMask}

func (b *x11Backend) doGrab(h Hotkey) error {
	evcode, ok := evdevFromKey(h.Key)
	if !ok {
		return fmt.Errorf("%w: %s has no X keycode", ErrInvalidHotkey, h)
	}
	keycode := C.int(uint32(evcode) + xkbKeycodeOffset)
	base := xMaskFromMods(h.Mods)

	C.takeGrabError()
	for i, variant := range lockVariants {
		C.XGrabKey(b.display, keycode, base|variant, b.root, C.False,
			C.GrabModeAsync, C.GrabModeAsync)
		C.XSync(b.display, C.False)
		if code := C.takeGrabError(); code != 0 {
			// Roll back the variants grabbed so far.
			for _, prev := range lockVariants[:i] {
				C.XUngrabKey(b.display, keycode, base|prev, b.root)
			}
			C.XSync(b.display, C.False)
			return osErr("XGrabKey", fmt.Errorf("x error code %d (combination likely grabbed by another client)", int(code)))
		}
	}
	b.grabbed[h] = true
	return nil
}

func (b *x11Backend) doUngrab(h Hotkey) error {
	evcode, ok := evdevFromKey(h.Key)
	if !ok {
		return nil
	}
	keycode := C.int(uint32(evcode) + xkbKeycodeOffset)
	base := xMaskFromMods(h.Mods)
	for _, variant := range lockVariants {
		C.XUngrabKey(b.display, keycode, base|variant, b.root)
	}
	C.XSync(b.display, C.False)
	delete(b.grabbed, h)
	return nil
}

// grab and ungrab implement grabber by round-tripping through the loop.
func (b *x11Backend) grab(h Hotkey) error   { return b.send(x11Cmd{hotkey: h, reply: make(chan error, 1)}) }
func (b *x11Backend) ungrab(h Hotkey) error { return b.send(x11Cmd{hotkey: h, ungrab: true, reply: make(chan error, 1)}) }

func (b *x11Backend) send(cmd x11Cmd) error {
	select {
	case b.cmds <- cmd:
	case <-b.done:
		return ErrBackendUnavailable
	}
	b.wake()
	select {
	case err := <-cmd.reply:
		return err
	case <-b.done:
		return ErrBackendUnavailable
	}
}

func (b *x11Backend) wake() {
	var one = [8]byte{1}
	unix.Write(b.wakeFd, one[:])
}

func (b *x11Backend) stop() {
	b.stopOnce.Do(func() {
		b.stopping.Store(true)
		b.wake()
		<-b.done
	})
}

func (b *x11Backend) cleanup() {
	for h := range b.grabbed {
		b.doUngrab(h)
	}
	C.XCloseDisplay(b.display)
	unix.Close(b.wakeFd)
}
