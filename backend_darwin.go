//go:build darwin

package keychord

/*
#cgo LDFLAGS: -framework Carbon
#include <Carbon/Carbon.h>

extern void keychordHotkeyFired(unsigned int id);

static OSStatus hotkeyHandler(EventHandlerCallRef nextHandler, EventRef theEvent, void *userData) {
	EventHotKeyID hkID;
	GetEventParameter(theEvent, kEventParamDirectObject, typeEventHotKeyID,
		NULL, sizeof(hkID), NULL, &hkID);
	if (GetEventKind(theEvent) == kEventHotKeyPressed) {
		keychordHotkeyFired(hkID.id);
	}
	return noErr;
}

static OSStatus installHotkeyHandler() {
	EventTypeSpec spec;
	spec.eventClass = kEventClassKeyboard;
	spec.eventKind = kEventHotKeyPressed;
	return InstallEventHandler(GetEventDispatcherTarget(),
		NewEventHandlerUPP(hotkeyHandler), 1, &spec, NULL, NULL);
}

static OSStatus registerKey(UInt32 keyCode, UInt32 modifiers, UInt32 id, EventHotKeyRef *out) {
	EventHotKeyID hkID;
	hkID.signature = 'kchd';
	hkID.id = id;
	return RegisterEventHotKey(keyCode, modifiers, hkID, GetEventDispatcherTarget(), 0, out);
}

static OSStatus unregisterKey(EventHotKeyRef ref) {
	return UnregisterEventHotKey(ref);
}

static void runHotkeyEventLoop() { RunApplicationEventLoop(); }
static void quitHotkeyEventLoop() { QuitApplicationEventLoop(); }
*/
import "C"

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

const inlineDispatch = false

// The Carbon event handler cannot carry a Go pointer, so the live backend is
// looked up through this package-level reference. macOS permits one
// application event loop per process, which limits this backend to one
// running Hook at a time.
var (
	darwinMu     sync.Mutex
	darwinActive *darwinBackend
)

//export keychordHotkeyFired
func keychordHotkeyFired(id C.uint) {
	darwinMu.Lock()
	b := darwinActive
	darwinMu.Unlock()
	if b == nil {
		return
	}
	b.fired(uint32(id))
}

// darwinBackend registers chords with the Carbon hotkey API, a grab-style
// mechanism: the OS reports completed chords directly, one per registration
// id, on the application event loop this backend runs on a dedicated thread.
type darwinBackend struct {
	hook *Hook
	log  zerolog.Logger

	mu     sync.Mutex
	nextID uint32
	byID   map[uint32]Hotkey
	refs   map[Hotkey]hotkeyRef

	abandoned atomic.Bool
	ready     chan error
	done      chan struct{}
	stopOnce  sync.Once
}

type hotkeyRef struct {
	id  uint32
	ref C.EventHotKeyRef
}

func newBackend(h *Hook) (backend, error) {
	darwinMu.Lock()
	defer darwinMu.Unlock()
	if darwinActive != nil {
		return nil, fmt.Errorf("%w: another Hook already owns the Carbon event loop", ErrBackendUnavailable)
	}
	b := &darwinBackend{
		hook:  h,
		log:   h.log,
		byID:  make(map[uint32]Hotkey),
		refs:  make(map[Hotkey]hotkeyRef),
		ready: make(chan error, 1),
		done:  make(chan struct{}),
	}
	darwinActive = b
	return b, nil
}

func (b *darwinBackend) start() error {
	go b.loop()
	err := awaitStart(b.ready, startTimeout, func() {
		b.abandoned.Store(true)
		b.clearActive()
	})
	if err != nil {
		b.clearActive()
	}
	return err
}

func (b *darwinBackend) loop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(b.done)

	if status := C.installHotkeyHandler(); status != C.noErr {
		b.ready <- osErr("InstallEventHandler", fmt.Errorf("status %d", int(status)))
		return
	}
	b.ready <- nil

	if b.abandoned.Load() {
		return // start timed out and the Hook was never handed out
	}

	b.log.Debug().Msg("Carbon hotkey event loop running")
	C.runHotkeyEventLoop()

	b.releaseAll()
	b.log.Debug().Msg("Carbon hotkey event loop stopped")
}

func (b *darwinBackend) fired(id uint32) {
	b.mu.Lock()
	h, ok := b.byID[id]
	b.mu.Unlock()
	if !ok {
		return
	}
	b.hook.trigger(h)
}

func (b *darwinBackend) grab(h Hotkey) error {
	vk, ok := carbonFromKey(h.Key)
	if !ok {
		return fmt.Errorf("%w: %s has no Carbon key code", ErrInvalidHotkey, h)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID

	var ref C.EventHotKeyRef
	status := C.registerKey(C.UInt32(vk), C.UInt32(carbonModsFromMods(h.Mods)), C.UInt32(id), &ref)
	if status != C.noErr {
		return osErr("RegisterEventHotKey", fmt.Errorf("status %d", int(status)))
	}
	b.byID[id] = h
	b.refs[h] = hotkeyRef{id: id, ref: ref}
	return nil
}

func (b *darwinBackend) ungrab(h Hotkey) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	hr, ok := b.refs[h]
	if !ok {
		return nil
	}
	delete(b.refs, h)
	delete(b.byID, hr.id)
	if status := C.unregisterKey(hr.ref); status != C.noErr {
		return osErr("UnregisterEventHotKey", fmt.Errorf("status %d", int(status)))
	}
	return nil
}

func (b *darwinBackend) releaseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for h, hr := range b.refs {
		C.unregisterKey(hr.ref)
		delete(b.refs, h)
		delete(b.byID, hr.id)
	}
}

func (b *darwinBackend) stop() {
	b.stopOnce.Do(func() {
		C.quitHotkeyEventLoop()
		<-b.done
		b.clearActive()
	})
}

func (b *darwinBackend) clearActive() {
	darwinMu.Lock()
	if darwinActive == b {
		darwinActive = nil
	}
	darwinMu.Unlock()
}
