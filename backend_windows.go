//go:build windows

package keychord

import (
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"
)

const inlineDispatch = false

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
)

const (
	whKeyboardLL = 13
	hcAction     = 0

	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105
	wmQuit       = 0x0012

	llkhfExtended = 0x01
)

type kbdllHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type winMsg struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// windowsBackend installs a process-global WH_KEYBOARD_LL filter on a locked
// OS thread that owns a message loop. The OS silently uninstalls the hook if
// the callback overruns its real-time budget, so the callback only
// translates the event, updates the held set and offers a completed chord to
// the dispatcher, then always passes the event through unmodified.
type windowsBackend struct {
	hook    *Hook
	log     zerolog.Logger
	tracker *chordTracker

	hhook     uintptr
	threadID  atomic.Uint32
	abandoned atomic.Bool

	startErr chan error
	done     chan struct{}
	stopOnce sync.Once
}

func newBackend(h *Hook) (backend, error) {
	return &windowsBackend{
		hook:     h,
		log:      h.log,
		tracker:  newChordTracker(h),
		startErr: make(chan error, 1),
		done:     make(chan struct{}),
	}, nil
}

func (b *windowsBackend) start() error {
	go b.loop()
	return awaitStart(b.startErr, startTimeout, func() {
		// The loop thread may still come up after the timeout; the flag
		// makes it unhook and exit instead of capturing for a dead Hook.
		b.abandoned.Store(true)
		b.postQuit()
	})
}

func (b *windowsBackend) loop() {
	// The hook and its message loop must live on one OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(b.done)

	b.threadID.Store(windows.GetCurrentThreadId())

	cb := syscall.NewCallback(b.hookProc)
	hhook, _, callErr := procSetWindowsHookExW.Call(uintptr(whKeyboardLL), cb, 0, 0)
	if hhook == 0 {
		b.startErr <- osErr("SetWindowsHookExW", callErr)
		return
	}
	b.hhook = hhook
	b.startErr <- nil

	if b.abandoned.Load() {
		procUnhookWindowsHookEx.Call(b.hhook)
		return
	}

	b.log.Debug().Msg("Low-level keyboard hook installed")

	// The hook callback is serviced while this thread sits in GetMessageW;
	// WM_QUIT posted by stop ends the loop.
	var m winMsg
	for {
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			break
		}
	}

	procUnhookWindowsHookEx.Call(b.hhook)
	b.tracker.reset()
	b.log.Debug().Msg("Low-level keyboard hook removed")
}

// hookProc runs inside the OS hook context. No fault may escape it.
func (b *windowsBackend) hookProc(code int32, wParam, lParam uintptr) uintptr {
	if code == hcAction {
		b.handleKey(wParam, lParam)
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(code), wParam, lParam)
	return ret
}

func (b *windowsBackend) handleKey(wParam, lParam uintptr) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error().Interface("panic", r).Msg("Recovered from panic in keyboard hook")
		}
	}()

	kb := (*kbdllHookStruct)(unsafe.Pointer(lParam))
	key, ok := keyFromVirtualKey(kb.VkCode, kb.Flags&llkhfExtended != 0)
	if !ok {
		return
	}

	switch wParam {
	case wmKeyDown, wmSysKeyDown:
		b.tracker.keyDown(key)
	case wmKeyUp, wmSysKeyUp:
		b.tracker.keyUp(key)
	}
}

func (b *windowsBackend) stop() {
	b.stopOnce.Do(func() {
		b.postQuit()
		<-b.done
	})
}

func (b *windowsBackend) postQuit() {
	if id := b.threadID.Load(); id != 0 {
		procPostThreadMessageW.Call(uintptr(id), wmQuit, 0, 0)
	}
}
