package keychord

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestRegisterDuplicateFails(t *testing.T) {
	hook, _ := NewFake()
	defer hook.Close()

	chord := MustParse("control+alt+x")
	if _, err := hook.Register(chord, func(Hotkey) {}); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if _, err := hook.Register(chord, func(Hotkey) {}); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("second Register error = %v, want ErrAlreadyRegistered", err)
	}
}

func TestUnregisterConsumesToken(t *testing.T) {
	hook, _ := NewFake()
	defer hook.Close()

	token, err := hook.Register(MustParse("control+b"), func(Hotkey) {})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := hook.Unregister(token); err != nil {
		t.Fatalf("Unregister returned error: %v", err)
	}
	if err := hook.Unregister(token); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("second Unregister error = %v, want ErrNotRegistered", err)
	}
}

func TestUnregisterFreesChordForReRegistration(t *testing.T) {
	hook, _ := NewFake()
	defer hook.Close()

	chord := MustParse("meta+k")
	token, err := hook.Register(chord, func(Hotkey) {})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := hook.Unregister(token); err != nil {
		t.Fatalf("Unregister returned error: %v", err)
	}
	if _, err := hook.Register(chord, func(Hotkey) {}); err != nil {
		t.Errorf("re-Register after Unregister returned error: %v", err)
	}
}

func TestRegisterRejectsInvalidHotkeys(t *testing.T) {
	hook, _ := NewFake()
	defer hook.Close()

	if _, err := hook.Register(Hotkey{Mods: ModControl, Key: KeyLeftShift}, func(Hotkey) {}); !errors.Is(err, ErrInvalidHotkey) {
		t.Errorf("modifier as defining key: error = %v, want ErrInvalidHotkey", err)
	}
	if _, err := hook.Register(Hotkey{Key: KeyCode(9999)}, func(Hotkey) {}); !errors.Is(err, ErrInvalidHotkey) {
		t.Errorf("unknown key: error = %v, want ErrInvalidHotkey", err)
	}
	if _, err := hook.Register(MustParse("control+c"), nil); !errors.Is(err, ErrInvalidHotkey) {
		t.Errorf("nil callback: error = %v, want ErrInvalidHotkey", err)
	}
}

func TestUnregisteredChordDoesNotFire(t *testing.T) {
	hook, fb := NewFake()
	defer hook.Close()

	fired := make(chan struct{}, 1)
	token, err := hook.Register(MustParse("control+x"), func(Hotkey) {
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if err := hook.Unregister(token); err != nil {
		t.Fatalf("Unregister returned error: %v", err)
	}

	fb.KeyDown(KeyLeftControl)
	fb.KeyDown(KeyX)

	select {
	case <-fired:
		t.Fatal("callback fired after Unregister")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestNoCallbackAfterClose(t *testing.T) {
	hook, fb := NewFake()

	fired := make(chan struct{}, 1)
	if _, err := hook.Register(MustParse("control+x"), func(Hotkey) {
		fired <- struct{}{}
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if err := hook.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	// The capture mechanism may keep receiving raw events after teardown.
	fb.KeyDown(KeyLeftControl)
	fb.KeyDown(KeyX)

	select {
	case <-fired:
		t.Fatal("callback fired after Close returned")
	case <-time.After(50 * time.Millisecond):
	}

	if _, err := hook.Register(MustParse("control+y"), func(Hotkey) {}); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("Register on closed Hook: error = %v, want ErrBackendUnavailable", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	hook, _ := NewFake()
	if err := hook.Close(); err != nil {
		t.Fatalf("first Close returned error: %v", err)
	}
	if err := hook.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}

func TestCallbackOrderMatchesTriggerOrder(t *testing.T) {
	hook, fb := NewFake()
	defer hook.Close()

	var mu sync.Mutex
	var order []string

	record := func(name string) Callback {
		return func(Hotkey) {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
		}
	}
	if _, err := hook.Register(MustParse("control+a"), record("a")); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, err := hook.Register(MustParse("control+b"), record("b")); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	const rounds = 20
	fb.KeyDown(KeyLeftControl)
	for i := 0; i < rounds; i++ {
		fb.Tap(KeyA)
		fb.Tap(KeyB)
	}

	deadline := time.Now().Add(time.Second)
	for {
		mu.Lock()
		n := len(order)
		mu.Unlock()
		if n == 2*rounds {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for callbacks, got %d of %d", n, 2*rounds)
		}
		time.Sleep(5 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	for i, name := range order {
		want := "a"
		if i%2 == 1 {
			want = "b"
		}
		if name != want {
			t.Fatalf("callback %d = %q, want %q (order: %v)", i, name, want, order)
		}
	}
}

func TestCallbackPanicIsAbsorbed(t *testing.T) {
	hook, fb := NewFake()
	defer hook.Close()

	fired := make(chan struct{}, 2)
	if _, err := hook.Register(MustParse("control+p"), func(Hotkey) {
		fired <- struct{}{}
		panic("callback exploded")
	}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	fb.KeyDown(KeyLeftControl)
	fb.Tap(KeyP)
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for first fire")
	}

	// The dispatcher must survive the panic and keep delivering.
	fb.Tap(KeyP)
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("dispatcher stopped delivering after a callback panic")
	}
}

// grabStub is a grab-style backend whose native grab can be made to fail,
// standing in for the windowing fallback.
type grabStub struct {
	*FakeBackend
	failGrab bool
	grabs    map[Hotkey]bool
}

func (g *grabStub) grab(h Hotkey) error {
	if g.failGrab {
		return osErr("XGrabKey", fmt.Errorf("x error code 10"))
	}
	g.grabs[h] = true
	return nil
}

func (g *grabStub) ungrab(h Hotkey) error {
	delete(g.grabs, h)
	return nil
}

func newGrabStubHook() (*Hook, *grabStub) {
	hook, fb := NewFake()
	stub := &grabStub{FakeBackend: fb, grabs: make(map[Hotkey]bool)}
	hook.backend = stub
	return hook, stub
}

func TestGrabFailureRollsBackRegistration(t *testing.T) {
	hook, stub := newGrabStubHook()
	defer hook.Close()

	stub.failGrab = true
	chord := MustParse("control+g")

	var osFailure *OSError
	if _, err := hook.Register(chord, func(Hotkey) {}); !errors.As(err, &osFailure) {
		t.Fatalf("Register error = %v, want *OSError", err)
	}

	// The failed registration must not occupy the chord.
	stub.failGrab = false
	if _, err := hook.Register(chord, func(Hotkey) {}); err != nil {
		t.Errorf("Register after rolled-back grab returned error: %v", err)
	}
	if !stub.grabs[chord] {
		t.Error("expected native grab to be held after successful Register")
	}
}

func TestUnregisterReleasesNativeGrab(t *testing.T) {
	hook, stub := newGrabStubHook()
	defer hook.Close()

	chord := MustParse("alt+f4")
	token, err := hook.Register(chord, func(Hotkey) {})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !stub.grabs[chord] {
		t.Fatal("expected native grab after Register")
	}
	if err := hook.Unregister(token); err != nil {
		t.Fatalf("Unregister returned error: %v", err)
	}
	if stub.grabs[chord] {
		t.Error("native grab still held after Unregister")
	}
}

func TestBackendFailureMakesRegistrationUnavailable(t *testing.T) {
	hook, _ := NewFake()
	defer hook.Close()

	hook.backendFailed(fmt.Errorf("all input devices failed"))

	if _, err := hook.Register(MustParse("control+x"), func(Hotkey) {}); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("Register after backend failure: error = %v, want ErrBackendUnavailable", err)
	}
}
