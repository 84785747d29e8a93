package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/petems/keychord"
	"github.com/petems/keychord/internal/config"
	"github.com/rs/zerolog"
)

// Mock implementations for testing

type mockActions struct {
	mu       sync.Mutex
	notified []string
	copied   []string
	ran      [][]string
	err      error
}

func (m *mockActions) Notify(title, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified = append(m.notified, message)
	return m.err
}

func (m *mockActions) Copy(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.copied = append(m.copied, text)
	return m.err
}

func (m *mockActions) Run(name string, args []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ran = append(m.ran, append([]string{name}, args...))
	return m.err
}

func (m *mockActions) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockActions) counts() (notified, copied, ran int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.notified), len(m.copied), len(m.ran)
}

type mockStatus struct {
	mu        sync.Mutex
	listening int
	paused    int
	errored   int
}

func (m *mockStatus) SetListening() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listening++
}

func (m *mockStatus) SetPaused() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused++
}

func (m *mockStatus) SetError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errored++
}

func (m *mockStatus) snapshot() (listening, paused, errored int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listening, m.paused, m.errored
}

// newTestApp wires the app to the engine's synthetic backend so tests drive
// it exactly the way real key events would.
func newTestApp(t *testing.T, bindings []config.Binding) (*App, *keychord.Hook, *keychord.FakeBackend, *mockActions, *mockStatus) {
	t.Helper()
	hook, fb := keychord.NewFake()
	t.Cleanup(func() { hook.Close() })

	act := &mockActions{}
	status := &mockStatus{}
	a := New(Config{
		Hook:          hook,
		Config:        &config.Config{LogLevel: "info", Bindings: bindings},
		Logger:        zerolog.Nop(),
		Actions:       act,
		StatusUpdater: status,
	})
	return a, hook, fb, act, status
}

// tapChord injects control+alt+<key> through the synthetic backend.
func tapChord(fb *keychord.FakeBackend, key keychord.KeyCode) {
	fb.KeyDown(keychord.KeyLeftControl)
	fb.KeyDown(keychord.KeyLeftAlt)
	fb.Tap(key)
	fb.KeyUp(keychord.KeyLeftAlt)
	fb.KeyUp(keychord.KeyLeftControl)
}

// waitFor polls for an asynchronous condition, dispatcher-style tests need it.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	for i := 0; i < 100; i++ { // Poll for 1 second
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestStartRegistersAllBindings(t *testing.T) {
	a, hook, _, _, status := newTestApp(t, []config.Binding{
		{Chord: "control+alt+n", Action: config.ActionNotify, Message: "hi"},
		{Chord: "control+alt+c", Action: config.ActionCopy, Text: "snippet"},
		{Chord: "control+alt+r", Action: config.ActionRun, Command: []string{"true"}},
	})

	if err := a.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	// The chords must now be occupied in the engine.
	for _, chord := range []string{"control+alt+n", "control+alt+c", "control+alt+r"} {
		if _, err := hook.Register(keychord.MustParse(chord), func(keychord.Hotkey) {}); !errors.Is(err, keychord.ErrAlreadyRegistered) {
			t.Errorf("chord %s: Register error = %v, want ErrAlreadyRegistered", chord, err)
		}
	}
	if listening, _, _ := status.snapshot(); listening != 1 {
		t.Errorf("SetListening called %d times, want 1", listening)
	}
}

func TestStartRejectsBadChordAndRollsBack(t *testing.T) {
	a, hook, _, _, _ := newTestApp(t, []config.Binding{
		{Chord: "control+alt+n", Action: config.ActionNotify},
		{Chord: "control+bogus", Action: config.ActionNotify},
	})

	if err := a.Start(); !errors.Is(err, keychord.ErrInvalidHotkey) {
		t.Fatalf("Start error = %v, want ErrInvalidHotkey", err)
	}

	// The valid chord must not have been left registered.
	if _, err := hook.Register(keychord.MustParse("control+alt+n"), func(keychord.Hotkey) {}); err != nil {
		t.Errorf("chord still occupied after failed Start: %v", err)
	}
}

func TestStartRejectsUnknownAction(t *testing.T) {
	a, _, _, _, _ := newTestApp(t, []config.Binding{
		{Chord: "control+alt+n", Action: "teleport"},
	})
	if err := a.Start(); err == nil {
		t.Fatal("Start accepted unknown action")
	}
}

func TestStartRejectsRunWithoutCommand(t *testing.T) {
	a, _, _, _, _ := newTestApp(t, []config.Binding{
		{Chord: "control+alt+r", Action: config.ActionRun},
	})
	if err := a.Start(); err == nil {
		t.Fatal("Start accepted run binding without a command")
	}
}

func TestFiredChordPerformsAction(t *testing.T) {
	a, _, fb, act, _ := newTestApp(t, []config.Binding{
		{Chord: "control+alt+n", Action: config.ActionNotify, Message: "hello"},
		{Chord: "control+alt+c", Action: config.ActionCopy, Text: "snippet"},
		{Chord: "control+alt+r", Action: config.ActionRun, Command: []string{"touch", "/tmp/x"}},
	})
	if err := a.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	tapChord(fb, keychord.KeyN)
	tapChord(fb, keychord.KeyC)
	tapChord(fb, keychord.KeyR)

	waitFor(t, func() bool {
		n, c, r := act.counts()
		return n == 1 && c == 1 && r == 1
	}, "timed out waiting for all three actions")

	act.mu.Lock()
	defer act.mu.Unlock()
	if act.notified[0] != "hello" {
		t.Errorf("notified = %v, want [hello]", act.notified)
	}
	if act.copied[0] != "snippet" {
		t.Errorf("copied = %v, want [snippet]", act.copied)
	}
	if len(act.ran[0]) != 2 || act.ran[0][0] != "touch" || act.ran[0][1] != "/tmp/x" {
		t.Errorf("ran = %v, want [[touch /tmp/x]]", act.ran)
	}
}

func TestActionErrorSetsErrorStatus(t *testing.T) {
	a, _, fb, act, status := newTestApp(t, []config.Binding{
		{Chord: "control+alt+n", Action: config.ActionNotify, Message: "hello"},
	})
	if err := a.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	act.setErr(errors.New("notification daemon unreachable"))
	tapChord(fb, keychord.KeyN)

	waitFor(t, func() bool {
		_, _, errored := status.snapshot()
		return errored == 1
	}, "timed out waiting for SetError")
}

func TestPauseStopsFiringAndResumeRestores(t *testing.T) {
	a, _, fb, act, status := newTestApp(t, []config.Binding{
		{Chord: "control+alt+n", Action: config.ActionNotify, Message: "hello"},
	})
	if err := a.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	a.Pause()
	if !a.IsPaused() {
		t.Error("IsPaused = false after Pause")
	}
	if _, paused, _ := status.snapshot(); paused != 1 {
		t.Errorf("SetPaused called %d times, want 1", paused)
	}

	// Pause is idempotent.
	a.Pause()
	if _, paused, _ := status.snapshot(); paused != 1 {
		t.Errorf("second Pause changed status, SetPaused = %d", paused)
	}

	tapChord(fb, keychord.KeyN)
	time.Sleep(50 * time.Millisecond)
	if n, _, _ := act.counts(); n != 0 {
		t.Errorf("action fired while paused, notified = %d", n)
	}

	if err := a.Resume(); err != nil {
		t.Fatalf("Resume returned error: %v", err)
	}
	if a.IsPaused() {
		t.Error("IsPaused = true after Resume")
	}

	tapChord(fb, keychord.KeyN)
	waitFor(t, func() bool {
		n, _, _ := act.counts()
		return n == 1
	}, "timed out waiting for action after Resume")
}

func TestResumeFailureStaysPaused(t *testing.T) {
	a, hook, _, _, status := newTestApp(t, []config.Binding{
		{Chord: "control+alt+n", Action: config.ActionNotify},
	})
	if err := a.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	a.Pause()
	hook.Close() // Resume will find the engine gone

	if err := a.Resume(); !errors.Is(err, keychord.ErrBackendUnavailable) {
		t.Fatalf("Resume error = %v, want ErrBackendUnavailable", err)
	}
	if !a.IsPaused() {
		t.Error("IsPaused = false after failed Resume")
	}
	if _, _, errored := status.snapshot(); errored != 1 {
		t.Errorf("SetError called %d times, want 1", errored)
	}
}

func TestShutdownUnregistersEverything(t *testing.T) {
	a, hook, _, _, _ := newTestApp(t, []config.Binding{
		{Chord: "control+alt+n", Action: config.ActionNotify},
	})
	if err := a.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}

	a.Shutdown()
	if _, err := hook.Register(keychord.MustParse("control+alt+n"), func(keychord.Hotkey) {}); err != nil {
		t.Errorf("chord still occupied after Shutdown: %v", err)
	}
}
