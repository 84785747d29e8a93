//go:build linux

package keychord

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

func putInputEvent(buf []byte, evType, code uint16, value int32) {
	binary.LittleEndian.PutUint16(buf[16:], evType)
	binary.LittleEndian.PutUint16(buf[18:], code)
	binary.LittleEndian.PutUint32(buf[20:], uint32(value))
}

func TestDecodeInputEvents(t *testing.T) {
	buf := make([]byte, 4*inputEventSize)
	putInputEvent(buf[0:], evKey, 30, evValuePress) // KEY_A down
	putInputEvent(buf[24:], 0, 0, 1)                // EV_SYN, skipped
	putInputEvent(buf[48:], evKey, 30, evValueRelease)
	putInputEvent(buf[72:], 2, 1, -3) // EV_REL, skipped

	events := decodeInputEvents(buf)
	if len(events) != 2 {
		t.Fatalf("decoded %d events, want 2: %v", len(events), events)
	}
	if events[0].code != 30 || events[0].value != evValuePress {
		t.Errorf("events[0] = %+v, want code 30 press", events[0])
	}
	if events[1].code != 30 || events[1].value != evValueRelease {
		t.Errorf("events[1] = %+v, want code 30 release", events[1])
	}
}

func TestDecodeInputEventsIgnoresPartialTrailer(t *testing.T) {
	buf := make([]byte, inputEventSize+10)
	putInputEvent(buf, evKey, 42, evValuePress) // KEY_LEFTSHIFT

	events := decodeInputEvents(buf)
	if len(events) != 1 {
		t.Fatalf("decoded %d events, want 1", len(events))
	}
	if events[0].code != 42 {
		t.Errorf("code = %d, want 42", events[0].code)
	}
}

func TestDecodeInputEventsNegativeValue(t *testing.T) {
	buf := make([]byte, inputEventSize)
	putInputEvent(buf, evKey, 1, -1)

	events := decodeInputEvents(buf)
	if len(events) != 1 || events[0].value != -1 {
		t.Fatalf("events = %v, want one event with value -1", events)
	}
}

// TestLastDeviceFailureIsTerminalAndStopJoins drives the capture loop with a
// pipe standing in for an input device: EOF on the last device must put the
// backend in its terminal failed state without exiting the loop, and a later
// stop must still wake, join and release the loop cleanly.
func TestLastDeviceFailureIsTerminalAndStopJoins(t *testing.T) {
	hook, _ := NewFake()
	defer hook.Close()

	var p [2]int
	if err := unix.Pipe2(p[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe2: %v", err)
	}

	b := &evdevBackend{
		hook:    hook,
		log:     zerolog.Nop(),
		tracker: newChordTracker(hook),
		epfd:    -1,
		wakeFd:  -1,
		devices: map[int]string{p[0]: "pipe"},
		done:    make(chan struct{}),
	}
	if err := b.start(); err != nil {
		unix.Close(p[1])
		t.Fatalf("start returned error: %v", err)
	}

	// EOF on the only device.
	unix.Close(p[1])

	deadline := time.Now().Add(time.Second)
	for {
		b.mu.Lock()
		failed := b.failed
		b.mu.Unlock()
		if failed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for terminal failure after last device EOF")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, err := hook.Register(MustParse("control+x"), func(Hotkey) {}); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("Register after terminal failure: error = %v, want ErrBackendUnavailable", err)
	}

	stopped := make(chan struct{})
	go func() {
		b.stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop did not join the capture loop")
	}
}

func TestEvdevKeymapRoundTrip(t *testing.T) {
	for code, key := range evdevToKey {
		got, ok := evdevFromKey(key)
		if !ok {
			t.Errorf("evdevFromKey(%v) missing", key)
			continue
		}
		if got != code {
			t.Errorf("evdevFromKey(%v) = %d, want %d", key, got, code)
		}
	}
}
