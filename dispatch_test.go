package keychord

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestOfferDropsOnFullQueueWithoutBlocking(t *testing.T) {
	d := newDispatcher(zerolog.Nop(), false)
	defer d.stop()

	// Park the consumer inside a callback so nothing drains the queue.
	block := make(chan struct{})
	entered := make(chan struct{})
	d.offer(dispatchEvent{callback: func(Hotkey) {
		close(entered)
		<-block
	}})
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for consumer to pick up the first event")
	}

	// Overfill past capacity. The capture side must never block, and the
	// excess must be counted as dropped.
	const excess = 10
	offered := make(chan struct{})
	go func() {
		for i := 0; i < dispatchQueueSize+excess; i++ {
			d.offer(dispatchEvent{callback: func(Hotkey) {}})
		}
		close(offered)
	}()
	select {
	case <-offered:
	case <-time.After(time.Second):
		t.Fatal("offer blocked on a full queue")
	}

	if got := d.dropped.Load(); got != excess {
		t.Errorf("dropped = %d, want %d", got, excess)
	}
	close(block)
}
