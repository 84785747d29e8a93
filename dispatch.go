package keychord

import (
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// dispatchQueueSize bounds the channel between the capture loop and the
// dispatcher. The capture side never blocks on it.
const dispatchQueueSize = 64

type dispatchEvent struct {
	hotkey   Hotkey
	callback Callback
}

// dispatcher decouples chord detection from callback execution. Capture
// loops run inside constrained native contexts and must never call user code
// directly; they offer events to the channel and the dispatcher goroutine
// invokes callbacks one at a time, in channel order.
//
// In inline mode (single-threaded cooperative hosts) there is no capture
// thread to decouple from and offer degenerates to a synchronous call.
type dispatcher struct {
	log     zerolog.Logger
	inline  bool
	ch      chan dispatchEvent
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
	dropped atomic.Uint64
}

func newDispatcher(log zerolog.Logger, inline bool) *dispatcher {
	d := &dispatcher{
		log:    log,
		inline: inline,
		done:   make(chan struct{}),
	}
	if !inline {
		d.ch = make(chan dispatchEvent, dispatchQueueSize)
		d.wg.Add(1)
		go d.run()
	}
	return d
}

// offer hands an event to the dispatcher without ever blocking the caller.
// Events offered onto a full queue are dropped and counted.
func (d *dispatcher) offer(ev dispatchEvent) {
	if d.inline {
		d.invoke(ev)
		return
	}
	select {
	case <-d.done:
		return // shutting down; discard
	default:
	}
	select {
	case d.ch <- ev:
	default:
		n := d.dropped.Add(1)
		d.log.Warn().
			Stringer("hotkey", ev.hotkey).
			Uint64("dropped_total", n).
			Msg("Dispatch queue full, dropping hotkey event")
	}
}

func (d *dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case <-d.done:
			return
		case ev := <-d.ch:
			d.invoke(ev)
		}
	}
}

func (d *dispatcher) invoke(ev dispatchEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Stringer("hotkey", ev.hotkey).
				Interface("panic", r).
				Msg("Recovered from panic in hotkey callback")
		}
	}()
	ev.callback(ev.hotkey)
}

// stop shuts the dispatcher down. Queued, undelivered events are discarded;
// a callback already executing completes before stop returns.
func (d *dispatcher) stop() {
	d.once.Do(func() {
		close(d.done)
		d.wg.Wait()
	})
}
