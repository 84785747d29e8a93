//go:build js

package keychord

import (
	"fmt"
	"syscall/js"

	"github.com/rs/zerolog"
)

// The host event loop is single-threaded and each handler is a short
// synchronous step, so there is nothing to decouple callback execution from:
// dispatch degenerates to a direct call on the same execution context.
const inlineDispatch = true

// jsBackend listens for keydown/keyup on the global event target and runs
// the shared chord tracker cooperatively inside those handlers.
type jsBackend struct {
	hook    *Hook
	log     zerolog.Logger
	tracker *chordTracker

	target    js.Value
	onKeyDown js.Func
	onKeyUp   js.Func
	stopped   bool
}

func newBackend(h *Hook) (backend, error) {
	target := js.Global()
	if !target.Get("addEventListener").Truthy() {
		return nil, fmt.Errorf("%w: global object has no addEventListener", ErrBackendUnavailable)
	}
	return &jsBackend{
		hook:    h,
		log:     h.log,
		tracker: newChordTracker(h),
		target:  target,
	}, nil
}

func (b *jsBackend) start() error {
	b.onKeyDown = js.FuncOf(func(this js.Value, args []js.Value) any {
		b.handle(args, true)
		return nil
	})
	b.onKeyUp = js.FuncOf(func(this js.Value, args []js.Value) any {
		b.handle(args, false)
		return nil
	})
	b.target.Call("addEventListener", "keydown", b.onKeyDown)
	b.target.Call("addEventListener", "keyup", b.onKeyUp)
	b.log.Debug().Msg("Listening for DOM key events")
	return nil
}

func (b *jsBackend) handle(args []js.Value, down bool) {
	if b.stopped || len(args) == 0 {
		return
	}
	key, ok := keyFromDOMCode(args[0].Get("code").String())
	if !ok {
		return
	}
	// The event is never consumed; repeats are filtered by the tracker's
	// held set like everywhere else.
	if down {
		b.tracker.keyDown(key)
	} else {
		b.tracker.keyUp(key)
	}
}

func (b *jsBackend) stop() {
	if b.stopped {
		return
	}
	b.stopped = true
	b.target.Call("removeEventListener", "keydown", b.onKeyDown)
	b.target.Call("removeEventListener", "keyup", b.onKeyUp)
	b.onKeyDown.Release()
	b.onKeyUp.Release()
	b.tracker.reset()
}
