package keychord

import "time"

// startTimeout bounds how long New waits for a capture loop to report its
// startup result.
const startTimeout = 5 * time.Second

// awaitStart collects a capture loop's startup handshake. On timeout the
// backend's abandon hook runs so the stranded loop tears itself down once it
// does come up, and the caller gets ErrThreadSpawn.
func awaitStart(result <-chan error, timeout time.Duration, abandon func()) error {
	select {
	case err := <-result:
		return err
	case <-time.After(timeout):
		abandon()
		return ErrThreadSpawn
	}
}

// backend is the platform-specific capture implementation. start spawns the
// capture loop (where the platform needs one) and only returns once the
// native listening resource is installed or has failed to install; stop
// signals the loop through its dedicated wake mechanism, releases native
// resources and joins the loop before returning.
type backend interface {
	start() error
	stop()
}

// grabber is implemented by backends that acquire a native per-hotkey grab
// at registration time (windowing-system fallback, Carbon) instead of
// computing chord completion from raw key transitions.
type grabber interface {
	grab(Hotkey) error
	ungrab(Hotkey) error
}
