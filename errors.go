package keychord

import (
	"errors"
	"fmt"
)

var (
	// ErrBackendUnavailable is returned when no usable capture mechanism
	// exists: construction found neither raw-device access nor a windowing
	// grab, the backend has entered its terminal failure state, or the Hook
	// has been closed.
	ErrBackendUnavailable = errors.New("no usable capture backend available")

	// ErrAlreadyRegistered is returned when a chord equal to an existing
	// registration is registered again.
	ErrAlreadyRegistered = errors.New("hotkey already registered")

	// ErrNotRegistered is returned for an unknown or already-consumed token.
	ErrNotRegistered = errors.New("hotkey not registered")

	// ErrThreadSpawn is returned when the capture loop failed to come up
	// without reporting a more specific platform error.
	ErrThreadSpawn = errors.New("capture thread failed to start")

	// ErrInvalidHotkey is returned for chords that cannot be registered,
	// such as a modifier used as the defining key.
	ErrInvalidHotkey = errors.New("invalid hotkey")
)

// OSError wraps a native call failure with the platform error surfaced
// verbatim.
type OSError struct {
	Op  string // the native call that failed, e.g. "XGrabKey"
	Err error
}

func (e *OSError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OSError) Unwrap() error { return e.Err }

func osErr(op string, err error) error {
	return &OSError{Op: op, Err: err}
}
