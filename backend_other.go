//go:build !windows && !linux && !darwin && !js

package keychord

import "fmt"

const inlineDispatch = false

func newBackend(h *Hook) (backend, error) {
	return nil, fmt.Errorf("%w: unsupported platform", ErrBackendUnavailable)
}
