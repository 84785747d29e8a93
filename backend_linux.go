//go:build linux

package keychord

import "fmt"

const inlineDispatch = false

// newBackend probes raw-device access first and falls back to X11 key grabs
// when no input device can be opened (typically a permissions failure). The
// choice is made once per Hook and never revisited at runtime.
func newBackend(h *Hook) (backend, error) {
	b, rawErr := newEvdevBackend(h)
	if rawErr == nil {
		return b, nil
	}
	h.log.Warn().Err(rawErr).Msg("Raw input unavailable, falling back to X11 key grabs")

	xb, xErr := newX11Backend(h)
	if xErr == nil {
		return xb, nil
	}
	return nil, fmt.Errorf("%w: raw input: %v; x11: %v", ErrBackendUnavailable, rawErr, xErr)
}
