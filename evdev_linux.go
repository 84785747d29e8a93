//go:build linux

package keychord

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

const (
	inputDir = "/dev/input"

	// struct input_event on 64-bit: struct timeval (16 bytes), then
	// type, code (uint16 each) and value (int32).
	inputEventSize = 24

	evKey          = 1
	evValueRelease = 0
	evValuePress   = 1
	evValueRepeat  = 2
)

type keyEvent struct {
	code  uint16
	value int32
}

// decodeInputEvents extracts the EV_KEY entries from a raw read of an input
// device. Partial trailing bytes are ignored.
func decodeInputEvents(buf []byte) []keyEvent {
	var events []keyEvent
	for i := 0; i+inputEventSize <= len(buf); i += inputEventSize {
		evType := binary.LittleEndian.Uint16(buf[i+16:])
		if evType != evKey {
			continue
		}
		events = append(events, keyEvent{
			code:  binary.LittleEndian.Uint16(buf[i+18:]),
			value: int32(binary.LittleEndian.Uint32(buf[i+20:])),
		})
	}
	return events
}

// evdevBackend multiplexes reads across every keyboard under /dev/input with
// one epoll set, plus an eventfd that wakes the loop for shutdown and device
// hot-plug. Devices are opened shared, so other readers (and other Hooks)
// are unaffected.
type evdevBackend struct {
	hook    *Hook
	log     zerolog.Logger
	tracker *chordTracker

	epfd    int
	wakeFd  int
	devices map[int]string // open device fd -> path
	watcher *fsnotify.Watcher

	mu         sync.Mutex
	pendingAdd []string
	stopping   bool
	failed     bool

	done     chan struct{}
	stopOnce sync.Once
}

// newEvdevBackend probes raw-device access: it succeeds only if at least one
// keyboard device can be opened for reading. The set of opened devices is
// kept for the capture loop.
func newEvdevBackend(h *Hook) (*evdevBackend, error) {
	paths, err := findKeyboardDevices()
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", inputDir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no keyboard devices found under %s", inputDir)
	}

	b := &evdevBackend{
		hook:    h,
		log:     h.log,
		tracker: newChordTracker(h),
		epfd:    -1,
		wakeFd:  -1,
		devices: make(map[int]string),
		done:    make(chan struct{}),
	}

	var lastErr error
	for _, path := range paths {
		fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
		if err != nil {
			lastErr = osErr("open "+path, err)
			continue
		}
		b.devices[fd] = path
	}
	if len(b.devices) == 0 {
		return nil, fmt.Errorf("could not open any of %d keyboard devices (is the user in the input group?): %w",
			len(paths), lastErr)
	}
	return b, nil
}

func (b *evdevBackend) start() error {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		b.closeDevices()
		return osErr("epoll_create1", err)
	}
	b.epfd = epfd

	wakeFd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(epfd)
		b.closeDevices()
		return osErr("eventfd", err)
	}
	b.wakeFd = wakeFd

	if err := b.epollAdd(wakeFd); err != nil {
		unix.Close(wakeFd)
		unix.Close(epfd)
		b.closeDevices()
		return err
	}
	for fd, path := range b.devices {
		if err := b.epollAdd(fd); err != nil {
			b.log.Warn().Err(err).Str("device", path).Msg("Dropping device that could not join the poll set")
			unix.Close(fd)
			delete(b.devices, fd)
		}
	}
	if len(b.devices) == 0 {
		unix.Close(wakeFd)
		unix.Close(epfd)
		return fmt.Errorf("%w: no device joined the poll set", ErrBackendUnavailable)
	}

	// Hot-plug: watch /dev/input for new event nodes. Removals surface as
	// read errors on the device itself.
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if err := watcher.Add(inputDir); err != nil {
			b.log.Warn().Err(err).Msg("Device hot-plug watching disabled")
			watcher.Close()
		} else {
			b.watcher = watcher
			go b.watchLoop()
		}
	} else {
		b.log.Warn().Err(err).Msg("Device hot-plug watching disabled")
	}

	b.log.Info().Int("devices", len(b.devices)).Msg("Capturing raw input devices")
	go b.captureLoop()
	return nil
}

func (b *evdevBackend) epollAdd(fd int) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(b.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return osErr("epoll_ctl", err)
	}
	return nil
}

func (b *evdevBackend) captureLoop() {
	defer close(b.done)
	defer b.cleanup()

	events := make([]unix.EpollEvent, 16)
	buf := make([]byte, inputEventSize*32)

	for {
		n, err := unix.EpollWait(b.epfd, events, -1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			b.hook.backendFailed(osErr("epoll_wait", err))
			return
		}

		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			if fd == b.wakeFd {
				if b.drainWake() {
					return // shutdown
				}
				continue
			}
			b.readDevice(fd, buf)
		}
	}
}

// drainWake consumes the eventfd and applies whatever the wake signalled.
// It reports true when the loop must exit.
func (b *evdevBackend) drainWake() bool {
	var v [8]byte
	unix.Read(b.wakeFd, v[:])

	b.mu.Lock()
	stopping := b.stopping
	adds := b.pendingAdd
	b.pendingAdd = nil
	failed := b.failed
	b.mu.Unlock()

	if stopping {
		return true
	}
	if failed {
		// Terminal state: no new devices are taken on.
		return false
	}
	for _, path := range adds {
		b.addDevice(path)
	}
	return false
}

func (b *evdevBackend) addDevice(path string) {
	if !isKeyboardDevice(filepath.Base(path)) {
		return
	}
	for _, existing := range b.devices {
		if existing == path {
			return
		}
	}
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		b.log.Warn().Err(err).Str("device", path).Msg("Could not open hot-plugged device")
		return
	}
	if err := b.epollAdd(fd); err != nil {
		b.log.Warn().Err(err).Str("device", path).Msg("Could not poll hot-plugged device")
		unix.Close(fd)
		return
	}
	b.devices[fd] = path
	b.log.Info().Str("device", path).Msg("Added hot-plugged keyboard")
}

func (b *evdevBackend) readDevice(fd int, buf []byte) {
	path, ok := b.devices[fd]
	if !ok {
		return
	}
	for {
		n, err := unix.Read(fd, buf)
		if err == unix.EAGAIN {
			return
		}
		if err != nil || n == 0 {
			b.dropDevice(fd, path, err)
			return
		}
		for _, ev := range decodeInputEvents(buf[:n]) {
			key, known := keyFromEvdev(ev.code)
			if !known {
				continue
			}
			switch ev.value {
			case evValuePress:
				b.tracker.keyDown(key)
			case evValueRelease:
				b.tracker.keyUp(key)
			case evValueRepeat:
				// Held-key repeat; the tracker would ignore it anyway.
			}
		}
	}
}

// dropDevice handles a transient failure on one device: it leaves the poll
// set and is closed while the loop keeps serving the rest. Losing the last
// device is terminal for the backend, but never crashes the process.
func (b *evdevBackend) dropDevice(fd int, path string, err error) {
	unix.EpollCtl(b.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	unix.Close(fd)
	delete(b.devices, fd)
	b.log.Warn().Err(err).Str("device", path).Msg("Removed failed input device")

	if len(b.devices) == 0 {
		b.mu.Lock()
		b.failed = true
		b.mu.Unlock()
		b.hook.backendFailed(fmt.Errorf("all input devices failed, last: %s: %w", path, err))
	}
}

func (b *evdevBackend) watchLoop() {
	for {
		select {
		case <-b.done:
			return
		case ev, ok := <-b.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&fsnotify.Create == 0 || !strings.HasPrefix(filepath.Base(ev.Name), "event") {
				continue
			}
			b.mu.Lock()
			b.pendingAdd = append(b.pendingAdd, ev.Name)
			b.mu.Unlock()
			b.wake()
		case err, ok := <-b.watcher.Errors:
			if !ok {
				return
			}
			b.log.Warn().Err(err).Msg("Device watcher error")
		}
	}
}

func (b *evdevBackend) wake() {
	var one = [8]byte{1}
	unix.Write(b.wakeFd, one[:])
}

func (b *evdevBackend) stop() {
	b.stopOnce.Do(func() {
		b.mu.Lock()
		b.stopping = true
		b.mu.Unlock()
		b.wake()
		<-b.done
		if b.watcher != nil {
			b.watcher.Close()
		}
		if b.wakeFd >= 0 {
			unix.Close(b.wakeFd)
		}
	})
}

// cleanup runs on the capture goroutine as it exits. The wake eventfd stays
// open: the loop may have exited on its own (epoll failure, all devices
// gone) and stop still writes to it before joining, so only stop closes it.
func (b *evdevBackend) cleanup() {
	b.closeDevices()
	if b.epfd >= 0 {
		unix.Close(b.epfd)
	}
	b.tracker.reset()
}

func (b *evdevBackend) closeDevices() {
	for fd := range b.devices {
		unix.Close(fd)
		delete(b.devices, fd)
	}
}

// findKeyboardDevices lists the /dev/input event nodes whose sysfs key
// capability bitmap looks like a real keyboard.
func findKeyboardDevices() ([]string, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, err
	}
	var keyboards []string
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), "event") {
			continue
		}
		if isKeyboardDevice(e.Name()) {
			keyboards = append(keyboards, filepath.Join(inputDir, e.Name()))
		}
	}
	return keyboards, nil
}

func isKeyboardDevice(eventName string) bool {
	capsPath := filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key")
	data, err := os.ReadFile(capsPath)
	if err != nil {
		return false
	}
	// Keyboards advertise a long key bitmap; mice and buttons a short one.
	return len(strings.TrimSpace(string(data))) > 10
}
