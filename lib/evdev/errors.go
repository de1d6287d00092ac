package evdev

import "github.com/pkg/errors"

// Failures are returned wrapped; compare with errors.Cause or errors.Is.
var (
	// ErrNotFound is returned when no strategy resolved a device.
	ErrNotFound = errors.New("input device not found")
	// ErrOpen is returned when a resolved path could not be opened.
	ErrOpen = errors.New("input device could not be opened")
	// ErrGrab is returned when exclusive access was refused. The source
	// remains usable without the grab.
	ErrGrab = errors.New("input device grab refused")
	// ErrDisconnect is returned by Poll when the device stopped delivering
	// data. The session is over and the source should be closed.
	ErrDisconnect = errors.New("input device disconnected")
	ErrClosed     = errors.New("input device closed")
)

// wrapCause attaches err as context to one of the sentinel errors above,
// keeping the sentinel as the Cause.
type wrapCause struct {
	sentinel error
	err      error
}

func (w *wrapCause) Error() string { return w.sentinel.Error() + ": " + w.err.Error() }
func (w *wrapCause) Cause() error  { return w.sentinel }
func (w *wrapCause) Unwrap() error { return w.err }

// Is matches the sentinel, the wrapped error is reached through Unwrap.
func (w *wrapCause) Is(target error) bool { return target == w.sentinel }

func withCause(sentinel, err error) error {
	return errors.WithStack(&wrapCause{sentinel: sentinel, err: err})
}
