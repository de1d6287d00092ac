package evdev

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// BatchSize is the number of events requested by each read.
const BatchSize = 64

// Dispatcher receives each event read by a Source, in arrival order.
type Dispatcher interface {
	Handle(ev InputEvent)
}

// DispatcherFunc adapts a function to a Dispatcher.
type DispatcherFunc func(ev InputEvent)

func (f DispatcherFunc) Handle(ev InputEvent) {
	f(ev)
}

type handle interface {
	Fd() int
	Read(events []InputEvent) (int, error)
	Grab(enable bool) error
	Close() error
}

// Source owns one device handle and reads events from it on demand. It has
// no goroutines of its own: the caller drives it by calling Poll from its
// main loop. A Source is not safe for concurrent use.
type Source struct {
	Dispatcher Dispatcher

	dev     handle
	path    string
	grabbed bool
	events  [BatchSize]InputEvent

	open  func(path string) (handle, error)
	sleep func(time.Duration)
}

func NewSource(d Dispatcher) *Source {
	return &Source{
		Dispatcher: d,
		open:       openDevice,
		sleep:      time.Sleep,
	}
}

func openDevice(path string) (handle, error) {
	return Open(path)
}

// Open opens the described device for non-blocking reading. Any device
// previously held by the source is closed first.
func (s *Source) Open(d Descriptor) error {
	s.Close()
	dev, err := s.open(d.Path)
	if err != nil {
		return withCause(ErrOpen, err)
	}
	s.dev = dev
	s.path = d.Path
	return nil
}

func (s *Source) IsOpen() bool {
	return s.dev != nil
}

func (s *Source) Grabbed() bool {
	return s.grabbed
}

func (s *Source) Path() string {
	return s.path
}

// Fd returns the file descriptor of the open device, or -1.
func (s *Source) Fd() int {
	if s.dev == nil {
		return -1
	}
	return s.dev.Fd()
}

// Grab switches between shared and exclusive access. Asking for the current
// state does nothing. A real change first waits for debounce, giving other
// clients of the device the chance to see the release of keys held when we
// started, and only then issues the request. The grab state is unchanged if
// the request is refused.
func (s *Source) Grab(enable bool, debounce time.Duration) error {
	if s.dev == nil {
		return errors.WithStack(ErrClosed)
	}
	if s.grabbed == enable {
		return nil
	}
	s.sleep(debounce)
	if err := s.dev.Grab(enable); err != nil {
		return withCause(ErrGrab, err)
	}
	s.grabbed = enable
	return nil
}

// Close releases the device. It is safe to call on a closed source.
func (s *Source) Close() error {
	if s.dev == nil {
		return nil
	}
	err := s.dev.Close()
	s.dev = nil
	s.path = ""
	s.grabbed = false
	return err
}

// Poll dispatches every event that is available right now and returns
// without waiting for more. It fails with ErrDisconnect when the first read
// yields zero bytes or an error other than "nothing pending": the device is
// gone and the source should be closed.
func (s *Source) Poll() error {
	if s.dev == nil {
		return errors.WithStack(ErrClosed)
	}
	for first := true; ; first = false {
		n, err := s.dev.Read(s.events[:])
		if err != nil || n == 0 {
			if !first || err == unix.EAGAIN {
				return nil
			}
			if err == nil {
				err = errors.New("empty read")
			}
			return withCause(ErrDisconnect, err)
		}
		for i := 0; i < n; i++ {
			if s.Dispatcher != nil {
				s.Dispatcher.Handle(s.events[i])
			}
		}
	}
}

// Wait blocks until the device has data to read, timeout elapses or ctx is
// done. It reports whether the device is readable. Poll itself never waits;
// Wait lets a dedicated loop sleep between polls.
func (s *Source) Wait(ctx context.Context, timeout time.Duration) (bool, error) {
	if s.dev == nil {
		return false, errors.WithStack(ErrClosed)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if timeout < 0 {
		timeout = 0
	}
	fds := []unix.PollFd{{Fd: int32(s.dev.Fd()), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout/time.Millisecond))
	if err == unix.EINTR {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "poll")
	}
	return n > 0 && fds[0].Revents != 0, nil
}
