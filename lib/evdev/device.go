package evdev

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// taken from linux/input.h - hardcoded to avoid needing cgo.
const EVIOCGRAB = 0x40044590

// InputDevice is an open device node. Reads never block.
type InputDevice struct {
	devname string
	fd      int
	buf     []byte
}

func Open(devname string) (*InputDevice, error) {
	fd, err := unix.Open(devname, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: devname, Err: err}
	}
	dev := InputDevice{devname: devname, fd: fd}
	return &dev, nil
}

func (self *InputDevice) Name() string {
	return self.devname
}

func (self *InputDevice) Fd() int {
	return self.fd
}

// Grab requests (or releases) exclusive access to the device.
func (self *InputDevice) Grab(enable bool) error {
	value := 0
	if enable {
		value = 1
	}
	return unix.IoctlSetInt(self.fd, EVIOCGRAB, value)
}

// Read fills events with as many whole events as a single read returns. A
// read of zero bytes is reported as io.EOF, a read with nothing pending as
// unix.EAGAIN.
func (self *InputDevice) Read(events []InputEvent) (int, error) {
	size := len(events) * eventsize
	if cap(self.buf) < size {
		self.buf = make([]byte, size)
	}
	buffer := self.buf[:size]

	n, err := unix.Read(self.fd, buffer)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, io.EOF
	}

	count := n / eventsize
	b := bytes.NewReader(buffer[:count*eventsize])
	err = binary.Read(b, binary.LittleEndian, events[:count])
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (self *InputDevice) Close() error {
	if self.fd == -1 {
		return nil
	}
	err := unix.Close(self.fd)
	self.fd = -1
	return err
}
