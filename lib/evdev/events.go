package evdev

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

type InputEvent struct {
	Time  unix.Timeval // time in seconds since epoch at which event occurred
	Type  uint16       // event type - one of EV_*
	Code  uint16       // event code related to the event type
	Value int32        // event value related to the event type
}

var eventsize = int(unsafe.Sizeof(InputEvent{}))

// event types, from linux/input-event-codes.h
const (
	EV_SYN = 0x00
	EV_KEY = 0x01
	EV_REL = 0x02
	EV_ABS = 0x03
	EV_MSC = 0x04
)

// values of an EV_KEY event
const (
	KeyReleased = 0
	KeyPressed  = 1
	KeyRepeated = 2
)

// Millis returns the event timestamp in milliseconds, truncated to 32 bits
// in the manner of X server time.
func (ev *InputEvent) Millis() uint32 {
	return uint32(int64(ev.Time.Sec)*1000 + int64(ev.Time.Usec)/1000)
}
