package keyboard

import (
	"github.com/barnybug/evinput/lib/evdev"
)

var modifierKeys = map[uint16]uint{
	codeLeftShift:  ShiftMask,
	codeRightShift: ShiftMask,
	codeLeftCtrl:   ControlMask,
	codeRightCtrl:  ControlMask,
	codeLeftAlt:    Mod1Mask,
	codeRightAlt:   Mod1Mask,
	codeLeftMeta:   Mod4Mask,
	codeRightMeta:  Mod4Mask,
}

// Evdev is a keyboard read from an evdev device. Key events read by each
// Poll are queued, then handled in order once the device has been drained.
type Evdev struct {
	*Keyboard
	Source *evdev.Source

	queue *EventQueue
	held  map[uint16]bool // modifier keys currently down
}

func NewEvdev(handler Handler) *Evdev {
	q := &EventQueue{}
	k := New(q, EvdevResolver{})
	k.Handler = handler
	e := &Evdev{Keyboard: k, queue: q, held: map[uint16]bool{}}
	e.Source = evdev.NewSource(e)
	return e
}

// Handle queues EV_KEY events, ignoring everything else.
func (e *Evdev) Handle(ev evdev.InputEvent) {
	if ev.Type != evdev.EV_KEY {
		return
	}
	e.queue.Push(RawKey{
		Pressed: ev.Value != evdev.KeyReleased,
		Repeat:  ev.Value == evdev.KeyRepeated,
		Code:    ev.Code,
		Time:    ev.Millis(),
		State:   e.heldState(),
	})
	if _, ok := modifierKeys[ev.Code]; ok {
		if ev.Value == evdev.KeyReleased {
			delete(e.held, ev.Code)
		} else {
			e.held[ev.Code] = true
		}
	}
}

func (e *Evdev) heldState() uint {
	var state uint
	for code := range e.held {
		state |= modifierKeys[code]
	}
	return state
}

// Poll reads everything available from the device, then handles the queued
// key events. Events read before a failure are still handled.
func (e *Evdev) Poll() error {
	err := e.Source.Poll()
	e.Drain()
	return err
}

// Close closes the device, discarding any modifier keys still held.
func (e *Evdev) Close() error {
	e.held = map[uint16]bool{}
	e.queue = &EventQueue{}
	e.Keyboard.queue = e.queue
	return e.Source.Close()
}
