// Package keyboard turns queued key events into application key events,
// merging the release/press pairs some sources report for auto-repeat into a
// single repeated press.
package keyboard

// Modifier bits carried in RawKey.State, laid out as in X11 key events.
const (
	ShiftMask   = 1 << 0
	LockMask    = 1 << 1
	ControlMask = 1 << 2
	Mod1Mask    = 1 << 3 // alt
	Mod4Mask    = 1 << 6 // meta
)

// DefaultThreshold is the largest gap, in milliseconds, between a release
// and the following press for them to count as one auto-repeat.
const DefaultThreshold = 5

// RawKey is a key event as queued by the windowing layer.
type RawKey struct {
	Pressed bool
	Repeat  bool   // the source itself flagged this press as auto-repeat
	Code    uint16 // hardware key code
	Time    uint32 // milliseconds, wrapping
	State   uint   // modifier bits before this event
}

// Queue is the pending event queue of the windowing layer.
type Queue interface {
	Pending() int
	Peek() (RawKey, bool)
	Next() (RawKey, bool)
}

// Resolver maps a raw event to its symbol and to the keycode and unicode
// value reported to the application.
type Resolver interface {
	Lookup(ev RawKey) (sym uint32, keycode int, unicode uint32)
}

type ModifierState struct {
	Shift   bool `json:"shift"`
	Alt     bool `json:"alt"`
	Control bool `json:"control"`
	Meta    bool `json:"meta"`
}

func modifiers(state uint) ModifierState {
	return ModifierState{
		Shift:   state&ShiftMask != 0,
		Alt:     state&Mod1Mask != 0,
		Control: state&ControlMask != 0,
		Meta:    state&Mod4Mask != 0,
	}
}

type KeyEvent struct {
	Keycode int    `json:"keycode"`
	Pressed bool   `json:"pressed"`
	Unicode uint32 `json:"unicode"`
	Echo    bool   `json:"echo"`
}

type Handler interface {
	HandleKeyboardKey(keycode int, pressed bool, unicode uint32, echo bool)
}

// HandlerFunc adapts a function taking a KeyEvent to a Handler.
type HandlerFunc func(ev KeyEvent)

func (f HandlerFunc) HandleKeyboardKey(keycode int, pressed bool, unicode uint32, echo bool) {
	f(KeyEvent{Keycode: keycode, Pressed: pressed, Unicode: unicode, Echo: echo})
}

// Keyboard consumes events from a Queue one at a time. It is not safe for
// concurrent use.
type Keyboard struct {
	Handler   Handler
	Threshold int32 // see DefaultThreshold

	queue    Queue
	resolver Resolver
	state    ModifierState
}

func New(queue Queue, resolver Resolver) *Keyboard {
	return &Keyboard{
		Threshold: DefaultThreshold,
		queue:     queue,
		resolver:  resolver,
	}
}

// ModifierState returns the modifiers of the last handled event.
func (k *Keyboard) ModifierState() ModifierState {
	return k.state
}

// HandleEvent consumes the next queued event, reporting false if there was
// none.
func (k *Keyboard) HandleEvent() bool {
	ev, ok := k.queue.Next()
	if !ok {
		return false
	}
	k.state = modifiers(ev.State)

	sym, keycode, unicode := k.resolver.Lookup(ev)
	if keycode == 0 && sym == 0 {
		return true
	}
	if keycode >= 'a' && keycode <= 'z' {
		keycode -= 'a' - 'A'
	}

	switch {
	case ev.Pressed && ev.Repeat:
		k.emit(keycode, true, unicode, true)
	case !ev.Pressed && k.echo(ev, sym):
		// the press is the second half of an auto-repeat
		k.queue.Next()
		k.emit(keycode, true, unicode, true)
	default:
		k.emit(keycode, ev.Pressed, unicode, false)
	}
	return true
}

// Drain handles every queued event.
func (k *Keyboard) Drain() {
	for k.queue.Pending() > 0 && k.HandleEvent() {
	}
}

// echo looks one event ahead of a release: a press of the same symbol within
// the threshold is the repeat of a held key, not a new keystroke.
func (k *Keyboard) echo(release RawKey, sym uint32) bool {
	if k.queue.Pending() < 1 {
		return false
	}
	next, ok := k.queue.Peek()
	if !ok || !next.Pressed {
		return false
	}
	dt := int32(next.Time - release.Time)
	if dt < -k.Threshold || dt > k.Threshold {
		return false
	}
	nextSym, _, _ := k.resolver.Lookup(next)
	return nextSym == sym
}

func (k *Keyboard) emit(keycode int, pressed bool, unicode uint32, echo bool) {
	if k.Handler != nil {
		k.Handler.HandleKeyboardKey(keycode, pressed, unicode, echo)
	}
}
