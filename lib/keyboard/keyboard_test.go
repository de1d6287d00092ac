package keyboard

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	codeA = 30
	codeS = 31
)

type collector struct {
	events []KeyEvent
}

func (c *collector) handler() Handler {
	return HandlerFunc(func(ev KeyEvent) { c.events = append(c.events, ev) })
}

func newTestKeyboard(events ...RawKey) (*Keyboard, *EventQueue, *collector) {
	q := &EventQueue{}
	for _, ev := range events {
		q.Push(ev)
	}
	c := &collector{}
	k := New(q, EvdevResolver{})
	k.Handler = c.handler()
	return k, q, c
}

func press(code uint16, time uint32) RawKey {
	return RawKey{Pressed: true, Code: code, Time: time}
}

func release(code uint16, time uint32) RawKey {
	return RawKey{Pressed: false, Code: code, Time: time}
}

func TestPressRelease(t *testing.T) {
	k, _, c := newTestKeyboard(press(codeA, 100), release(codeA, 200))
	k.Drain()
	assert.Equal(t, []KeyEvent{
		{Keycode: 'A', Pressed: true, Unicode: 'a'},
		{Keycode: 'A', Pressed: false, Unicode: 'a'},
	}, c.events)
}

func TestEchoCoalesced(t *testing.T) {
	k, q, c := newTestKeyboard(
		press(codeA, 100),
		release(codeA, 600), press(codeA, 600),
		release(codeA, 633), press(codeA, 634),
		release(codeA, 700),
	)
	k.Drain()
	assert.Equal(t, []KeyEvent{
		{Keycode: 'A', Pressed: true, Unicode: 'a'},
		{Keycode: 'A', Pressed: true, Unicode: 'a', Echo: true},
		{Keycode: 'A', Pressed: true, Unicode: 'a', Echo: true},
		{Keycode: 'A', Pressed: false, Unicode: 'a'},
	}, c.events)
	assert.Zero(t, q.Pending())
}

func TestEchoThresholdBoundary(t *testing.T) {
	tests := []struct {
		release, press uint32
		echo           bool
	}{
		{100, 105, true},
		{100, 106, false},
		{100, 95, true},
		{100, 94, false},
		{100, 100, true},
		{0xfffffffe, 3, true}, // server time wraps
	}
	for _, tt := range tests {
		k, q, c := newTestKeyboard(release(codeA, tt.release), press(codeA, tt.press))
		assert.True(t, k.HandleEvent())
		if tt.echo {
			assert.Equal(t, []KeyEvent{{Keycode: 'A', Pressed: true, Unicode: 'a', Echo: true}}, c.events, "%+v", tt)
			assert.Zero(t, q.Pending(), "press consumed")
		} else {
			assert.Equal(t, []KeyEvent{{Keycode: 'A', Pressed: false, Unicode: 'a'}}, c.events, "%+v", tt)
			assert.Equal(t, 1, q.Pending(), "press left queued")
		}
	}
}

func TestEchoCustomThreshold(t *testing.T) {
	k, _, c := newTestKeyboard(release(codeA, 100), press(codeA, 120))
	k.Threshold = 20
	k.Drain()
	assert.Equal(t, []KeyEvent{{Keycode: 'A', Pressed: true, Unicode: 'a', Echo: true}}, c.events)
}

func TestEchoSymbolMismatch(t *testing.T) {
	k, _, c := newTestKeyboard(release(codeA, 100), press(codeS, 100))
	k.Drain()
	assert.Equal(t, []KeyEvent{
		{Keycode: 'A', Pressed: false, Unicode: 'a'},
		{Keycode: 'S', Pressed: true, Unicode: 's'},
	}, c.events)
}

func TestEchoShiftLevelMismatch(t *testing.T) {
	shifted := press(codeA, 101)
	shifted.State = ShiftMask
	k, _, c := newTestKeyboard(release(codeA, 100), shifted)
	k.Drain()
	assert.Equal(t, []KeyEvent{
		{Keycode: 'A', Pressed: false, Unicode: 'a'},
		{Keycode: 'A', Pressed: true, Unicode: 'A'},
	}, c.events)
}

func TestEchoNothingPending(t *testing.T) {
	k, _, c := newTestKeyboard(release(codeA, 100))
	k.Drain()
	assert.Equal(t, []KeyEvent{{Keycode: 'A', Pressed: false, Unicode: 'a'}}, c.events)
}

func TestEchoNextIsRelease(t *testing.T) {
	k, _, c := newTestKeyboard(release(codeA, 100), release(codeS, 101))
	k.Drain()
	assert.Equal(t, []KeyEvent{
		{Keycode: 'A', Pressed: false, Unicode: 'a'},
		{Keycode: 'S', Pressed: false, Unicode: 's'},
	}, c.events)
}

func TestEchoNotPersistent(t *testing.T) {
	// each release looks ahead on its own
	k, _, c := newTestKeyboard(
		release(codeA, 100), press(codeA, 102),
		release(codeA, 200), press(codeA, 300),
	)
	k.Drain()
	assert.Equal(t, []KeyEvent{
		{Keycode: 'A', Pressed: true, Unicode: 'a', Echo: true},
		{Keycode: 'A', Pressed: false, Unicode: 'a'},
		{Keycode: 'A', Pressed: true, Unicode: 'a'},
	}, c.events)
}

func TestRepeatFlag(t *testing.T) {
	k, _, c := newTestKeyboard(RawKey{Pressed: true, Repeat: true, Code: codeA, Time: 100})
	k.Drain()
	assert.Equal(t, []KeyEvent{{Keycode: 'A', Pressed: true, Unicode: 'a', Echo: true}}, c.events)
}

func TestModifierState(t *testing.T) {
	ev := press(codeA, 100)
	ev.State = ShiftMask | ControlMask | Mod4Mask
	k, _, c := newTestKeyboard(ev, release(codeA, 200))
	assert.Equal(t, ModifierState{}, k.ModifierState())

	k.HandleEvent()
	assert.Equal(t, ModifierState{Shift: true, Control: true, Meta: true}, k.ModifierState())
	assert.Equal(t, KeyEvent{Keycode: 'A', Pressed: true, Unicode: 'A'}, c.events[0])

	k.HandleEvent()
	assert.Equal(t, ModifierState{}, k.ModifierState())
}

func TestUnknownKeyDropped(t *testing.T) {
	k, q, c := newTestKeyboard(press(0x2ff, 100), press(codeA, 101))
	assert.True(t, k.HandleEvent())
	assert.Empty(t, c.events)
	assert.Equal(t, 1, q.Pending())
	assert.True(t, k.HandleEvent())
	assert.False(t, k.HandleEvent(), "queue empty")
	assert.Len(t, c.events, 1)
}

func TestNoHandler(t *testing.T) {
	k, q, _ := newTestKeyboard(press(codeA, 1), release(codeA, 2))
	k.Handler = nil
	k.Drain()
	assert.Zero(t, q.Pending())
}

func ExampleKeyboard_HandleEvent() {
	q := &EventQueue{}
	q.Push(RawKey{Pressed: true, Code: 35, Time: 1000})
	q.Push(RawKey{Pressed: false, Code: 35, Time: 1500})
	q.Push(RawKey{Pressed: true, Code: 35, Time: 1502})
	q.Push(RawKey{Pressed: false, Code: 35, Time: 1600})
	k := New(q, EvdevResolver{})
	k.Handler = HandlerFunc(func(ev KeyEvent) {
		fmt.Printf("%c pressed=%v echo=%v\n", ev.Keycode, ev.Pressed, ev.Echo)
	})
	k.Drain()
	// Output:
	// H pressed=true echo=false
	// H pressed=true echo=true
	// H pressed=false echo=false
}
