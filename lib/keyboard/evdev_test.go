package keyboard

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/barnybug/evinput/lib/evdev"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func keyEvent(code uint16, value int32, ms int64) evdev.InputEvent {
	return evdev.InputEvent{
		Time:  unix.NsecToTimeval(ms * 1e6),
		Type:  evdev.EV_KEY,
		Code:  code,
		Value: value,
	}
}

func TestEvdevHandle(t *testing.T) {
	c := &collector{}
	e := NewEvdev(c.handler())
	e.Handle(keyEvent(codeLeftShift, evdev.KeyPressed, 1000))
	e.Handle(evdev.InputEvent{Type: evdev.EV_SYN})
	e.Handle(keyEvent(codeA, evdev.KeyPressed, 1010))
	e.Handle(keyEvent(codeA, evdev.KeyRepeated, 1500))
	e.Handle(keyEvent(codeA, evdev.KeyReleased, 1530))
	e.Handle(keyEvent(codeLeftShift, evdev.KeyReleased, 1600))
	e.Handle(keyEvent(codeS, evdev.KeyPressed, 1700))
	e.Drain()

	assert.Equal(t, []KeyEvent{
		{Keycode: KeyShift, Pressed: true},
		{Keycode: 'A', Pressed: true, Unicode: 'A'},
		{Keycode: 'A', Pressed: true, Unicode: 'A', Echo: true},
		{Keycode: 'A', Pressed: false, Unicode: 'A'},
		{Keycode: KeyShift, Pressed: false},
		{Keycode: 'S', Pressed: true, Unicode: 's'},
	}, c.events)
	assert.Equal(t, ModifierState{}, e.ModifierState())
}

func TestEvdevModifierState(t *testing.T) {
	e := NewEvdev(nil)
	e.Handle(keyEvent(codeRightCtrl, evdev.KeyPressed, 0))
	e.Handle(keyEvent(codeLeftAlt, evdev.KeyPressed, 1))
	e.Handle(keyEvent(codeA, evdev.KeyPressed, 2))
	e.Drain()
	assert.Equal(t, ModifierState{Control: true, Alt: true}, e.ModifierState())
}

func TestEvdevReleasePressPair(t *testing.T) {
	c := &collector{}
	e := NewEvdev(c.handler())
	e.Handle(keyEvent(codeA, evdev.KeyReleased, 2000))
	e.Handle(keyEvent(codeA, evdev.KeyPressed, 2003))
	e.Drain()
	assert.Equal(t, []KeyEvent{{Keycode: 'A', Pressed: true, Unicode: 'a', Echo: true}}, c.events)
}

func TestEvdevPoll(t *testing.T) {
	name := filepath.Join(t.TempDir(), "event0")
	require.NoError(t, unix.Mkfifo(name, 0600))

	c := &collector{}
	e := NewEvdev(c.handler())
	require.NoError(t, e.Source.Open(evdev.Descriptor{Path: name}))
	defer e.Close()
	w, err := os.OpenFile(name, os.O_WRONLY, 0)
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, binary.Write(buf, binary.LittleEndian, []evdev.InputEvent{
		keyEvent(codeA, evdev.KeyPressed, 10),
		{Type: evdev.EV_SYN},
		keyEvent(codeA, evdev.KeyReleased, 50),
		{Type: evdev.EV_SYN},
	}))
	_, err = w.Write(buf.Bytes())
	require.NoError(t, err)

	assert.NoError(t, e.Poll())
	assert.Equal(t, []KeyEvent{
		{Keycode: 'A', Pressed: true, Unicode: 'a'},
		{Keycode: 'A', Pressed: false, Unicode: 'a'},
	}, c.events)

	// writer gone: the next poll reports the disconnect
	w.Close()
	err = e.Poll()
	assert.Equal(t, evdev.ErrDisconnect, errors.Cause(err))
}
