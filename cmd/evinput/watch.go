package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/barnybug/evinput/config"
	"github.com/barnybug/evinput/lib/evdev"
	"github.com/barnybug/evinput/lib/keyboard"
	"github.com/barnybug/evinput/lib/logging"
	"github.com/barnybug/evinput/util"
)

// poll rate of the watch loop, as a game main loop would
const frame = time.Second / 60

func applyArgs(conf *config.KeyboardConf, args []string) error {
	for key, value := range util.KeywordArgs(args) {
		switch key {
		case "", "device":
			conf.Device = value
		case "match":
			conf.Match = value
		case "grab":
			grab, err := strconv.ParseBool(value)
			if err != nil {
				return err
			}
			conf.Grab = grab
		case "threshold":
			n, err := strconv.ParseInt(value, 10, 32)
			if err != nil {
				return err
			}
			conf.Threshold = int32(n)
		default:
			return fmt.Errorf("unknown option %q", key)
		}
	}
	return nil
}

func keyName(keycode int, unicode uint32) string {
	switch {
	case unicode > ' ':
		return string(rune(unicode))
	case keycode == ' ':
		return "space"
	case keycode >= keyboard.KeyF1 && keycode < keyboard.KeyF1+12:
		return fmt.Sprintf("F%d", keycode-keyboard.KeyF1+1)
	}
	return fmt.Sprintf("0x%x", keycode)
}

// newWatcher returns a keyboard printing each key event to out.
func newWatcher(conf config.KeyboardConf, out io.Writer) *keyboard.Evdev {
	var kb *keyboard.Evdev
	kb = keyboard.NewEvdev(keyboard.HandlerFunc(func(ev keyboard.KeyEvent) {
		state := "up"
		if ev.Pressed {
			state = "down"
		}
		if ev.Echo {
			state = "repeat"
		}
		fmt.Fprintf(out, "%-8s %-6s %+v\n", keyName(ev.Keycode, ev.Unicode), state, kb.ModifierState())
	}))
	kb.Threshold = conf.Threshold
	return kb
}

func watch(conf *config.Config, args []string) error {
	kbConf := conf.Input.Keyboard
	if err := applyArgs(&kbConf, args); err != nil {
		return err
	}
	locator := &evdev.Locator{
		DevicesFile: conf.Input.Devices_File,
		ByIDDir:     conf.Input.By_Id_Dir,
		EventPrefix: conf.Input.Event_Prefix,
	}

	d, err := locator.Locate(kbConf.Device, kbConf.Match)
	if err != nil {
		return err
	}

	kb := newWatcher(kbConf, os.Stdout)
	if err := kb.Source.Open(d); err != nil {
		return err
	}
	defer kb.Close()
	if kbConf.Grab {
		if err := kb.Source.Grab(true, kbConf.Debounce.Duration); err != nil {
			logging.Warnf("Continuing without grab: %s", err)
		}
	}
	logging.Infof("Watching %s (grabbed: %v)", d.Path, kb.Source.Grabbed())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := kb.Poll(); err != nil {
				return err
			}
		}
	}
}
