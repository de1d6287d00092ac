// Service to publish key events from a local keyboard device.
//
// The device is found from the input.keyboard config section: an explicit
// path, a device name from /proc/bus/input/devices, or the first
// /dev/input/by-id entry containing the match string. When the device goes
// away the service waits and looks for it again.
//
// Warning: with grab set this 'grabs' the device exclusively, so no other
// consoles will receive input from it anymore. Be sure you are grabbing the
// right device, e.g. an RFID reader and not the local keyboard.
package keys

import (
	"context"
	"strings"
	"time"

	"github.com/barnybug/evinput/config"
	"github.com/barnybug/evinput/lib/evdev"
	"github.com/barnybug/evinput/lib/keyboard"
	"github.com/barnybug/evinput/lib/logging"
	"github.com/barnybug/evinput/pubsub"
	"github.com/barnybug/evinput/services"
	"github.com/pkg/errors"
)

// longest sleep between polls when the device is idle
const idleWait = 250 * time.Millisecond

type reader struct {
	conf    config.KeyboardConf
	locator *evdev.Locator
	kb      *keyboard.Evdev
	pub     pubsub.Publisher
	status  *status
	line    strings.Builder
}

func newReader(conf *config.Config, pub pubsub.Publisher, st *status) *reader {
	r := &reader{
		conf: conf.Input.Keyboard,
		locator: &evdev.Locator{
			DevicesFile: conf.Input.Devices_File,
			ByIDDir:     conf.Input.By_Id_Dir,
			EventPrefix: conf.Input.Event_Prefix,
		},
		pub:    pub,
		status: st,
	}
	r.kb = keyboard.NewEvdev(r)
	r.kb.Threshold = r.conf.Threshold
	st.Device = r.conf.Name
	return r
}

func (r *reader) HandleKeyboardKey(keycode int, pressed bool, unicode uint32, echo bool) {
	mods := r.kb.ModifierState()
	ev := pubsub.NewEvent("key", pubsub.Fields{
		"device":  r.conf.Name,
		"keycode": keycode,
		"pressed": pressed,
		"unicode": unicode,
		"echo":    echo,
		"shift":   mods.Shift,
		"alt":     mods.Alt,
		"control": mods.Control,
		"meta":    mods.Meta,
	})
	if unicode != 0 {
		ev.SetField("char", string(rune(unicode)))
	}
	r.pub.Emit(ev)
	r.status.key(mods)

	if r.conf.Lines && pressed && !echo {
		r.addToLine(keycode, unicode)
	}
}

func (r *reader) addToLine(keycode int, unicode uint32) {
	switch {
	case keycode == keyboard.KeyEnter:
		logging.Infof("Publishing line: %s", r.line.String())
		fields := pubsub.Fields{
			"device": r.conf.Name,
			"source": r.conf.Name + "." + r.line.String(),
			"line":   r.line.String(),
		}
		r.pub.Emit(pubsub.NewEvent("keyline", fields))
		r.line.Reset()
	case unicode != 0:
		r.line.WriteRune(rune(unicode))
	}
}

// publishStatus publishes the connection state as a retained event, so a
// subscriber arriving later still sees whether the device is present.
func (r *reader) publishStatus() {
	ev := pubsub.NewEvent("status", nil)
	ev.SetFields(r.status.snapshot())
	ev.SetRetained(true)
	r.pub.Emit(ev)
}

// connect locates and opens the device, grabbing it if configured. A refused
// grab is logged and the device used shared.
func (r *reader) connect() error {
	d, err := r.locator.Locate(r.conf.Device, r.conf.Match)
	if err != nil {
		return err
	}
	if err := r.kb.Source.Open(d); err != nil {
		return err
	}
	if r.conf.Grab {
		if err := r.kb.Source.Grab(true, r.conf.Debounce.Duration); err != nil {
			logging.Warnf("%s: continuing without grab: %s", d.Path, err)
		}
	}
	r.status.connected(d.Path, r.kb.Source.Grabbed())
	r.publishStatus()
	logging.Infof("Connected %s (grabbed: %v)", d.Path, r.kb.Source.Grabbed())
	return nil
}

// read polls the device until it disconnects or ctx is done.
func (r *reader) read(ctx context.Context) error {
	defer func() {
		r.kb.Close()
		r.line.Reset()
		r.status.disconnected()
		r.publishStatus()
	}()
	for {
		if err := r.kb.Poll(); err != nil {
			return err
		}
		if _, err := r.kb.Source.Wait(ctx, idleWait); err != nil {
			return err
		}
	}
}

func (r *reader) run(ctx context.Context) error {
	for {
		err := r.connect()
		if err == nil {
			err = r.read(ctx)
		}
		if ctx.Err() != nil {
			return nil
		}
		logging.Warnf("%s: %s, retrying in %s", r.conf.Name, err, r.conf.Retry.Duration)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(r.conf.Retry.Duration):
		}
	}
}

func checkConf(conf config.KeyboardConf) error {
	switch {
	case conf.Device == "" && conf.Match == "":
		return errors.New("input.keyboard: one of device or match is required")
	case conf.Threshold < 0:
		return errors.Errorf("input.keyboard: threshold %d is negative", conf.Threshold)
	case conf.Retry.Duration <= 0:
		return errors.Errorf("input.keyboard: retry %s is not positive", conf.Retry.Duration)
	}
	return nil
}

// Service keys
type Service struct {
	reader *reader
	status *status
}

// ID of the service
func (self *Service) ID() string {
	return "keys"
}

// Init checks the keyboard config and prepares the reader
func (self *Service) Init() error {
	if err := checkConf(services.Config.Input.Keyboard); err != nil {
		return err
	}
	self.status = &status{}
	self.reader = newReader(services.Config, services.Publisher, self.status)
	return nil
}

// Run the service
func (self *Service) Run(ctx context.Context) error {
	if self.reader == nil {
		if err := self.Init(); err != nil {
			return err
		}
	}
	if addr := services.Config.Endpoints.Api; addr != "" {
		go httpEndpoint(addr, router(self.reader.locator, self.status))
	}
	return self.reader.run(ctx)
}
