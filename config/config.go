package config

import (
	"io"
	"io/ioutil"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Duration struct {
	Duration time.Duration
}

func (self *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value string
	if err := unmarshal(&value); err != nil {
		return err
	}
	val, err := time.ParseDuration(value)
	if err != nil {
		return err
	}
	self.Duration = val
	return nil
}

type EndpointsConf struct {
	Mqtt struct {
		Broker string
	}
	Api string
}

// Device request: Device is an absolute path or a device name, Match a
// substring of the by-id entry used when Device is empty. Threshold 0
// coalesces only release/press pairs with equal timestamps. Lines also
// publishes each line typed, for keyboard-like RFID and barcode readers.
type KeyboardConf struct {
	Name      string
	Device    string
	Match     string
	Grab      bool
	Debounce  Duration
	Threshold int32
	Retry     Duration
	Lines     bool
}

type InputConf struct {
	Devices_File string
	By_Id_Dir    string
	Event_Prefix string
	Keyboard     KeyboardConf
}

type LoggingConf struct {
	Level string
	File  string
}

// Configuration structure
type Config struct {
	Endpoints EndpointsConf
	Input     InputConf
	Logging   LoggingConf
}

// Open configuration from disk.
func Open() (*Config, error) {
	file, err := os.Open(ConfigPath("evinput.yml"))
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return OpenReader(file)
}

// Open configuration from a reader.
func OpenReader(r io.Reader) (*Config, error) {
	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return OpenRaw(data)
}

// Open configuration from []byte.
func OpenRaw(data []byte) (*Config, error) {
	self := Default()
	err := yaml.Unmarshal(data, self)
	if err != nil {
		return nil, err
	}
	return self, nil
}

// Default configuration, used when no file exists.
func Default() *Config {
	return &Config{
		Input: InputConf{
			Devices_File: "/proc/bus/input/devices",
			By_Id_Dir:    "/dev/input/by-id",
			Event_Prefix: "/dev/input/event",
			Keyboard: KeyboardConf{
				Name:      "keyboard",
				Match:     "-event-kbd",
				Debounce:  Duration{100 * time.Millisecond},
				Threshold: 5,
				Retry:     Duration{5 * time.Second},
			},
		},
		Endpoints: EndpointsConf{Api: ":8724"},
	}
}

func Must(conf *Config, err error) *Config {
	if err != nil {
		panic(err)
	}
	return conf
}

// helpers

// Resolve a configuration file under .config/evinput
func ConfigPath(p string) string {
	config := os.Getenv("XDG_CONFIG_HOME")
	if config == "" {
		config = path.Join(os.Getenv("HOME"), ".config")
	}
	return path.Join(config, "evinput", p)
}
