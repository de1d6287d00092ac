package evdev

import (
	"bufio"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	nameMarker     = `N: Name="`
	physMarker     = `P: Phys=`
	handlersMarker = `H: Handlers=`
	eventToken     = "event"
)

// Descriptor identifies a resolved device node.
type Descriptor struct {
	Path string
}

// Locator resolves a device request to a Descriptor.
type Locator struct {
	DevicesFile string // textual device table
	ByIDDir     string // stable identifier directory
	EventPrefix string // event nodes are EventPrefix + N
}

var DefaultLocator = &Locator{
	DevicesFile: "/proc/bus/input/devices",
	ByIDDir:     "/dev/input/by-id",
	EventPrefix: "/dev/input/event",
}

// Locate resolves a device using DefaultLocator.
func Locate(override, substr string) (Descriptor, error) {
	return DefaultLocator.Locate(override, substr)
}

// Locate resolves a device. A non-empty override is either an absolute path,
// used verbatim, or a device name looked up in the device table. Only when no
// override is given is the by-id directory searched for an entry containing
// substr.
func (l *Locator) Locate(override, substr string) (Descriptor, error) {
	switch {
	case strings.HasPrefix(override, "/"):
		return Descriptor{Path: override}, nil
	case override != "":
		return l.FindByName(override)
	default:
		return l.FindByIDSubstr(substr)
	}
}

// FindByName scans the device table for a device called name and returns
// the event node of its handlers.
func (l *Locator) FindByName(name string) (Descriptor, error) {
	f, err := os.Open(l.DevicesFile)
	if err != nil {
		return Descriptor{}, withCause(ErrNotFound, err)
	}
	defer f.Close()

	if n, ok := scanByName(f, name); ok {
		return Descriptor{Path: l.EventPrefix + strconv.Itoa(n)}, nil
	}
	return Descriptor{}, errors.Wrapf(ErrNotFound, "name %q", name)
}

// scanByName runs the two state scan of a device table. In state 0 it looks
// for a Name line matching exactly; in state 1 for the Handlers line that
// follows it. A Handlers line always returns to state 0, as does the next
// Name line, which is then considered afresh.
func scanByName(r io.Reader, name string) (int, bool) {
	br := bufio.NewReader(r)
	matched := false
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			if strings.HasPrefix(line, nameMarker) {
				matched = matchName(line[len(nameMarker):], name)
			} else if matched && strings.HasPrefix(line, handlersMarker) {
				matched = false
				if n, ok := eventNumber(line[len(handlersMarker):]); ok {
					return n, true
				}
			}
		}
		if err != nil {
			return 0, false
		}
	}
}

// matchName compares the quoted remainder of a Name line: the name must have
// exactly the requested length followed by the closing quote.
func matchName(rest, name string) bool {
	return len(rest) == len(name)+1 && rest[:len(name)] == name
}

// eventNumber extracts N from the first "eventN" token of a handler list.
func eventNumber(handlers string) (int, bool) {
	i := strings.Index(handlers, eventToken)
	if i < 0 {
		return 0, false
	}
	digits := handlers[i+len(eventToken):]
	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(digits[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// FindByIDSubstr returns the first entry of the by-id directory whose name
// contains substr, in the order the directory is enumerated.
func (l *Locator) FindByIDSubstr(substr string) (Descriptor, error) {
	dir, err := os.Open(l.ByIDDir)
	if err != nil {
		return Descriptor{}, withCause(ErrNotFound, err)
	}
	defer dir.Close()

	for {
		names, err := dir.Readdirnames(64)
		for _, id := range names {
			if strings.Contains(id, substr) {
				return Descriptor{Path: path.Join(l.ByIDDir, id)}, nil
			}
		}
		if err != nil {
			break
		}
	}
	return Descriptor{}, errors.Wrapf(ErrNotFound, "no entry in %s matching %q", l.ByIDDir, substr)
}

// DeviceInfo is one entry of the device table.
type DeviceInfo struct {
	Name     string   `json:"name"`
	Phys     string   `json:"phys,omitempty"`
	Handlers []string `json:"handlers"`
	Path     string   `json:"path,omitempty"`
}

// ListDevices parses every entry of the device table.
func (l *Locator) ListDevices() ([]DeviceInfo, error) {
	f, err := os.Open(l.DevicesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return l.parseDevices(f)
}

func (l *Locator) parseDevices(r io.Reader) ([]DeviceInfo, error) {
	var ret []DeviceInfo
	var current *DeviceInfo
	flush := func() {
		if current != nil {
			ret = append(ret, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, nameMarker):
			flush()
			current = &DeviceInfo{Name: strings.TrimSuffix(line[len(nameMarker):], `"`)}
		case current == nil:
			// lines before the first Name belong to no device
		case strings.HasPrefix(line, physMarker):
			current.Phys = line[len(physMarker):]
		case strings.HasPrefix(line, handlersMarker):
			current.Handlers = strings.Fields(line[len(handlersMarker):])
			if n, ok := eventNumber(line[len(handlersMarker):]); ok {
				current.Path = l.EventPrefix + strconv.Itoa(n)
			}
		}
	}
	flush()
	return ret, scanner.Err()
}
