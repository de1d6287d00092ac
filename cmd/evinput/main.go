package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/barnybug/evinput/lib/evdev"
	"github.com/barnybug/evinput/lib/logging"
	"github.com/barnybug/evinput/services"
	"github.com/barnybug/evinput/services/keys"
)

func registerServices() {
	// register available services
	services.Register(&keys.Service{})
}

func usage() {
	fmt.Println("Usage: evinput COMMAND [ARGS]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("   devices                 List input devices")
	fmt.Println("   run     [service]       Run services (default: all)")
	fmt.Println("   watch   [key=value]     Print key events from a keyboard")
	fmt.Println()
	fmt.Println("watch options: device=NAME|PATH match=SUBSTR grab=true threshold=MS")
	fmt.Println()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}
	defer logging.Cleanup()

	ps := flag.Args()[1:]
	// ignore anything after '--'
	for i := range ps {
		if ps[i] == "--" {
			ps = ps[0:i]
			break
		}
	}

	command := flag.Args()[0]
	switch command {
	default:
		usage()
	case "devices":
		devices(ps)
	case "run":
		service(ps)
	case "watch":
		services.SetupConfig()
		services.SetupLogging()
		if err := watch(services.Config, ps); err != nil {
			logging.Fatalf("watch: %s", err)
		}
	}
}

func devices(ps []string) {
	list, err := evdev.DefaultLocator.ListDevices()
	if err != nil {
		logging.Fatalf("Error listing devices: %s", err)
	}
	if len(ps) > 0 && ps[0] == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(list)
		return
	}
	for _, d := range list {
		path := d.Path
		if path == "" {
			path = "-"
		}
		fmt.Printf("%-20s %-40q %s\n", path, d.Name, strings.Join(d.Handlers, " "))
	}
}

// Start builtin services
func service(ss []string) {
	registerServices()
	if len(ss) == 0 {
		ss = services.Registered()
	}
	services.Setup("evinput")
	services.Launch(ss)
}
