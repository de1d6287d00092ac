package services

import (
	"context"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/barnybug/evinput/config"
	"github.com/barnybug/evinput/lib/logging"
	"github.com/barnybug/evinput/pubsub"
	"github.com/barnybug/evinput/pubsub/mqtt"
	"github.com/barnybug/evinput/util"
	"github.com/pkg/errors"
)

// Service interface
type Service interface {
	ID() string
	Run(ctx context.Context) error
}

// ServiceInit is implemented by services that check their configuration
// before any service starts running.
type ServiceInit interface {
	Service
	Init() error
}

var serviceMap map[string]Service = map[string]Service{}
var enabled []Service
var Config *config.Config

var Publisher pubsub.Publisher
var broker *mqtt.Broker

// SetupConfig loads the configuration file, falling back to the defaults
// when there is none.
func SetupConfig() {
	conf, err := config.Open()
	if os.IsNotExist(err) {
		logging.Infof("No config file at %s, using defaults", config.ConfigPath("evinput.yml"))
		conf = config.Default()
	} else if err != nil {
		logging.Fatalf("Error reading config: %s", err)
	}
	Config = conf
}

func SetupLogging() {
	file := util.ExpandUser(Config.Logging.File)
	if err := logging.Setup(Config.Logging.Level, file); err != nil {
		logging.Fatalf("Error setting up logging: %s", err)
	}
}

func SetupBroker(name string) {
	url := os.Getenv("EVINPUT_MQTT")
	if url == "" {
		url = Config.Endpoints.Mqtt.Broker
	}
	if url == "" {
		logging.Fatalf("Set EVINPUT_MQTT or endpoints.mqtt.broker to the mqtt server. eg: tcp://127.0.0.1:1883")
	}

	var err error
	broker, err = mqtt.NewBroker(url, name)
	if err != nil {
		logging.Fatalf("Failed to initialise mqtt: %s", err)
	}
	Publisher = broker.Publisher()
}

func Setup(name string) {
	SetupConfig()
	SetupLogging()
	SetupBroker(name)
}

// initialize calls Init on the services that have one, stopping at the
// first failure.
func initialize(ss []Service) error {
	for _, service := range ss {
		logging.Infof("Starting %s", service.ID())
		if service, ok := service.(ServiceInit); ok {
			if err := service.Init(); err != nil {
				return errors.Wrapf(err, "init service %s", service.ID())
			}
			logging.Infof("Initialized %s", service.ID())
		}
	}
	return nil
}

// Launch runs the named services until one fails or the process is
// interrupted.
func Launch(ss []string) {
	enabled = []Service{}
	for _, name := range ss {
		if service, ok := serviceMap[name]; ok {
			enabled = append(enabled, service)
		} else {
			logging.Fatalf("Service %s does not exist", name)
		}
	}

	if err := initialize(enabled); err != nil {
		logging.Fatalf("%s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, len(enabled))
	for _, service := range enabled {
		go func(service Service) {
			err := service.Run(ctx)
			if err != nil {
				logging.Errorf("Error running service %s: %s", service.ID(), err.Error())
			}
			errs <- err
		}(service)
	}
	for range enabled {
		if err := <-errs; err != nil {
			stop()
		}
	}
	Shutdown()
}

func Register(service Service) {
	if _, exists := serviceMap[service.ID()]; exists {
		logging.Fatalf("Duplicate service registered: %s", service.ID())
	}
	serviceMap[service.ID()] = service
}

func Registered() []string {
	var ret []string
	for name := range serviceMap {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}

func Shutdown() {
	if broker != nil {
		broker.Close()
	}
	logging.Cleanup()
}
