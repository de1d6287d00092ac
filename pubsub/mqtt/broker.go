package mqtt

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/barnybug/evinput/lib/logging"
	MQTT "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
)

// Prefix of every topic published.
const Prefix = "evinput/"

type Broker struct {
	broker string
	client MQTT.Client
}

func createClient(broker, name string) MQTT.Client {
	// generate a client id
	hostname, _ := os.Hostname()
	pid := os.Getpid()
	r := rand.Int()
	clientID := fmt.Sprintf("evinput/%s-%s-%d-%d", name, hostname, pid, r)
	opts := MQTT.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetConnectionLostHandler(func(client MQTT.Client, err error) {
		logging.Warnf("mqtt connection lost: %s", err)
	})
	return MQTT.NewClient(opts)
}

func NewBroker(broker, name string) (*Broker, error) {
	client := createClient(broker, name)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, errors.Wrapf(token.Error(), "connecting to %s", broker)
	}
	return &Broker{broker, client}, nil
}

func (self *Broker) ID() string {
	return "mqtt: " + self.broker
}

func (self *Broker) Publisher() *Publisher {
	return &Publisher{broker: self.broker, client: self.client}
}

func (self *Broker) Close() {
	self.client.Disconnect(250)
}
