package mqtt

import (
	"github.com/barnybug/evinput/lib/logging"
	"github.com/barnybug/evinput/pubsub"

	MQTT "github.com/eclipse/paho.mqtt.golang"
)

// Publisher for mqtt
type Publisher struct {
	broker string
	client MQTT.Client
}

// ID of Publisher
func (pub *Publisher) ID() string {
	return "mqtt: " + pub.broker
}

// Emit an event. Emit does not wait for the broker: the callers are input
// loops that must not stall.
func (pub *Publisher) Emit(ev *pubsub.Event) {
	topic := Prefix + ev.Topic
	token := pub.client.Publish(topic, 1, ev.Retained, ev.Bytes())
	go func() {
		if token.Wait() && token.Error() != nil {
			logging.Errorf("publishing %s: %s", topic, token.Error())
		}
	}()
}
