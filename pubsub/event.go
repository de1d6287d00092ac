package pubsub

import (
	"encoding/json"
	"time"
)

// Fields of an event payload.
type Fields map[string]interface{}

// Event published under a topic. Retained events are kept by the broker for
// subscribers that connect later, which is how device status is published.
type Event struct {
	Topic     string
	Timestamp time.Time
	Fields    Fields
	Retained  bool
}

const TimeFormat = "2006-01-02 15:04:05.000000"

func NewEvent(topic string, fields Fields) *Event {
	if fields == nil {
		fields = Fields{}
	}
	return &Event{Topic: topic, Timestamp: time.Now().UTC(), Fields: fields}
}

// Map is the payload: the fields plus topic and timestamp.
func (event *Event) Map() map[string]interface{} {
	data := make(map[string]interface{}, len(event.Fields)+2)
	for k, v := range event.Fields {
		data[k] = v
	}
	data["topic"] = event.Topic
	data["timestamp"] = event.Timestamp.Format(TimeFormat)
	return data
}

func (event *Event) Bytes() []byte {
	v, _ := json.Marshal(event.Map())
	return v
}

func (event *Event) String() string {
	return string(event.Bytes())
}

func (event *Event) StringField(name string) string {
	ret, _ := event.Fields[name].(string)
	return ret
}

func (event *Event) SetField(name string, value interface{}) {
	event.Fields[name] = value
}

func (event *Event) SetFields(fields Fields) {
	for key, value := range fields {
		event.Fields[key] = value
	}
}

func (event *Event) SetRetained(retained bool) {
	event.Retained = retained
}
