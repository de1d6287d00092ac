package config

import "strings"

var ExampleYaml = `
endpoints:
  mqtt:
    broker: tcp://127.0.0.1:1883
  api: :8724
input:
  keyboard:
    name: keyboard.desk
    device: AT Translated Set 2 keyboard
    grab: true
    debounce: 500ms
    threshold: 8
    retry: 10s
logging:
  level: debug
  file: /var/log/evinput.log`

var ExampleConfig = Must(OpenReader(strings.NewReader(ExampleYaml)))
