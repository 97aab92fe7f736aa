package config

import (
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func NewMQTT(cfg *Config) (mqtt.Client, error) {
	client := mqtt.NewClient(mqttOptions(cfg))
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return client, nil
}

// Handlers publish back to the device, so they must not be serialized
// behind the inbound message queue.
func mqttOptions(cfg *Config) *mqtt.ClientOptions {
	return mqtt.NewClientOptions().
		AddBroker(cfg.MQTT.Broker).
		SetClientID(cfg.MQTT.ClientID).
		SetAutoReconnect(true).
		SetOrderMatters(false)
}
