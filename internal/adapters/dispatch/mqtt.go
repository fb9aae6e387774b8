package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"rozadaar/internal/domain"
	"rozadaar/internal/logger"
	"rozadaar/internal/ports"
)

// TopicPrefix is prepended to the scope id of every published alert
const TopicPrefix = "rozadaar/alerts/"

const connectTimeout = 5 * time.Second

// publisher is the part of mqtt.Client the dispatcher uses
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTT publishes alerts as JSON to rozadaar/alerts/<scope>. Publishing is
// fire and forget: the tick loop never waits on the broker.
type MQTT struct {
	client publisher
	log    logger.Logger
}

// Ensure MQTT implements ports.AlertDispatcher
var _ ports.AlertDispatcher = (*MQTT)(nil)

// DialMQTT connects to broker and returns a dispatcher and a disconnect func
func DialMQTT(broker, clientID string, log logger.Logger) (*MQTT, func(), error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)
	c := mqtt.NewClient(opts)

	token := c.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, nil, fmt.Errorf("connecting to %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %w", broker, err)
	}

	disconnect := func() { c.Disconnect(250) }
	return newMQTT(c, log), disconnect, nil
}

func newMQTT(client publisher, log logger.Logger) *MQTT {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &MQTT{client: client, log: log}
}

// Topic returns the topic alerts for scope are published to
func Topic(scope string) string {
	return TopicPrefix + scope
}

// Dispatch publishes the event with QoS 0
func (m *MQTT) Dispatch(_ context.Context, event domain.AlertEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding alert: %w", err)
	}

	token := m.client.Publish(Topic(event.Scope), 0, false, payload)
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			m.log.Warning("publishing alert for %s: %v", event.Key(), err)
		}
	}()
	return nil
}
