// Package telemetry publishes fleet lifecycle events to an MQTT broker so
// external dashboards can follow the simulation in real time.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/taxifleet/core/events"
	"github.com/kilianp07/taxifleet/infra/logger"
	"github.com/kilianp07/taxifleet/internal/eventbus"
)

// Config defines the connection parameters for the MQTT publisher.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "taxifleet"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "taxifleet/events"
	}
}

// Validate checks mandatory fields when the publisher is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("telemetry broker is required when enabled")
	}
	if c.QoS > 2 {
		return fmt.Errorf("telemetry qos out of range: %d", c.QoS)
	}
	return nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Publisher forwards bus events to per-kind MQTT topics as JSON envelopes.
type Publisher struct {
	cli    pahoClient
	log    logger.Logger
	prefix string
	qos    byte
}

type envelope struct {
	Event string `json:"event"`
	Time  int64  `json:"timestamp_ms"`
	Data  any    `json:"data"`
}

// NewPublisher connects to the broker described by cfg.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	log := logger.New("telemetry")
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Publisher{cli: cli, log: log, prefix: cfg.TopicPrefix, qos: cfg.QoS}, nil
}

// Run consumes bus events until the context is canceled or the bus closes.
// It is meant to run on its own goroutine.
func (p *Publisher) Run(ctx context.Context, bus eventbus.EventBus) {
	sub := bus.Subscribe(64)
	defer sub.Cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			p.publish(ev)
		}
	}
}

func (p *Publisher) publish(ev eventbus.Event) {
	kind := eventKind(ev)
	if kind == "" {
		return
	}
	payload, err := json.Marshal(envelope{
		Event: kind,
		Time:  time.Now().UnixMilli(),
		Data:  ev,
	})
	if err != nil {
		p.log.Errorf("encode %s: %v", kind, err)
		return
	}
	topic := p.prefix + "/" + kind
	token := p.cli.Publish(topic, p.qos, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		p.log.Errorf("publish %s: %v", topic, err)
	}
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}

func eventKind(ev eventbus.Event) string {
	switch ev.(type) {
	case events.RequestReceived:
		return "request_received"
	case events.TripAssigned:
		return "trip_assigned"
	case events.PassengerPickedUp:
		return "passenger_picked_up"
	case events.TripCompleted:
		return "trip_completed"
	case events.TripCancelled:
		return "trip_cancelled"
	case events.TaxiBlocked:
		return "taxi_blocked"
	default:
		return ""
	}
}
