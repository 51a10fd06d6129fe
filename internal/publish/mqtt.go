// Package publish pushes the tracker's status to an MQTT broker.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/waqt/internal/prayer"
)

const (
	qos            = 1
	connectTimeout = 10 * time.Second
	quiesceMillis  = 250
)

// Client is the part of mqtt.Client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Publisher is a tracker sink. Each status is published retained to
// <prefix>/status as JSON and <prefix>/line as a one-line summary, so a
// subscriber that connects mid-minute sees the latest state at once.
type Publisher struct {
	client     Client
	prefix     string
	timeFormat string
}

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("connected to MQTT broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("MQTT connection lost")
}

// Connect dials broker and returns a publisher writing under prefix.
func Connect(broker, clientID, prefix, timeFormat string) (*Publisher, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", broker, token.Error())
	}
	return New(client, prefix, timeFormat), nil
}

// New wraps an already connected client.
func New(client Client, prefix, timeFormat string) *Publisher {
	return &Publisher{
		client:     client,
		prefix:     strings.TrimSuffix(prefix, "/"),
		timeFormat: timeFormat,
	}
}

// Name implements tracker.Sink.
func (p *Publisher) Name() string {
	return "mqtt"
}

// StatusTopic is where the JSON status is retained.
func (p *Publisher) StatusTopic() string {
	return p.prefix + "/status"
}

// LineTopic is where the one-line summary is retained.
func (p *Publisher) LineTopic() string {
	return p.prefix + "/line"
}

// Publish implements tracker.Sink.
func (p *Publisher) Publish(ctx context.Context, s prayer.Status) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	if err := p.send(ctx, p.StatusTopic(), payload); err != nil {
		return err
	}
	line := prayer.FormatStatus(s, prayer.FormatFull, p.timeFormat)
	return p.send(ctx, p.LineTopic(), []byte(line))
}

func (p *Publisher) send(ctx context.Context, topic string, payload []byte) error {
	token := p.client.Publish(topic, qos, true, payload)
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	log.Debug().Str("topic", topic).Int("bytes", len(payload)).Msg("published")
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect(quiesceMillis)
	log.Info().Msg("MQTT client disconnected")
}
