// internal/writer/mqtt/client.go
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const (
	payloadOnline  = "online"
	payloadOffline = "offline"

	defaultTimeout = 5 * time.Second
)

// publisher is the part of paho.Client this sink uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// Config is minimal sink config.
type Config struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
	Retain      bool
	Timeout     time.Duration
}

// EndpointClient publishes device state to an MQTT broker.
//
// Topics:
//
//	<prefix>/availability          bridge online/offline (last will)
//	<prefix>/<device>/state        JSON state object
//	<prefix>/<device>/status       JSON health snapshot
//	<prefix>/<device>/availability device online/offline
type EndpointClient struct {
	conn    publisher
	prefix  string
	qos     byte
	retain  bool
	timeout time.Duration

	// sessions counts broker connects; retained topics may be gone after each.
	sessions atomic.Uint64
}

// NewEndpointClient connects to the broker. The bridge is announced
// online on every connect, including paho's automatic reconnects.
func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Broker == "" {
		return nil, errors.New("writer mqtt: broker required")
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "lambda-heatpump-" + uuid.NewString()[:8]
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	bridge := Topic(cfg.TopicPrefix, "", "availability")

	c := newEndpointClient(nil, cfg)

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.Timeout).
		SetWill(bridge, payloadOffline, cfg.QoS, true).
		SetOnConnectHandler(func(paho.Client) { _ = c.onConnect() })

	conn := paho.NewClient(opts)
	c.conn = conn

	tok := conn.Connect()
	if !tok.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("writer mqtt: connect %s: timeout", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("writer mqtt: connect %s: %w", cfg.Broker, err)
	}
	return c, nil
}

func newEndpointClient(conn publisher, cfg Config) *EndpointClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &EndpointClient{
		conn:    conn,
		prefix:  cfg.TopicPrefix,
		qos:     cfg.QoS,
		retain:  cfg.Retain,
		timeout: cfg.Timeout,
	}
}

// Sessions returns how many times the broker connection was established.
// Status writers re-publish their retained state when it moves.
func (c *EndpointClient) Sessions() uint64 { return c.sessions.Load() }

// onConnect runs on every (re)connect. The broker has fired the will by
// then, so the bridge must be re-announced.
func (c *EndpointClient) onConnect() error {
	c.sessions.Add(1)
	return c.publish(context.Background(), Topic(c.prefix, "", "availability"), true, payloadOnline)
}

// Close marks the bridge offline and disconnects. Best effort.
func (c *EndpointClient) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	_ = c.publish(context.Background(), Topic(c.prefix, "", "availability"), true, payloadOffline)
	c.conn.Disconnect(250)
	return nil
}

//
// Implements writer.endpointClient
//

func (c *EndpointClient) PublishState(ctx context.Context, device string, payload []byte) error {
	return c.publish(ctx, Topic(c.prefix, device, "state"), c.retain, payload)
}

func (c *EndpointClient) PublishStatus(ctx context.Context, device string, online bool, payload []byte) error {
	if err := c.publish(ctx, Topic(c.prefix, device, "status"), c.retain, payload); err != nil {
		return err
	}

	avail := payloadOffline
	if online {
		avail = payloadOnline
	}
	// availability is always retained so late subscribers see it
	return c.publish(ctx, Topic(c.prefix, device, "availability"), true, avail)
}

// ---- internals ----

func (c *EndpointClient) publish(ctx context.Context, topic string, retained bool, payload interface{}) error {
	tok := c.conn.Publish(topic, c.qos, retained, payload)

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case <-tok.Done():
	case <-ctx.Done():
		return fmt.Errorf("writer mqtt: publish %s: %w", topic, ctx.Err())
	case <-timer.C:
		return fmt.Errorf("writer mqtt: publish %s: timeout", topic)
	}

	if err := tok.Error(); err != nil {
		return fmt.Errorf("writer mqtt: publish %s: %w", topic, err)
	}
	return nil
}

// Topic joins prefix, device and leaf, skipping empty parts.
func Topic(prefix, device, leaf string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{strings.Trim(prefix, "/"), device, leaf} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "/")
}
