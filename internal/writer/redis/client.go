// internal/writer/redis/client.go
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config is minimal sink config.
type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	Channel   string
}

// EndpointClient keeps the latest state of each device in Redis and
// announces every update on a pub/sub channel. Nothing is appended:
// each write overwrites the previous one.
//
// Keys:
//
//	<prefix>:<device>:state         JSON state object
//	<prefix>:<device>:status        JSON health snapshot
//	<prefix>:<device>:availability  online | offline
type EndpointClient struct {
	client    *redis.Client
	keyPrefix string
	channel   string
}

// NewEndpointClient connects and pings once.
func NewEndpointClient(ctx context.Context, cfg Config) (*EndpointClient, error) {
	if cfg.Addr == "" {
		return nil, errors.New("writer redis: addr required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("writer redis: ping %s: %w", cfg.Addr, err)
	}

	return &EndpointClient{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		channel:   cfg.Channel,
	}, nil
}

func (c *EndpointClient) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

//
// Implements writer.endpointClient
//

// PublishState stores the snapshot and announces it in one round trip.
func (c *EndpointClient) PublishState(ctx context.Context, device string, payload []byte) error {
	pipe := c.client.Pipeline()
	pipe.Set(ctx, c.Key(device, "state"), payload, 0)
	if c.channel != "" {
		pipe.Publish(ctx, c.channel, payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writer redis: device %s: %w", device, err)
	}
	return nil
}

// PublishStatus stores the health snapshot and availability together.
func (c *EndpointClient) PublishStatus(ctx context.Context, device string, online bool, payload []byte) error {
	avail := "offline"
	if online {
		avail = "online"
	}

	pipe := c.client.Pipeline()
	pipe.Set(ctx, c.Key(device, "status"), payload, 0)
	pipe.Set(ctx, c.Key(device, "availability"), avail, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writer redis: device %s status: %w", device, err)
	}
	return nil
}

// Key builds <prefix>:<device>:<leaf>.
func (c *EndpointClient) Key(device, leaf string) string {
	if c.keyPrefix == "" {
		return device + ":" + leaf
	}
	return c.keyPrefix + ":" + device + ":" + leaf
}
