// internal/writer/builder.go
package writer

import (
	"context"
	"errors"

	"github.com/MTTPoll/Lambda-Heatpump-Test/internal/catalog"
	cfg "github.com/MTTPoll/Lambda-Heatpump-Test/internal/config"
	wmqtt "github.com/MTTPoll/Lambda-Heatpump-Test/internal/writer/mqtt"
	wredis "github.com/MTTPoll/Lambda-Heatpump-Test/internal/writer/redis"
)

// BuildPlan converts one device config into a Writer Plan.
// cat must be the catalog the device is actually polled with.
func BuildPlan(d cfg.DeviceConfig, cat *catalog.Catalog) (Plan, error) {
	if d.ID == "" {
		return Plan{}, errors.New("writer: device.id required")
	}
	if cat == nil {
		return Plan{}, errors.New("writer: catalog required")
	}
	return Plan{Device: d.ID, Catalog: cat}, nil
}

// BuildEndpointClients creates one client per enabled sink.
// The clients are shared by every device.
func BuildEndpointClients(ctx context.Context, hp cfg.HeatpumpConfig) (map[string]endpointClient, func() error, error) {
	clients := make(map[string]endpointClient)
	var closers []func() error

	fail := func(err error) (map[string]endpointClient, func() error, error) {
		for _, fn := range closers {
			_ = fn()
		}
		return nil, nil, err
	}

	if hp.MQTT.Enabled() {
		c, err := wmqtt.NewEndpointClient(wmqtt.Config{
			Broker:      hp.MQTT.Broker,
			ClientID:    hp.MQTT.ClientID,
			Username:    hp.MQTT.Username,
			Password:    hp.MQTT.Password,
			TopicPrefix: hp.MQTT.TopicPrefix,
			QoS:         hp.MQTT.QoS,
			Retain:      hp.MQTT.Retained(),
		})
		if err != nil {
			return fail(err)
		}
		clients["mqtt"] = c
		closers = append(closers, c.Close)
	}

	if hp.Redis.Enabled() {
		c, err := wredis.NewEndpointClient(ctx, wredis.Config{
			Addr:      hp.Redis.Addr,
			Password:  hp.Redis.Password,
			DB:        hp.Redis.DB,
			KeyPrefix: hp.Redis.KeyPrefix,
			Channel:   hp.Redis.Channel,
		})
		if err != nil {
			return fail(err)
		}
		clients["redis"] = c
		closers = append(closers, c.Close)
	}

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	return clients, closeAll, nil
}
