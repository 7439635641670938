// internal/config/normalize.go
package config

import (
	"net"
	"strconv"
	"time"
)

const (
	DefaultPort            = 502
	DefaultUnitID    uint8 = 1
	DefaultIntervalS       = 30
	DefaultTimeoutMs       = 3000

	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultMetricsListen  = ":9502"
	DefaultTopicPrefix    = "lambda"
	DefaultRedisKeyPrefix = "lambda"
	DefaultRedisChannel   = "lambda_heatpump"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	hp := &cfg.Heatpump

	// ------------------------------------------------------------
	// AMBIENT + SINK DEFAULTS
	// ------------------------------------------------------------

	if hp.Log.Level == "" {
		hp.Log.Level = DefaultLogLevel
	}
	if hp.Log.Format == "" {
		hp.Log.Format = DefaultLogFormat
	}
	if hp.Metrics.Listen == "" {
		hp.Metrics.Listen = DefaultMetricsListen
	}
	if hp.MQTT.TopicPrefix == "" {
		hp.MQTT.TopicPrefix = DefaultTopicPrefix
	}
	if hp.MQTT.Retain == nil {
		hp.MQTT.Retain = boolPtr(true)
	}
	if hp.Redis.KeyPrefix == "" {
		hp.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if hp.Redis.Channel == "" {
		hp.Redis.Channel = DefaultRedisChannel
	}

	// ------------------------------------------------------------
	// DEVICE DEFAULTS
	// ------------------------------------------------------------

	for i := range hp.Devices {
		d := &hp.Devices[i]

		if d.Port == 0 {
			d.Port = DefaultPort
		}
		if d.UnitID == nil {
			id := DefaultUnitID
			d.UnitID = &id
		}
		if d.UpdateIntervalS == 0 {
			d.UpdateIntervalS = DefaultIntervalS
		}
		if d.TimeoutMs == 0 {
			d.TimeoutMs = DefaultTimeoutMs
		}

		// Word order is fixed per session. Controllers installed before
		// 2025 run firmware that sends the high word first.
		if d.WordOrder == "" {
			if d.InstalledBefore2025 {
				d.WordOrder = "big"
			} else {
				d.WordOrder = "little"
			}
		}

		if d.HasHeatCircuit2 == nil {
			d.HasHeatCircuit2 = boolPtr(true)
		}
		if d.HasHeatCircuit3 == nil {
			d.HasHeatCircuit3 = boolPtr(true)
		}
	}
}

// ---- accessors (valid after Normalize) ----

// Endpoint is host:port.
func (d DeviceConfig) Endpoint() string {
	return net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
}

func (d DeviceConfig) Interval() time.Duration {
	return time.Duration(d.UpdateIntervalS) * time.Second
}

func (d DeviceConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMs) * time.Millisecond
}

func (d DeviceConfig) Unit() uint8 {
	if d.UnitID == nil {
		return DefaultUnitID
	}
	return *d.UnitID
}

func (d DeviceConfig) Circuit2() bool { return d.HasHeatCircuit2 == nil || *d.HasHeatCircuit2 }
func (d DeviceConfig) Circuit3() bool { return d.HasHeatCircuit3 == nil || *d.HasHeatCircuit3 }

func (m MQTTConfig) Enabled() bool  { return m.Broker != "" }
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

func (m MQTTConfig) Retained() bool { return m.Retain == nil || *m.Retain }

func boolPtr(b bool) *bool { return &b }
