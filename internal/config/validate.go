// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	MinUpdateIntervalS = 5
	MaxUpdateIntervalS = 3600
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}
	hp := cfg.Heatpump

	// ------------------------------------------------------------
	// AMBIENT
	// ------------------------------------------------------------

	if hp.Log.Level != "" {
		if _, err := logrus.ParseLevel(hp.Log.Level); err != nil {
			return fmt.Errorf("log.level %q: %w", hp.Log.Level, err)
		}
	}
	switch hp.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q: want text or json", hp.Log.Format)
	}

	// ------------------------------------------------------------
	// SINKS (opt-in)
	// ------------------------------------------------------------

	if hp.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt.qos %d: want 0, 1 or 2", hp.MQTT.QoS)
	}
	if strings.ContainsAny(hp.MQTT.TopicPrefix, "+#") {
		return fmt.Errorf("mqtt.topic_prefix %q: wildcards are not allowed", hp.MQTT.TopicPrefix)
	}
	if hp.Redis.DB < 0 {
		return fmt.Errorf("redis.db %d: must be >= 0", hp.Redis.DB)
	}

	// ------------------------------------------------------------
	// DEVICES
	// ------------------------------------------------------------

	if len(hp.Devices) == 0 {
		return errors.New("at least one device is required")
	}

	seen := make(map[string]struct{}, len(hp.Devices))

	for i, d := range hp.Devices {
		if d.ID == "" {
			return fmt.Errorf("devices[%d]: id is required", i)
		}
		if strings.ContainsAny(d.ID, "/+#: ") {
			return fmt.Errorf("device %q: id must not contain '/', '+', '#', ':' or spaces", d.ID)
		}
		if _, dup := seen[d.ID]; dup {
			return fmt.Errorf("device %q: duplicate id", d.ID)
		}
		seen[d.ID] = struct{}{}

		if d.Host == "" {
			return fmt.Errorf("device %q: host is required", d.ID)
		}
		if d.Port < 0 || d.Port > 65535 {
			return fmt.Errorf("device %q: port %d out of range", d.ID, d.Port)
		}

		switch d.WordOrder {
		case "", "big", "little":
		default:
			return fmt.Errorf("device %q: word_order %q: want big or little", d.ID, d.WordOrder)
		}

		// 0 means "use default"
		if d.UpdateIntervalS != 0 &&
			(d.UpdateIntervalS < MinUpdateIntervalS || d.UpdateIntervalS > MaxUpdateIntervalS) {
			return fmt.Errorf(
				"device %q: update_interval_s %d out of range %d-%d",
				d.ID,
				d.UpdateIntervalS,
				MinUpdateIntervalS,
				MaxUpdateIntervalS,
			)
		}

		if d.TimeoutMs < 0 {
			return fmt.Errorf("device %q: timeout_ms must be >= 0", d.ID)
		}
	}

	return nil
}
