// internal/config/config.go
package config

type Config struct {
	Heatpump HeatpumpConfig `yaml:"heatpump"`
}

type HeatpumpConfig struct {
	Log     LogConfig      `yaml:"log"`
	Metrics MetricsConfig  `yaml:"metrics"`
	MQTT    MQTTConfig     `yaml:"mqtt"`
	Redis   RedisConfig    `yaml:"redis"`
	Devices []DeviceConfig `yaml:"devices"`
}

// ---- AMBIENT ----

type LogConfig struct {
	Level  string `yaml:"level"`  // logrus level name
	Format string `yaml:"format"` // text | json
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// ---- SINKS ----

// MQTTConfig is opt-in: an empty Broker disables the MQTT sink.
type MQTTConfig struct {
	Broker      string `yaml:"broker"`
	TopicPrefix string `yaml:"topic_prefix"`
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	QoS         byte   `yaml:"qos"`
	Retain      *bool  `yaml:"retain"`
}

// RedisConfig is opt-in: an empty Addr disables the Redis sink.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
	Channel   string `yaml:"channel"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	ID     string `yaml:"id"`
	Host   string `yaml:"host"`
	Port   int    `yaml:"port"`
	UnitID *uint8 `yaml:"unit_id"`

	// WordOrder is big | little. Empty derives it from
	// InstalledBefore2025: older firmware sends the high word first.
	WordOrder           string `yaml:"word_order"`
	InstalledBefore2025 bool   `yaml:"installed_before_2025"`

	UpdateIntervalS int `yaml:"update_interval_s"`
	TimeoutMs       int `yaml:"timeout_ms"`

	HasHeatCircuit2 *bool `yaml:"has_heat_circuit_2"`
	HasHeatCircuit3 *bool `yaml:"has_heat_circuit_3"`
}
