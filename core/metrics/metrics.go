package metrics

import (
	"time"

	"github.com/tkaufmann/fossibot-cli/core/model"
)

// InboundEvent captures one decoded message received from the bridge.
type InboundEvent struct {
	Kind      string
	DeviceMAC string
	Time      time.Time
}

// CommandEvent captures one operator command, whether it was accepted and
// published or rejected by local validation.
type CommandEvent struct {
	Action   model.Action
	Accepted bool
	Time     time.Time
}

// StateSample is a device state snapshot suitable for telemetry recording.
type StateSample struct {
	DeviceMAC string
	State     model.DeviceState
	Time      time.Time
}

// Sink records session events for observability purposes.
type Sink interface {
	RecordInbound(ev InboundEvent) error
	RecordCommand(ev CommandEvent) error
	RecordState(sample StateSample) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordInbound(InboundEvent) error { return nil }
func (NopSink) RecordCommand(CommandEvent) error { return nil }
func (NopSink) RecordState(StateSample) error    { return nil }

// Config defines settings for metrics sinks.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = "2112"
	}
}
