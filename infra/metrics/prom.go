package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/tkaufmann/fossibot-cli/core/metrics"
)

// PromSink records session events in Prometheus metrics.
type PromSink struct {
	inbound  *prometheus.CounterVec
	commands *prometheus.CounterVec
	soc      *prometheus.GaugeVec
}

// NewPromSink registers session metrics on the default Prometheus registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(nil)
}

// NewPromSinkWithRegistry registers session metrics on the provided registerer.
// If reg is nil, the default registerer is used. Already registered collectors
// are reused so repeated construction is safe.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	inbound := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fossibot_messages_received_total",
		Help: "Total number of messages received from the bridge",
	}, []string{"kind", "device"})
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fossibot_commands_total",
		Help: "Total number of operator commands by action and acceptance",
	}, []string{"action", "accepted"})
	soc := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "fossibot_battery_soc_percent",
		Help: "Last observed state of charge per device",
	}, []string{"device"})

	if err := reg.Register(inbound); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			inbound = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(commands); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			commands = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(soc); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			soc = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{inbound: inbound, commands: commands, soc: soc}, nil
}

// RecordInbound increments the received message counter.
func (s *PromSink) RecordInbound(ev coremetrics.InboundEvent) error {
	s.inbound.WithLabelValues(ev.Kind, ev.DeviceMAC).Inc()
	return nil
}

// RecordCommand increments the command counter.
func (s *PromSink) RecordCommand(ev coremetrics.CommandEvent) error {
	s.commands.WithLabelValues(string(ev.Action), strconv.FormatBool(ev.Accepted)).Inc()
	return nil
}

// RecordState updates the SoC gauge for the device.
func (s *PromSink) RecordState(sample coremetrics.StateSample) error {
	s.soc.WithLabelValues(sample.DeviceMAC).Set(float64(sample.State.SoC))
	return nil
}
