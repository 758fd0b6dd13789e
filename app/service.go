package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tkaufmann/fossibot-cli/config"
	"github.com/tkaufmann/fossibot-cli/core/control"
	coremetrics "github.com/tkaufmann/fossibot-cli/core/metrics"
	"github.com/tkaufmann/fossibot-cli/core/model"
	coremqtt "github.com/tkaufmann/fossibot-cli/core/mqtt"
	"github.com/tkaufmann/fossibot-cli/infra/logger"
	"github.com/tkaufmann/fossibot-cli/infra/metrics"
	"github.com/tkaufmann/fossibot-cli/infra/mqtt"
)

// Session owns the broker connection for one device-control session. Command
// methods run on the caller's goroutine; inbound events arrive on paho's
// receive goroutine, so a pending stdin read never delays message handling.
type Session struct {
	ctrl *control.Controller
	cfg  *config.Config
	sink coremetrics.Sink
	log  logger.Logger

	client coremqtt.Client

	closeOnce sync.Once
}

// New connects to the broker and prepares the session. A connection failure
// is reported to the caller; the interactive loop is never entered.
func New(cfg *config.Config) (*Session, error) {
	log := logger.New("session")
	client, err := mqtt.NewPahoClient(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("mqtt client: %w", err)
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			client.Disconnect()
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	return &Session{
		ctrl:   control.NewController(client, cfg.Device.Namespace, cfg.Device.MAC),
		cfg:    cfg,
		sink:   sink,
		log:    log,
		client: client,
	}, nil
}

// newForTest wires a Session onto an existing client, bypassing the broker.
func newForTest(cfg *config.Config, client coremqtt.Client, sink coremetrics.Sink, log logger.Logger) *Session {
	return &Session{
		ctrl:   control.NewController(client, cfg.Device.Namespace, cfg.Device.MAC),
		cfg:    cfg,
		sink:   sink,
		log:    log,
		client: client,
	}
}

// Subscribe registers the fixed topic set for the configured device plus the
// global bridge status topic. Decoded events are forwarded to onEvent;
// malformed payloads are logged and dropped without disturbing later messages.
func (s *Session) Subscribe(onEvent func(control.Event)) error {
	ns, mac := s.cfg.Device.Namespace, s.cfg.Device.MAC
	handler := func(topic string, payload []byte) {
		ev, err := control.HandleMessage(ns, topic, payload)
		if err != nil {
			s.log.Warnf("dropping message on %s: %v", topic, err)
			return
		}
		s.record(ev)
		onEvent(ev)
	}
	topics := []string{
		control.StateTopic(ns, mac),
		control.AvailabilityTopic(ns, mac),
		control.BridgeStatusTopic(ns),
	}
	for _, topic := range topics {
		if err := s.client.Subscribe(topic, 0, handler); err != nil {
			return fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}
	s.log.Infof("subscribed to %d topics for %s", len(topics), mac)
	return nil
}

func (s *Session) record(ev control.Event) {
	now := time.Now()
	if err := s.sink.RecordInbound(coremetrics.InboundEvent{Kind: string(ev.Kind), DeviceMAC: ev.DeviceMAC, Time: now}); err != nil {
		s.log.Warnf("record inbound: %v", err)
	}
	if ev.Kind == control.EventState {
		sample := coremetrics.StateSample{DeviceMAC: ev.DeviceMAC, State: ev.State, Time: now}
		if err := s.sink.RecordState(sample); err != nil {
			s.log.Warnf("record state: %v", err)
		}
	}
}

// TurnUSBOn publishes the usb_on command and records the outcome.
func (s *Session) TurnUSBOn() error {
	return s.command(model.ActionUSBOn, s.ctrl.TurnUSBOn)
}

// TurnUSBOff publishes the usb_off command and records the outcome.
func (s *Session) TurnUSBOff() error {
	return s.command(model.ActionUSBOff, s.ctrl.TurnUSBOff)
}

// SetChargingCurrent publishes a charging current command. Validation errors
// are recorded as rejected commands and returned without any publish.
func (s *Session) SetChargingCurrent(amperes int) error {
	return s.command(model.ActionSetChargingCurrent, func() error {
		return s.ctrl.SetChargingCurrent(amperes)
	})
}

func (s *Session) command(action model.Action, run func() error) error {
	err := run()
	ev := coremetrics.CommandEvent{Action: action, Accepted: err == nil, Time: time.Now()}
	if rerr := s.sink.RecordCommand(ev); rerr != nil {
		s.log.Warnf("record command: %v", rerr)
	}
	return err
}

// ServeMetrics runs the Prometheus endpoint until the context is canceled.
// It is a no-op when Prometheus is disabled.
func (s *Session) ServeMetrics(ctx context.Context) {
	if !s.cfg.Metrics.PrometheusEnabled {
		return
	}
	go func() {
		addr := ":" + s.cfg.Metrics.PrometheusPort
		if err := metrics.StartPromServer(ctx, addr); err != nil {
			s.log.Errorf("prom server: %v", err)
		}
	}()
}

// Close releases the broker connection. Safe to call from any exit path;
// only the first call disconnects.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.client.Disconnect()
	})
}
