package app

import (
	"errors"
	"sync"
	"testing"

	"github.com/tkaufmann/fossibot-cli/config"
	"github.com/tkaufmann/fossibot-cli/core/control"
	coremetrics "github.com/tkaufmann/fossibot-cli/core/metrics"
	"github.com/tkaufmann/fossibot-cli/core/model"
	coremqtt "github.com/tkaufmann/fossibot-cli/core/mqtt"
	"github.com/tkaufmann/fossibot-cli/infra/logger"
)

const testMAC = "7C2C67AB5F0E"

type fakeClient struct {
	mu          sync.Mutex
	published   []string
	topics      []string
	handlers    map[string]coremqtt.MessageHandler
	disconnects int
}

func (f *fakeClient) Publish(topic string, payload []byte, qos byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, topic+" "+string(payload))
	return nil
}

func (f *fakeClient) Subscribe(topic string, qos byte, handler coremqtt.MessageHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handlers == nil {
		f.handlers = map[string]coremqtt.MessageHandler{}
	}
	f.topics = append(f.topics, topic)
	f.handlers[topic] = handler
	return nil
}

func (f *fakeClient) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disconnects++
}

type recordingSink struct {
	inbound  []coremetrics.InboundEvent
	commands []coremetrics.CommandEvent
	states   []coremetrics.StateSample
}

func (r *recordingSink) RecordInbound(ev coremetrics.InboundEvent) error {
	r.inbound = append(r.inbound, ev)
	return nil
}

func (r *recordingSink) RecordCommand(ev coremetrics.CommandEvent) error {
	r.commands = append(r.commands, ev)
	return nil
}

func (r *recordingSink) RecordState(s coremetrics.StateSample) error {
	r.states = append(r.states, s)
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Device.MAC = testMAC
	cfg.Device.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.Metrics.SetDefaults()
	return cfg
}

func TestSessionSubscribeTopicSet(t *testing.T) {
	client := &fakeClient{}
	sess := newForTest(testConfig(), client, &recordingSink{}, logger.NopLogger{})
	if err := sess.Subscribe(func(control.Event) {}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	want := []string{
		"fossibot/" + testMAC + "/state",
		"fossibot/" + testMAC + "/availability",
		"fossibot/bridge/status",
	}
	if len(client.topics) != len(want) {
		t.Fatalf("topics: got %v", client.topics)
	}
	for i, topic := range want {
		if client.topics[i] != topic {
			t.Errorf("topic %d: got %s want %s", i, client.topics[i], topic)
		}
	}
}

func TestSessionInboundDispatch(t *testing.T) {
	client := &fakeClient{}
	sink := &recordingSink{}
	sess := newForTest(testConfig(), client, sink, logger.NopLogger{})

	var events []control.Event
	if err := sess.Subscribe(func(ev control.Event) { events = append(events, ev) }); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	stateTopic := "fossibot/" + testMAC + "/state"
	client.handlers[stateTopic](stateTopic, []byte("garbage"))
	client.handlers[stateTopic](stateTopic, []byte(`{"soc":87,"usbOutput":true,"acOutput":false,"timestamp":"T"}`))

	if len(events) != 1 {
		t.Fatalf("expected malformed payload to be dropped, got %d events", len(events))
	}
	if events[0].State.SoC != 87 {
		t.Errorf("state soc: got %d", events[0].State.SoC)
	}
	if len(sink.inbound) != 1 || len(sink.states) != 1 {
		t.Errorf("sink records: inbound=%d states=%d", len(sink.inbound), len(sink.states))
	}
	if len(client.published) != 0 {
		t.Errorf("inbound dispatch must not publish, got %v", client.published)
	}
}

func TestSessionCommandsRecordOutcome(t *testing.T) {
	client := &fakeClient{}
	sink := &recordingSink{}
	sess := newForTest(testConfig(), client, sink, logger.NopLogger{})

	if err := sess.TurnUSBOn(); err != nil {
		t.Fatalf("usb on: %v", err)
	}
	if err := sess.SetChargingCurrent(42); !errors.Is(err, model.ErrAmperesOutOfRange) {
		t.Fatalf("expected range error got %v", err)
	}
	if len(client.published) != 1 {
		t.Fatalf("expected one publish got %v", client.published)
	}
	if len(sink.commands) != 2 {
		t.Fatalf("expected two command records got %d", len(sink.commands))
	}
	if !sink.commands[0].Accepted || sink.commands[1].Accepted {
		t.Errorf("command acceptance: %+v", sink.commands)
	}
}

func TestSessionCloseDisconnectsOnce(t *testing.T) {
	client := &fakeClient{}
	sess := newForTest(testConfig(), client, &recordingSink{}, logger.NopLogger{})
	sess.Close()
	sess.Close()
	if client.disconnects != 1 {
		t.Fatalf("expected exactly one disconnect got %d", client.disconnects)
	}
}
