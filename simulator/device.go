package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/tkaufmann/fossibot-cli/core/control"
	"github.com/tkaufmann/fossibot-cli/core/model"
)

// SimulatedDevice stands in for a Fossibot power station behind the bridge.
// It announces availability through a retained last-will, publishes periodic
// state snapshots and applies incoming commands to its battery model.
type SimulatedDevice struct {
	MAC       string
	Broker    string
	Namespace string
	Interval  time.Duration

	battery *Battery
	client  paho.Client
	version string
}

// NewSimulatedDevice creates a device starting at the given state of charge.
func NewSimulatedDevice(mac, broker, namespace string, interval time.Duration, soc float64) *SimulatedDevice {
	return &SimulatedDevice{
		MAC:       mac,
		Broker:    broker,
		Namespace: namespace,
		Interval:  interval,
		battery:   NewBattery(soc),
		version:   "sim-0.3.0",
	}
}

// Run connects to the broker and serves until ctx is done.
func (d *SimulatedDevice) Run(ctx context.Context) error {
	availTopic := control.AvailabilityTopic(d.Namespace, d.MAC)
	opts := paho.NewClientOptions().
		AddBroker(d.Broker).
		SetClientID("fossibot-sim-" + d.MAC).
		SetWill(availTopic, string(model.AvailabilityOffline), 1, true)
	opts.AutoReconnect = true
	opts.OnConnect = func(c paho.Client) {
		c.Publish(availTopic, 1, true, string(model.AvailabilityOnline))
	}

	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect %s: %w", d.Broker, token.Error())
	}
	d.client = cli

	cmdTopic := control.CommandTopic(d.Namespace, d.MAC)
	if token := cli.Subscribe(cmdTopic, 1, d.onCommand); token.Wait() && token.Error() != nil {
		cli.Disconnect(250)
		return fmt.Errorf("subscribe %s: %w", cmdTopic, token.Error())
	}

	d.publishBridgeStatus()
	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			d.battery.Tick(d.Interval)
			d.publishState()
		case <-ctx.Done():
			cli.Publish(availTopic, 1, true, string(model.AvailabilityOffline))
			cli.Disconnect(250)
			return nil
		}
	}
}

func (d *SimulatedDevice) onCommand(_ paho.Client, msg paho.Message) {
	var cmd model.Command
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		log.Printf("%s: decode command: %v", d.MAC, err)
		return
	}
	if err := cmd.Validate(); err != nil {
		log.Printf("%s: reject command: %v", d.MAC, err)
		return
	}
	switch cmd.Action {
	case model.ActionUSBOn:
		d.battery.SetUSB(true)
	case model.ActionUSBOff:
		d.battery.SetUSB(false)
	case model.ActionSetChargingCurrent:
		d.battery.SetChargeAmperes(cmd.Amperes)
	}
	log.Printf("%s: applied %s", d.MAC, cmd.Action)
	d.publishState()
}

func (d *SimulatedDevice) publishState() {
	soc, usb, ac := d.battery.Snapshot()
	state := model.DeviceState{
		SoC:       soc,
		USBOutput: usb,
		ACOutput:  ac,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(state)
	if err != nil {
		log.Printf("%s: marshal state: %v", d.MAC, err)
		return
	}
	d.client.Publish(control.StateTopic(d.Namespace, d.MAC), 0, false, payload)
}

func (d *SimulatedDevice) publishBridgeStatus() {
	status := model.BridgeStatus{Status: "running", Version: d.version}
	payload, err := json.Marshal(status)
	if err != nil {
		log.Printf("marshal bridge status: %v", err)
		return
	}
	d.client.Publish(control.BridgeStatusTopic(d.Namespace), 0, true, payload)
}
