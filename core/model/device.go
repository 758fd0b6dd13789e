package model

import "fmt"

// DeviceState is a snapshot published by the bridge on the state topic.
// The client only ever receives it; the most recent value wins.
type DeviceState struct {
	SoC       int    `json:"soc"`
	USBOutput bool   `json:"usbOutput"`
	ACOutput  bool   `json:"acOutput"`
	Timestamp string `json:"timestamp"`
}

// Validate checks the decoded state for values the bridge should never emit.
func (s DeviceState) Validate() error {
	if s.SoC < 0 || s.SoC > 100 {
		return fmt.Errorf("soc %d out of range [0,100]", s.SoC)
	}
	return nil
}

// BridgeStatus reports the health of the MQTT bridge itself. It is not scoped
// to a single device.
type BridgeStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Availability is the plain-text presence token published per device,
// typically "online" or "offline" via the bridge's last-will.
type Availability string

const (
	AvailabilityOnline  Availability = "online"
	AvailabilityOffline Availability = "offline"
)
