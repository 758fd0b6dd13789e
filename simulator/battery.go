package main

import (
	"sync"
	"time"
)

// Battery models the power station pack: state of charge in percent, output
// switches and the configured charging current.
type Battery struct {
	mu sync.Mutex

	SoC           float64 // percent [0,100]
	USBOutput     bool
	ACOutput      bool
	ChargeAmperes int
	CapacityWh    float64
	ChargeVoltage float64
	USBDrainW     float64
	ACDrainW      float64
}

// NewBattery returns a battery with typical Fossibot F2400 figures.
func NewBattery(soc float64) *Battery {
	return &Battery{
		SoC:           soc,
		ChargeAmperes: 5,
		CapacityWh:    2048,
		ChargeVoltage: 230,
		USBDrainW:     15,
		ACDrainW:      300,
	}
}

// Tick advances the simulation by dt: charging raises the SoC according to
// the configured current, enabled outputs drain it.
func (b *Battery) Tick(dt time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	hours := dt.Hours()
	if hours <= 0 {
		return
	}

	chargeW := float64(b.ChargeAmperes) * b.ChargeVoltage
	drainW := 0.0
	if b.USBOutput {
		drainW += b.USBDrainW
	}
	if b.ACOutput {
		drainW += b.ACDrainW
	}
	deltaWh := (chargeW - drainW) * hours
	b.SoC += deltaWh / b.CapacityWh * 100

	if b.SoC > 100 {
		b.SoC = 100
	}
	if b.SoC < 0 {
		b.SoC = 0
	}
}

// SetUSB switches the USB output.
func (b *Battery) SetUSB(on bool) {
	b.mu.Lock()
	b.USBOutput = on
	b.mu.Unlock()
}

// SetChargeAmperes sets the charging current.
func (b *Battery) SetChargeAmperes(amperes int) {
	b.mu.Lock()
	b.ChargeAmperes = amperes
	b.mu.Unlock()
}

// Snapshot returns a consistent view of the battery.
func (b *Battery) Snapshot() (soc int, usb, ac bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return int(b.SoC), b.USBOutput, b.ACOutput
}
