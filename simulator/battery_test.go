package main

import (
	"testing"
	"time"
)

func TestBatteryChargesOverTime(t *testing.T) {
	b := NewBattery(50)
	b.SetChargeAmperes(10) // 2300W into a 2048Wh pack
	b.Tick(30 * time.Minute)
	soc, _, _ := b.Snapshot()
	if soc <= 50 {
		t.Fatalf("expected charge to raise soc, got %d", soc)
	}
}

func TestBatteryDrainsWithACOutput(t *testing.T) {
	b := NewBattery(50)
	b.SetChargeAmperes(0)
	b.mu.Lock()
	b.ACOutput = true
	b.mu.Unlock()
	b.Tick(time.Hour)
	soc, _, ac := b.Snapshot()
	if !ac {
		t.Fatal("ac output should stay on")
	}
	if soc >= 50 {
		t.Fatalf("expected drain to lower soc, got %d", soc)
	}
}

func TestBatteryClampsSoC(t *testing.T) {
	b := NewBattery(99)
	b.SetChargeAmperes(20)
	b.Tick(2 * time.Hour)
	if soc, _, _ := b.Snapshot(); soc != 100 {
		t.Fatalf("soc should clamp at 100, got %d", soc)
	}

	b = NewBattery(1)
	b.SetChargeAmperes(0)
	b.mu.Lock()
	b.ACOutput = true
	b.mu.Unlock()
	b.Tick(12 * time.Hour)
	if soc, _, _ := b.Snapshot(); soc != 0 {
		t.Fatalf("soc should clamp at 0, got %d", soc)
	}
}

func TestBatteryUSBToggle(t *testing.T) {
	b := NewBattery(50)
	b.SetUSB(true)
	if _, usb, _ := b.Snapshot(); !usb {
		t.Fatal("usb should be on")
	}
	b.SetUSB(false)
	if _, usb, _ := b.Snapshot(); usb {
		t.Fatal("usb should be off")
	}
}
