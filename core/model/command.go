package model

import (
	"encoding/json"
	"fmt"
)

// Action identifies a command variant accepted by the bridge.
type Action string

const (
	ActionUSBOn              Action = "usb_on"
	ActionUSBOff             Action = "usb_off"
	ActionSetChargingCurrent Action = "set_charging_current"
)

// Charging current limits enforced by the regulator circuit, in amperes.
const (
	MinChargingAmperes = 1
	MaxChargingAmperes = 20
)

// ErrAmperesOutOfRange is returned when a charging current command falls
// outside the supported range. The command is rejected before any publish.
var ErrAmperesOutOfRange = fmt.Errorf("amperes must be between %d and %d", MinChargingAmperes, MaxChargingAmperes)

// Command is an outbound control message for a single device.
type Command struct {
	Action  Action `json:"action"`
	Amperes int    `json:"amperes,omitempty"`
}

// NewUSBOn builds the command switching the USB output on.
func NewUSBOn() Command { return Command{Action: ActionUSBOn} }

// NewUSBOff builds the command switching the USB output off.
func NewUSBOff() Command { return Command{Action: ActionUSBOff} }

// NewSetChargingCurrent builds a charging current command. The amperes value
// is validated locally so invalid requests never reach the broker.
func NewSetChargingCurrent(amperes int) (Command, error) {
	if amperes < MinChargingAmperes || amperes > MaxChargingAmperes {
		return Command{}, ErrAmperesOutOfRange
	}
	return Command{Action: ActionSetChargingCurrent, Amperes: amperes}, nil
}

// Validate checks that the command belongs to the closed action set and its
// arguments are in range.
func (c Command) Validate() error {
	switch c.Action {
	case ActionUSBOn, ActionUSBOff:
		return nil
	case ActionSetChargingCurrent:
		if c.Amperes < MinChargingAmperes || c.Amperes > MaxChargingAmperes {
			return ErrAmperesOutOfRange
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q", c.Action)
	}
}

// Marshal serializes the command after validation.
func (c Command) Marshal() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(c)
}
