package control

import (
	"fmt"

	"github.com/tkaufmann/fossibot-cli/core/model"
	"github.com/tkaufmann/fossibot-cli/core/mqtt"
)

// CommandQoS is the delivery quality for outbound commands. The bridge must
// receive every command at least once.
const CommandQoS byte = 1

// Controller publishes control commands for a single device. It holds the
// connection handle and the device identity; command methods take explicit
// parameters and never touch global state.
type Controller struct {
	pub       mqtt.Publisher
	namespace string
	mac       string
}

// NewController builds a Controller for the given device.
func NewController(pub mqtt.Publisher, namespace, mac string) *Controller {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Controller{pub: pub, namespace: namespace, mac: mac}
}

// TurnUSBOn publishes the usb_on command.
func (c *Controller) TurnUSBOn() error {
	return c.send(model.NewUSBOn())
}

// TurnUSBOff publishes the usb_off command.
func (c *Controller) TurnUSBOff() error {
	return c.send(model.NewUSBOff())
}

// SetChargingCurrent validates the amperes value and publishes the command.
// Out-of-range values are rejected without contacting the broker.
func (c *Controller) SetChargingCurrent(amperes int) error {
	cmd, err := model.NewSetChargingCurrent(amperes)
	if err != nil {
		return err
	}
	return c.send(cmd)
}

func (c *Controller) send(cmd model.Command) error {
	payload, err := cmd.Marshal()
	if err != nil {
		return err
	}
	topic := CommandTopic(c.namespace, c.mac)
	if err := c.pub.Publish(topic, payload, CommandQoS); err != nil {
		return fmt.Errorf("publish %s: %w", cmd.Action, err)
	}
	return nil
}
