package config

import (
	"fmt"
	"strings"

	"github.com/tkaufmann/fossibot-cli/core/control"
)

// DeviceConfig identifies the device a session controls. The MAC is the
// hardware address the bridge uses to namespace topics; it is fixed for the
// process lifetime.
type DeviceConfig struct {
	MAC       string `json:"mac"`
	Namespace string `json:"namespace"`
}

// SetDefaults applies sane defaults.
func (c *DeviceConfig) SetDefaults() {
	if c.Namespace == "" {
		c.Namespace = control.DefaultNamespace
	}
	c.MAC = strings.ToUpper(c.MAC)
}

// Validate checks that the MAC is a 12 character hex token.
func (c DeviceConfig) Validate() error {
	if c.MAC == "" {
		return fmt.Errorf("device mac is required")
	}
	if len(c.MAC) != 12 {
		return fmt.Errorf("device mac must be 12 hex characters, got %q", c.MAC)
	}
	for _, r := range c.MAC {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return fmt.Errorf("device mac contains invalid character %q", r)
		}
	}
	return nil
}
