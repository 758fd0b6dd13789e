package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var usbCmd = &cobra.Command{
	Use:   "usb on|off",
	Short: "Switch the USB output",
	Args:  cobra.ExactArgs(1),
	RunE:  runUSB,
}

func init() {
	rootCmd.AddCommand(usbCmd)
}

func runUSB(cmd *cobra.Command, args []string) error {
	sess, _, err := newSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	switch args[0] {
	case "on":
		if err := sess.TurnUSBOn(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sent: USB ON")
	case "off":
		if err := sess.TurnUSBOff(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sent: USB OFF")
	default:
		return fmt.Errorf("unknown usb state %q, want on or off", args[0])
	}
	return nil
}
