package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var chargeCmd = &cobra.Command{
	Use:   "charge <amperes>",
	Short: "Set the charging current",
	Args:  cobra.ExactArgs(1),
	RunE:  runCharge,
}

func init() {
	rootCmd.AddCommand(chargeCmd)
}

func runCharge(cmd *cobra.Command, args []string) error {
	amperes, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("amperes must be an integer, got %q", args[0])
	}

	sess, _, err := newSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.SetChargingCurrent(amperes); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sent: Set charging current to %dA\n", amperes)
	return nil
}
