package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tkaufmann/fossibot-cli/internal/console"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream device state and bridge status until interrupted",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, cfg, err := newSession()
	if err != nil {
		return err
	}
	defer func() {
		sess.Close()
		fmt.Fprintln(cmd.OutOrStdout(), "Disconnected")
	}()

	renderer := console.NewRenderer(cmd.OutOrStdout())
	if err := sess.Subscribe(renderer.Render); err != nil {
		return err
	}
	sess.ServeMetrics(ctx)

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s, press Ctrl+C to stop\n", cfg.Device.MAC)
	<-ctx.Done()
	return nil
}
