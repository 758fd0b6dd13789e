package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tkaufmann/fossibot-cli/app"
	"github.com/tkaufmann/fossibot-cli/config"
	"github.com/tkaufmann/fossibot-cli/internal/console"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "fossibot-cli",
	Short: "Interactive control client for the Fossibot MQTT bridge",
	RunE:  runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// newSession loads the configuration and connects to the broker.
func newSession() (*app.Session, *config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	sess, err := app.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return sess, cfg, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
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

	fmt.Fprintf(cmd.OutOrStdout(), "Fossibot Device Control - %s\n", cfg.Device.MAC)
	loop := console.NewLoop(sess, cmd.InOrStdin(), cmd.OutOrStdout())
	return loop.Run(ctx)
}
