package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tkaufmann/fossibot-cli/core/control"
)

func main() {
	broker := flag.String("broker", "tcp://localhost:1883", "MQTT broker URL")
	mac := flag.String("mac", "7C2C67AB5F0E", "simulated device MAC")
	namespace := flag.String("namespace", control.DefaultNamespace, "topic namespace")
	interval := flag.Duration("interval", 5*time.Second, "state publish interval")
	soc := flag.Float64("soc", 60, "initial state of charge in percent")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev := NewSimulatedDevice(*mac, *broker, *namespace, *interval, *soc)
	log.Printf("simulating %s on %s", *mac, *broker)
	if err := dev.Run(ctx); err != nil {
		log.Fatalf("simulator: %v", err)
	}
}
