package main

import (
	"os"

	"github.com/tkaufmann/fossibot-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
