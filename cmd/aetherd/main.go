// Package main is the entry point for the aetherd daemon.
package main

import (
	"os"

	"github.com/aether-ai/aether/internal/daemon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
