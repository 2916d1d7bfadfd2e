// Package main is the entry point for the aether CLI.
package main

import (
	"os"

	"github.com/aether-ai/aether/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
