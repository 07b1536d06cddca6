// Package main is the entry point for the hospital-cost CLI.
package main

import (
	"os"

	"hospital-cost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
