// Package main is the entry point for the pipekit CLI.
//
// Usage:
//
//	pipekit [flags] <command> [args]
//
// Commands:
//
//	run       - Build a pipeline from a YAML description and run it
//	describe  - Show the topology of a pipeline description
//	version   - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/pipekit/cmd/pipekit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
