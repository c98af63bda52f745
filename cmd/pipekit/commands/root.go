package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pipekit",
	Short: "Assemble and run streaming dataflow pipelines",
	Long: `pipekit - streaming pipeline blocks for pull-based dataflow.

A pipeline is described in YAML as a set of typed bounded buffers and the
blocks wired between them (stream sources and sinks, serializers,
decimators, counters, rate estimators, formatters). pipekit builds the
description into a cooperative single-threaded pipeline and runs it until
no block can make further progress.

Examples:
  # Run a pipeline description
  pipekit run pipeline.yaml

  # Run with per-block trace logging and a transfer summary
  pipekit -v run --stats pipeline.yaml

  # Inspect a description without running it
  pipekit describe pipeline.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
