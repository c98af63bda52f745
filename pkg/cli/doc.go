// Package cli provides common terminal utilities for pipekit command-line
// tools: lipgloss styles for rendered output and human-readable value
// formatting.
package cli
