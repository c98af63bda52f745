package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haivivi/pipekit/pkg/assembly"
	"github.com/haivivi/pipekit/pkg/cli"
)

var describeCmd = &cobra.Command{
	Use:   "describe <pipeline.yaml>",
	Short: "Show the topology of a pipeline description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := assembly.Load(args[0])
		if err != nil {
			return err
		}

		styles := cli.NewStyles(cli.DefaultTheme)
		name := cfg.Name
		if name == "" {
			name = args[0]
		}
		fmt.Println(styles.Title.Render(name))

		fmt.Println(styles.Label.Render("buffers"))
		for _, b := range cfg.Buffers {
			fmt.Printf("  %-16s %s × %d\n", b.Name, b.Type, b.Size)
		}

		fmt.Println(styles.Label.Render("blocks"))
		for _, b := range cfg.Blocks {
			fmt.Printf("  %-16s %s  %s\n", b.Name, b.Kind, styles.Dim.Render(wiring(b)))
		}
		return nil
	},
}

// wiring summarizes a block's connections and parameters on one line.
func wiring(b assembly.BlockSpec) string {
	var parts []string
	if b.Num != "" {
		parts = append(parts, b.Num+"+"+b.Den+" -> "+b.Output)
	} else {
		switch {
		case b.Input != "" && b.Output != "":
			parts = append(parts, b.Input+" -> "+b.Output)
		case b.Input != "":
			parts = append(parts, b.Input+" ->")
		case b.Output != "":
			parts = append(parts, "-> "+b.Output)
		}
	}
	if b.File != "" {
		parts = append(parts, "file="+b.File)
	}
	if b.Loop {
		parts = append(parts, "loop")
	}
	if b.Factor > 0 {
		parts = append(parts, fmt.Sprintf("factor=%d", b.Factor))
	}
	if b.Decimation > 0 {
		parts = append(parts, fmt.Sprintf("decimation=%d", b.Decimation))
	}
	if b.SampleSize > 0 {
		parts = append(parts, fmt.Sprintf("sample_size=%d", b.SampleSize))
	}
	return strings.Join(parts, "  ")
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
