package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/pipekit/pkg/assembly"
	"github.com/haivivi/pipekit/pkg/cli"
	"github.com/haivivi/pipekit/pkg/pipe"
)

var runStats bool

var runCmd = &cobra.Command{
	Use:   "run <pipeline.yaml>",
	Short: "Build a pipeline from a YAML description and run it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := assembly.Load(args[0])
		if err != nil {
			return err
		}

		var opts []pipe.Option
		if verbose {
			log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}))
			opts = append(opts, pipe.WithDebug(true), pipe.WithLogger(log))
		}

		p, err := assembly.Build(cfg, opts...)
		if err != nil {
			return err
		}
		defer p.Close()

		if err := p.Run(); err != nil {
			return err
		}
		if runStats {
			printStats(p)
		}
		return p.Close()
	},
}

func printStats(p *assembly.Pipeline) {
	styles := cli.NewStyles(cli.DefaultTheme)
	name := p.Name
	if name == "" {
		name = "pipeline"
	}
	fmt.Println(styles.Title.Render(name))
	for _, s := range p.Stats() {
		fmt.Printf("  %s %s transferred, %s queued (cap %d)\n",
			styles.Label.Render(s.Name),
			cli.FormatCount(s.Out),
			cli.FormatCount(uint64(s.Readable)),
			s.Cap,
		)
	}
}

func init() {
	runCmd.Flags().BoolVar(&runStats, "stats", false, "print per-buffer transfer stats after the run")
	rootCmd.AddCommand(runCmd)
}
