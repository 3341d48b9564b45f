package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/automata/internal/presentation/tui"
	"github.com/aretw0/automata/pkg/domain"
	"github.com/aretw0/automata/pkg/runner"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <definition>",
	Short: "Run input sentences through an automaton",
	Long: `Loads a definition (file path, --repo document or stored name) and runs every
line of stdin through it, printing the transition trace and the verdict.
Use --input to run a single sentence instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMachine(cmd, args[0])
		if err != nil {
			return err
		}
		return simulate(cmd, m)
	},
}

// pdaCmd represents the pda command
var pdaCmd = &cobra.Command{
	Use:   "pda <definition>",
	Short: "Run input sentences through a stack automaton",
	Long: `Like run, but refuses definitions that are not stack automata. The stack is
printed after every transition.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMachine(cmd, args[0])
		if err != nil {
			return err
		}
		if m.Kind() != domain.KindStack {
			return fmt.Errorf("%s is a %s automaton, want %s", args[0], m.Kind(), domain.KindStack)
		}
		return simulate(cmd, m)
	},
}

func init() {
	for _, c := range []*cobra.Command{runCmd, pdaCmd} {
		addSimulationFlags(c)
		rootCmd.AddCommand(c)
	}
}

func addSimulationFlags(c *cobra.Command) {
	c.Flags().String("input", "", "Run a single sentence instead of reading stdin")
	c.Flags().Bool("json", false, "Read and write NDJSON instead of text")
	c.Flags().Bool("no-trace", false, "Print only the verdict of each sentence")
	c.Flags().Bool("stop-on-error", false, "Stop at the first execution error")
	c.Flags().Bool("quiet", false, "Do not print the banner")
}

// simulate drives m with the runner loop until EOF or interruption.
func simulate(cmd *cobra.Command, m runner.Executor) error {
	jsonMode, _ := cmd.Flags().GetBool("json")
	noTrace, _ := cmd.Flags().GetBool("no-trace")
	stopOnError, _ := cmd.Flags().GetBool("stop-on-error")
	quiet, _ := cmd.Flags().GetBool("quiet")

	in := cmd.InOrStdin()
	single := cmd.Flags().Changed("input")
	if single {
		input, _ := cmd.Flags().GetString("input")
		in = strings.NewReader(input + "\n")
	}
	out := cmd.OutOrStdout()

	var handler runner.IOHandler
	if jsonMode {
		handler = runner.NewJSONHandler(in, out)
	} else {
		if !quiet && !single {
			tui.PrintBanner(out)
		}
		handler = runner.NewTextHandler(in, out,
			runner.WithTrace(!noTrace),
			runner.WithVerdictFormatter(tui.FormatVerdict),
			runner.WithErrorFormatter(tui.FormatError),
		)
	}

	r := runner.NewRunner(
		runner.WithLogger(createLogger(cmd)),
		runner.WithInputHandler(handler),
		runner.WithStopOnError(stopOnError),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := r.Run(ctx, m)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	if single && summary.Failed > 0 {
		return fmt.Errorf("sentence failed")
	}
	return nil
}
