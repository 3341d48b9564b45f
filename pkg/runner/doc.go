/*
Package runner implements the line-oriented simulation loop.

Each line read from the handler is sanitized and submitted as one input to an
Executor (typically an *automata.Machine). The outcome is reported back to the
handler and the loop moves on: execution errors are scoped to their line and
never stop the loop. The loop ends at EOF or when the context is canceled.

# Key Components

  - Runner: the loop itself.
  - IOHandler: decouples how lines are read and outcomes presented.
  - TextHandler: human-readable output with the transition trace.
  - JSONHandler: one NDJSON object per line for scripting.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	summary, err := r.Run(ctx, machine)
	if err != nil {
		log.Fatal(err)
	}
*/
package runner
