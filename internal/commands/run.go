package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"forgiveness/internal/exitcode"
	"forgiveness/internal/forgive"
)

func init() {
	Register(&RunCmd{})
}

// RunCmd implements the run command: one forgiveness pass over a list.
type RunCmd struct{}

func (c *RunCmd) Name() string                { return "run" }
func (c *RunCmd) Aliases() []string           { return []string{"forgive"} }
func (c *RunCmd) Synopsis() string            { return "Move overdue tasks in a list to today" }
func (c *RunCmd) NeedsService() bool          { return true }
func (c *RunCmd) RegisterFlags(*flag.FlagSet) {}

// Run resolves the list from the arguments or the configured title.
func (c *RunCmd) Run(ctx context.Context, env *Env, args []string) int {
	title := env.Config.ListTitle
	if len(args) > 0 {
		title = strings.Join(args, " ")
	}
	if title == "" {
		fmt.Fprintln(env.ErrOut, "error: list title required (LIST_TITLE, --list or argument)")
		return exitcode.UserError
	}

	runner := forgive.NewRunner(env.Service, env.Log, forgive.Options{
		ListTitle:     title,
		DryRun:        env.Config.DryRun,
		SkipMalformed: env.Config.SkipMalformed,
	})

	report, err := runner.Run(ctx)
	if err != nil {
		var nf *forgive.NotFoundError
		var de *forgive.DateError
		switch {
		case errors.As(err, &nf):
			fmt.Fprintf(env.ErrOut, "error: list not found: %s\n", nf.Title)
			return exitcode.ListNotFound
		case errors.As(err, &de):
			fmt.Fprintf(env.ErrOut, "error: %v\n", de)
			return exitcode.BackendError
		default:
			fmt.Fprintf(env.ErrOut, "error: backend error: %v\n", err)
			return exitcode.BackendError
		}
	}

	env.Log.Debug("run complete",
		"updated", report.Count(forgive.StateUpdated),
		"failed", report.Count(forgive.StateUpdateFailed),
		"would_update", report.Count(forgive.StateWouldUpdate))
	return exitcode.Success
}
