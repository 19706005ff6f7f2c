package commands

import (
	"context"
	"flag"
	"fmt"

	"forgiveness/internal/exitcode"
	"forgiveness/internal/output"
)

func init() {
	Register(&ListsCmd{})
}

// ListsCmd implements the lists command. It prints the exact titles a run
// can be pointed at.
type ListsCmd struct{}

func (c *ListsCmd) Name() string                { return "lists" }
func (c *ListsCmd) Aliases() []string           { return nil }
func (c *ListsCmd) Synopsis() string            { return "Print all lists" }
func (c *ListsCmd) NeedsService() bool          { return true }
func (c *ListsCmd) RegisterFlags(*flag.FlagSet) {}

func (c *ListsCmd) Run(ctx context.Context, env *Env, args []string) int {
	lists, err := env.Service.ListLists(ctx)
	if err != nil {
		fmt.Fprintf(env.ErrOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}

	if len(lists) == 0 && !env.Config.Quiet {
		fmt.Fprintln(env.Out, "no lists found")
		return exitcode.Success
	}
	for _, list := range lists {
		output.FormatListName(env.Out, list, list.Title == env.Config.ListTitle)
	}
	return exitcode.Success
}
