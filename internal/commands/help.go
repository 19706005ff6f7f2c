package commands

import (
	"context"
	"flag"
	"fmt"

	"forgiveness/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string                { return "help" }
func (c *HelpCmd) Aliases() []string           { return nil }
func (c *HelpCmd) Synopsis() string            { return "Print usage" }
func (c *HelpCmd) NeedsService() bool          { return false }
func (c *HelpCmd) RegisterFlags(*flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprint(env.Out, usageHeader)
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(env.Out, "  %-10s %s\n", cmd.Name(), cmd.Synopsis())
	}
	fmt.Fprint(env.Out, usageFooter)
	return exitcode.Success
}

const usageHeader = `Usage:
  forgiveness [common flags]                Same as "forgiveness run"
  forgiveness run [common flags] [<list-title>]
  forgiveness <command> [common flags]

Commands:
`

const usageFooter = `
Common flags:
  --config <dir>       Override config directory
  --list <title>       List to scan (LIST_TITLE)
  --backend <name>     rest or google (BACKEND)
  --dry-run            Log what would change without writing (DRY_RUN)
  --skip-malformed     Skip tasks with unreadable due dates instead of aborting
  --quiet              Only print errors
  --debug              Print debug logs and raw payloads (DEBUG)

Environment:
  API_ROOT, CLIENT_ID, ACCESS_TOKEN configure the rest backend.
  Tasks whose note contains #noforgiveness are never changed.
`
