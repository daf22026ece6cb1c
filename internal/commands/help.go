package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// helpOrder is the order commands appear in help output.
var helpOrder = []string{"list", "add", "edit", "done", "rm", "export", "import", "login", "logout", "help", "version"}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasker help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %-52s %s\n", "tasker", "List all tasks")
	for _, cmd := range DefaultRegistry.Primary(helpOrder...) {
		fmt.Fprintf(out, "  %s\n", cmd.Usage())
		fmt.Fprintf(out, "      %s\n", cmd.Synopsis())
	}
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

const helpFooter = `
States:
  Done, "Not done" (todo), "Doing right now" (doing)

A <ref> is the task number shown by list or a task ID prefix (4+ chars).

Common flags:
  --config <dir>     Override config directory
  --backend <name>   Storage backend: file, sqlite, googletasks
  --quiet            Suppress informational output
  --debug            Print debug logs to stderr
`
