package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/output"
	"tasker/internal/query"
	"tasker/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tasker` (no args) and `tasker list [--filter] [--sort]`.
type ListCmd struct {
	filter string
	sort   string
}

// SetOptions sets the filter and sort flags (for testing).
func (c *ListCmd) SetOptions(filter, sort string) {
	c.filter = filter
	c.sort = sort
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "tasker list [--filter <state>] [--sort deadline|<state>]"
}
func (c *ListCmd) NeedsStore() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.sort, "sort", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	var opts query.Options
	if c.filter != "" {
		state, err := service.ParseState(c.filter)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid filter state: %s\n", c.filter)
			return exitcode.UserError
		}
		opts.FilterState = state
	}
	if c.sort != "" {
		key, err := query.ParseSortKey(c.sort)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		opts.SortKey = key
	}

	tasks, err := svc.Tasks(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	// Numbers are stored positions so they stay valid for edit/done/rm
	// whatever the view order.
	positions := query.Positions(tasks, opts)
	if len(positions) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, output.NoTasks)
		}
		return exitcode.Success
	}

	for _, p := range positions {
		output.FormatTask(out, p+1, tasks[p])
	}
	return exitcode.Success
}
