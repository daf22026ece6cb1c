package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"tasker/internal/config"
	"tasker/internal/exitcode"
	"tasker/internal/service"
	"tasker/internal/store"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func init() {
	Register(&ExportCmd{})
	Register(&ImportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
}

// SetFormat sets the output format (for testing).
func (c *ExportCmd) SetFormat(format string) {
	c.format = format
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Print all tasks as JSON or YAML" }
func (c *ExportCmd) Usage() string     { return "tasker export [--format json|yaml]" }
func (c *ExportCmd) NeedsStore() bool  { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", formatJSON, "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	format, err := parseFormat(c.format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tasks, err := svc.Tasks(ctx)
	if err != nil {
		return reportError(errOut, err)
	}

	var data []byte
	switch format {
	case formatYAML:
		data, err = yaml.Marshal(tasks)
	default:
		data, err = json.MarshalIndent(tasks, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to encode tasks: %v\n", err)
		return exitcode.BackendError
	}

	out.Write(data)
	return exitcode.Success
}

// ImportCmd implements the import command.
// The imported tasks replace the whole collection.
type ImportCmd struct {
	format string
}

// SetFormat sets the input format (for testing).
func (c *ImportCmd) SetFormat(format string) {
	c.format = format
}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Replace all tasks from a JSON or YAML file" }
func (c *ImportCmd) Usage() string     { return "tasker import [--format json|yaml] <file>" }
func (c *ImportCmd) NeedsStore() bool  { return true }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "", "")
}

func (c *ImportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: file required")
		return exitcode.UserError
	}
	path := args[0]

	formatName := c.format
	if formatName == "" {
		formatName = formatFromPath(path)
	}
	format, err := parseFormat(formatName)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "error: failed to read %s: %v\n", path, err)
		return exitcode.UserError
	}

	var tasks []service.Task
	switch format {
	case formatYAML:
		err = yaml.Unmarshal(data, &tasks)
	default:
		tasks, err = store.Decode(string(data))
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid %s in %s: %v\n", format, path, err)
		return exitcode.UserError
	}

	if err := svc.Replace(ctx, tasks); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "ok %d tasks\n", len(tasks))
	}
	return exitcode.Success
}

func parseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	}
	return "", fmt.Errorf("unknown format: %s (want json or yaml)", s)
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatJSON
}
