package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/activity-atlas/pkg/runtime/app"
	"github.com/de-tools/activity-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/activity-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	globals  *commands.Globals
	open     commands.OpenFunc
	reporter *export.Reporter
	console  *Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	// Open defaults to app.Open.
	Open   commands.OpenFunc
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Open == nil {
		opts.Open = app.Open
	}

	cli := &CLI{
		globals:  &commands.Globals{},
		open:     opts.Open,
		reporter: export.NewReporter(opts.Output),
		console:  NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd(opts.Output)
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs replaces os.Args for the next Execute.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "atlas",
		Short:         "Activity reports of the procuradorias",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cli.globals.Bind(cmd)

	cmd.AddCommand(commands.NewReportCmd(cli.globals, cli.open, cli.reporter))
	cmd.AddCommand(commands.NewSyncCmd(cli.globals, cli.open, cli.console))
	cmd.AddCommand(commands.NewOfficesCmd(cli.globals, cli.console))

	return cmd
}
