package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/alecthomas/kingpin/v2"

	"github.com/criyle/go-jail/pkg/jailparam"
)

type ParamsCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	probe bool
}

// NewParamsCommand returns the params command.
func NewParamsCommand(rootCmd *RootCommand, app *kingpin.Application) *ParamsCommand {
	c := &ParamsCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("params", "List the known jail parameters and their types.")
	c.Cmd.Flag("probe", "Ask the running kernel for the type of each parameter.").BoolVar(&c.probe)

	return c
}

func (c ParamsCommand) Name() string { return c.Cmd.FullCommand() }

func (c ParamsCommand) Run(ctx context.Context) error {
	schema := jailparam.DefaultSchema()

	tw := tabwriter.NewWriter(c.rootCmd.Stdout, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "NAME\tTYPE")
	for _, name := range schema.Names() {
		kind, _ := schema.Kind(name)
		if c.probe {
			probed, err := jailparam.ProbeKind(name)
			if err != nil {
				fmt.Fprintf(tw, "%s\t%s (probe failed)\n", name, kind)
				continue
			}
			kind = probed
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, kind)
	}

	return nil
}
