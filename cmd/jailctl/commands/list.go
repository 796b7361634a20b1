package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

type ListCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
}

// NewListCommand returns the list command.
func NewListCommand(rootCmd *RootCommand, app *kingpin.Application) *ListCommand {
	c := &ListCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("list", "List all live jails.")
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c ListCommand) Name() string { return c.Cmd.FullCommand() }

func (c ListCommand) Run(ctx context.Context) error {
	tables, err := c.rootCmd.driver().List(listParams...)
	if err != nil {
		return fmt.Errorf("could not list jails: %w", err)
	}

	jails := make([]JailInfo, 0, len(tables))
	for _, t := range tables {
		jails = append(jails, jailInfo(t))
	}

	if err := newPrinter(c.format, c.rootCmd.Stdout).PrintJails(jails); err != nil {
		return fmt.Errorf("could not print list: %w", err)
	}

	return nil
}
