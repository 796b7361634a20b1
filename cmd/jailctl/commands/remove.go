package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"
)

type RemoveCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	jail string
}

// NewRemoveCommand returns the remove command.
func NewRemoveCommand(rootCmd *RootCommand, app *kingpin.Application) *RemoveCommand {
	c := &RemoveCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("remove", "Kill a live jail and every process inside it.")
	c.Cmd.Arg("jail", "Jail name or numeric jid.").Required().StringVar(&c.jail)

	return c
}

func (c RemoveCommand) Name() string { return c.Cmd.FullCommand() }

func (c RemoveCommand) Run(ctx context.Context) error {
	filter, err := jailFilter(c.jail)
	if err != nil {
		return err
	}

	if err := c.rootCmd.driver().Remove(filter); err != nil {
		return fmt.Errorf("could not remove jail: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Removed jail: %s\n", c.jail)

	return nil
}
