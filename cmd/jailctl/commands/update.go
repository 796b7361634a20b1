package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	gojail "github.com/criyle/go-jail"
	"github.com/criyle/go-jail/pkg/jailparam"
)

type UpdateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	jail   string
	params []string
}

// NewUpdateCommand returns the update command.
func NewUpdateCommand(rootCmd *RootCommand, app *kingpin.Application) *UpdateCommand {
	c := &UpdateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("update", "Modify parameters of a live jail.")
	c.Cmd.Arg("jail", "Jail name or numeric jid.").Required().StringVar(&c.jail)
	c.Cmd.Flag("param", "Jail parameter as name=value, repeatable.").Short('p').Required().StringsVar(&c.params)

	return c
}

func (c UpdateCommand) Name() string { return c.Cmd.FullCommand() }

func (c UpdateCommand) Run(ctx context.Context) error {
	// The kernel matches the jail by the jid or name in the table itself.
	t, err := jailFilter(c.jail)
	if err != nil {
		return err
	}

	extra, err := parseParamSpecs(jailparam.DefaultSchema(), c.params)
	if err != nil {
		return err
	}
	for _, e := range extra.Entries() {
		if err := t.Insert(e.Name, e.Value); err != nil {
			return fmt.Errorf("could not apply parameter %s: %w", e.Name, err)
		}
	}

	jid, err := c.rootCmd.driver().Set(t, gojail.ActionUpdate)
	if err != nil {
		return fmt.Errorf("could not update jail: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Updated jail %d\n", jid)

	return nil
}
