package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/alecthomas/kingpin/v2"

	gojail "github.com/criyle/go-jail"
	"github.com/criyle/go-jail/pkg/jailparam"
)

type GetCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	jail   string
	params []string
	format string
}

// NewGetCommand returns the get command.
func NewGetCommand(rootCmd *RootCommand, app *kingpin.Application) *GetCommand {
	c := &GetCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("get", "Read parameters from a live jail.")
	c.Cmd.Arg("jail", "Jail name or numeric jid.").Required().StringVar(&c.jail)
	c.Cmd.Arg("params", "Parameter names to read, defaults to every parameter the kernel registers.").StringsVar(&c.params)
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")

	return c
}

func (c GetCommand) Name() string { return c.Cmd.FullCommand() }

func (c GetCommand) Run(ctx context.Context) error {
	filter, err := jailFilter(c.jail)
	if err != nil {
		return err
	}

	var tbl *jailparam.Table
	var jid gojail.JID
	if len(c.params) == 0 {
		tbl, jid, err = c.rootCmd.driver().GetAll(filter)
	} else {
		tbl, jid, err = c.rootCmd.driver().Get(filter, c.params...)
	}
	if err != nil {
		return fmt.Errorf("could not read jail parameters: %w", err)
	}

	c.rootCmd.Logger.WithField("jid", jid).Debugf("jail answered %d parameters", tbl.Len())

	if err := newPrinter(c.format, c.rootCmd.Stdout).PrintParams(tbl); err != nil {
		return fmt.Errorf("could not print parameters: %w", err)
	}

	return nil
}

// jailFilter builds a lookup filter from a jail name or numeric jid
// argument.
func jailFilter(arg string) (*jailparam.Table, error) {
	t := jailparam.NewTable()
	if jid, err := strconv.ParseInt(arg, 10, 32); err == nil {
		if jid <= 0 {
			return nil, fmt.Errorf("jid %d does not identify a live jail: %w", jid, errNotValid)
		}
		if err := t.Insert(gojail.ParamJID, jailparam.Int32(int32(jid))); err != nil {
			return nil, err
		}
		return t, nil
	}
	if err := t.Insert(gojail.ParamName, jailparam.Text(arg)); err != nil {
		return nil, err
	}
	return t, nil
}
