package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/alecthomas/kingpin/v2"
	"golang.org/x/sys/unix"
)

type ExecCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	jail string
	cmd  string
	args []string
}

// NewExecCommand returns the exec command.
func NewExecCommand(rootCmd *RootCommand, app *kingpin.Application) *ExecCommand {
	c := &ExecCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("exec", "Attach to a live jail and run a command inside it.")
	c.Cmd.Arg("jail", "Jail name or numeric jid.").Required().StringVar(&c.jail)
	c.Cmd.Arg("command", "Command to run inside the jail.").Default("/bin/sh").StringVar(&c.cmd)
	c.Cmd.Arg("args", "Arguments for the command.").StringsVar(&c.args)

	return c
}

func (c ExecCommand) Name() string { return c.Cmd.FullCommand() }

func (c ExecCommand) Run(ctx context.Context) error {
	filter, err := jailFilter(c.jail)
	if err != nil {
		return err
	}

	if err := c.rootCmd.driver().Attach(filter); err != nil {
		return fmt.Errorf("could not attach to jail: %w", err)
	}

	// The caller is inside the jail now, so the lookup resolves against the
	// jail's own filesystem.
	path, err := exec.LookPath(c.cmd)
	if err != nil {
		return fmt.Errorf("could not find command: %w", err)
	}

	argv := append([]string{c.cmd}, c.args...)
	if err := unix.Exec(path, argv, os.Environ()); err != nil {
		return fmt.Errorf("could not exec %s: %w", path, err)
	}

	return nil
}
