package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	gojail "github.com/criyle/go-jail"
	"github.com/criyle/go-jail/pkg/jailparam"
)

type CreateCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	file string

	// Flag based definition, ignored when --file is set.
	name       string
	path       string
	hostname   string
	domainName string
	ip4        string
	ip6        string
	persist    bool
	params     []string

	update bool
	attach bool
}

// NewCreateCommand returns the create command.
func NewCreateCommand(rootCmd *RootCommand, app *kingpin.Application) *CreateCommand {
	c := &CreateCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("create", "Create a new jail.")

	c.Cmd.Flag("file", "Jail definition YAML file, replaces the definition flags.").Short('f').StringVar(&c.file)

	// Flag based definition.
	c.Cmd.Flag("name", "Name for the jail.").Short('n').StringVar(&c.name)
	c.Cmd.Flag("path", "Root directory of the jail.").StringVar(&c.path)
	c.Cmd.Flag("hostname", "Hostname inside the jail.").StringVar(&c.hostname)
	c.Cmd.Flag("domainname", "NIS domain name inside the jail.").StringVar(&c.domainName)
	c.Cmd.Flag("ip4", "IPv4 address for the jail.").StringVar(&c.ip4)
	c.Cmd.Flag("ip6", "IPv6 address for the jail.").StringVar(&c.ip6)
	c.Cmd.Flag("persist", "Keep the jail alive with no processes inside.").BoolVar(&c.persist)
	c.Cmd.Flag("param", "Extra jail parameter as name=value, repeatable.").Short('p').StringsVar(&c.params)

	c.Cmd.Flag("update", "Update the jail instead of failing when it already exists.").BoolVar(&c.update)
	c.Cmd.Flag("attach", "Attach the current process to the jail after creating it.").BoolVar(&c.attach)

	return c
}

func (c CreateCommand) Name() string { return c.Cmd.FullCommand() }

func (c CreateCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	schema := jailparam.DefaultSchema()

	// Build the jail config from the file or from flags.
	var cfg gojail.Config
	var err error
	if c.file != "" {
		def, err2 := LoadDefinition(c.file)
		if err2 != nil {
			return err2
		}
		cfg, err = def.Config(schema)
		if err != nil {
			return fmt.Errorf("invalid jail file: %w", err)
		}
	} else {
		def := Definition{
			Name:       c.name,
			Path:       c.path,
			Hostname:   c.hostname,
			DomainName: c.domainName,
			IP4:        c.ip4,
			IP6:        c.ip6,
			Persist:    c.persist,
		}
		cfg, err = def.Config(schema)
		if err != nil {
			return err
		}
		cfg.Extra, err = parseParamSpecs(schema, c.params)
		if err != nil {
			return err
		}
	}

	t, err := cfg.Table()
	if err != nil {
		return fmt.Errorf("could not build parameter table: %w", err)
	}

	action := gojail.ActionCreate
	if c.update {
		action = gojail.ActionCreateOrUpdate
	}
	if c.attach {
		action = action.AttachCaller()
	}

	logger.WithField("name", cfg.Name).WithField("action", action.String()).Debugf("submitting jail parameters")

	jid, err := c.rootCmd.driver().Set(t, action)
	if err != nil {
		return fmt.Errorf("could not create jail: %w", err)
	}

	fmt.Fprintf(c.rootCmd.Stdout, "Jail created successfully!\n")
	fmt.Fprintf(c.rootCmd.Stdout, "  JID:  %d\n", jid)
	if cfg.Name != "" {
		fmt.Fprintf(c.rootCmd.Stdout, "  Name: %s\n", cfg.Name)
	}
	fmt.Fprintf(c.rootCmd.Stdout, "  Path: %s\n", cfg.Path)

	return nil
}
