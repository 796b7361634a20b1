// Package commands holds the jailctl CLI commands.
package commands

import (
	"context"
	"io"

	"github.com/alecthomas/kingpin/v2"
	"github.com/sirupsen/logrus"

	gojail "github.com/criyle/go-jail"
)

// Command represents an application command, all commands that want to be
// executed should implement and register on main.
type Command interface {
	Name() string
	Run(ctx context.Context) error
}

// Logger output formats.
const (
	LoggerTypeDefault = "default"
	LoggerTypeJSON    = "json"
)

// RootCommand represents the root command, global flags and dependencies
// every command shares.
type RootCommand struct {
	// Global flags.
	Debug      bool
	NoLog      bool
	NoColor    bool
	LoggerType string
	Dying      bool

	// Standard input/output/error.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Logger is the application logger.
	Logger logrus.FieldLogger

	// Driver overrides the jail driver, used by tests.
	Driver *gojail.Driver
}

// NewRootCommand initializes the main root configuration.
func NewRootCommand(app *kingpin.Application) *RootCommand {
	c := &RootCommand{}

	app.Flag("debug", "Enable debug mode.").BoolVar(&c.Debug)
	app.Flag("no-log", "Disable logger.").BoolVar(&c.NoLog)
	app.Flag("no-color", "Disable logger color.").BoolVar(&c.NoColor)
	app.Flag("logger", "Selects the logger type.").Default(LoggerTypeDefault).EnumVar(&c.LoggerType, LoggerTypeDefault, LoggerTypeJSON)
	app.Flag("dying", "Include jails that are being torn down.").BoolVar(&c.Dying)

	return c
}

// driver returns the jail driver commands operate through.
func (c *RootCommand) driver() *gojail.Driver {
	if c.Driver != nil {
		return c.Driver
	}
	return &gojail.Driver{Dying: c.Dying}
}
