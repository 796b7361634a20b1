package gojail

import (
	"fmt"

	"github.com/criyle/go-jail/pkg/jailparam"
)

// JID identifies a live jail. 0 means none, or the current jail in lookup
// parameters; negative values never identify a jail.
type JID int32

// defaultDriver backs the package level calls
var defaultDriver = &Driver{}

// Jail is a handle to a jail created or looked up through a Driver
type Jail struct {
	JID  JID
	Name string

	drv *Driver
}

func (j *Jail) driver() *Driver {
	if j.drv != nil {
		return j.drv
	}
	return defaultDriver
}

// Attach moves the calling process into the jail
func (j *Jail) Attach() error {
	return j.driver().AttachJID(j.JID)
}

// Remove kills the jail and every process inside it
func (j *Jail) Remove() error {
	return j.driver().RemoveJID(j.JID)
}

// Params reads the named parameters from the jail
func (j *Jail) Params(names ...string) (*jailparam.Table, error) {
	filter := jailparam.NewTable()
	if err := filter.Insert(ParamJID, jailparam.Int32(int32(j.JID))); err != nil {
		return nil, &Error{Kind: structuralKind(err), Op: "get", Err: err}
	}
	tbl, _, err := j.driver().Get(filter, names...)
	return tbl, err
}

func (j *Jail) String() string {
	if j.Name != "" {
		return fmt.Sprintf("jail %d (%s)", j.JID, j.Name)
	}
	return fmt.Sprintf("jail %d", j.JID)
}

// Create builds the jail described by the config and returns its handle
func (d *Driver) Create(c Config) (*Jail, error) {
	return d.configSet(c, ActionCreate)
}

// Update modifies the live jail described by the config, targeted by its
// JID or Name field
func (d *Driver) Update(c Config) (*Jail, error) {
	return d.configSet(c, ActionUpdate)
}

func (d *Driver) configSet(c Config, a Action) (*Jail, error) {
	t, err := c.Table()
	if err != nil {
		return nil, &Error{Kind: structuralKind(err), Op: "set", Err: err}
	}
	jid, err := d.Set(t, a)
	if err != nil {
		return nil, err
	}
	return &Jail{JID: jid, Name: c.Name, drv: d}, nil
}

// Lookup finds a live jail by name
func (d *Driver) Lookup(name string) (*Jail, error) {
	const op = "get"
	if name == "" {
		return nil, &Error{Kind: MissingIdentifier, Op: op, Msg: "empty jail name"}
	}
	filter := jailparam.NewTable()
	if err := filter.Insert(ParamName, jailparam.Text(name)); err != nil {
		return nil, &Error{Kind: structuralKind(err), Op: op, Err: err}
	}
	_, jid, err := d.Get(filter)
	if err != nil {
		return nil, err
	}
	return &Jail{JID: jid, Name: name, drv: d}, nil
}

// Package level calls backed by a zero Driver against the live kernel.

// Create builds the jail described by the config
func Create(c Config) (*Jail, error) {
	return defaultDriver.Create(c)
}

// Update modifies a live jail described by the config
func Update(c Config) (*Jail, error) {
	return defaultDriver.Update(c)
}

// Lookup finds a live jail by name
func Lookup(name string) (*Jail, error) {
	return defaultDriver.Lookup(name)
}

// Set submits a parameter table with the given action
func Set(t *jailparam.Table, a Action) (JID, error) {
	return defaultDriver.Set(t, a)
}

// Get reads parameters from the jail selected by the filter
func Get(filter *jailparam.Table, names ...string) (*jailparam.Table, JID, error) {
	return defaultDriver.Get(filter, names...)
}

// GetAll reads every parameter the kernel registers from the jail selected
// by the filter
func GetAll(filter *jailparam.Table) (*jailparam.Table, JID, error) {
	return defaultDriver.GetAll(filter)
}

// Remove kills the jail identified by the table
func Remove(t *jailparam.Table) error {
	return defaultDriver.Remove(t)
}

// Attach moves the calling process into the jail identified by the table
func Attach(t *jailparam.Table) error {
	return defaultDriver.Attach(t)
}

// List enumerates live jails with the named parameters
func List(names ...string) ([]*jailparam.Table, error) {
	return defaultDriver.List(names...)
}
