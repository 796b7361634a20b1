package gojail

import (
	"fmt"
	"net/netip"

	"github.com/criyle/go-jail/pkg/jailparam"
)

// Config describes a jail for Create and Update with plain fields for the
// common parameters. Zero fields are left out of the parameter set so the
// kernel applies its defaults. Anything not covered by a field goes in
// Extra.
type Config struct {
	// JID targets an existing jail for update, or requests an explicit id
	// on create when positive
	JID JID
	// Name is the jail name, usable as an identifier in later calls
	Name string
	// Path is the jail's filesystem root
	Path string
	// Hostname and DomainName set the in-jail host.hostname and
	// host.domainname
	Hostname   string
	DomainName string
	// IP4 and IP6 assign one address per family; address lists go through
	// Extra as blobs
	IP4 netip.Addr
	IP6 netip.Addr
	// Persist keeps the jail alive with no processes inside
	Persist bool
	// Securelevel raises the in-jail kern.securelevel when positive. The
	// kernel never lets a jail run below the host level, so 0 is the same
	// as leaving it out.
	Securelevel int32
	// Extra appends further parameters after the named fields, in table
	// order. Names colliding with a named field fail the encode.
	Extra *jailparam.Table
}

// Table renders the config into an ordered parameter table
func (c Config) Table() (*jailparam.Table, error) {
	t := jailparam.NewTable()
	if c.JID > 0 {
		if err := t.Insert(ParamJID, jailparam.Int32(int32(c.JID))); err != nil {
			return nil, err
		}
	}
	if c.Name != "" {
		if err := t.Insert(ParamName, jailparam.Text(c.Name)); err != nil {
			return nil, err
		}
	}
	if c.Path != "" {
		if err := t.Insert("path", jailparam.Text(c.Path)); err != nil {
			return nil, err
		}
	}
	if c.Hostname != "" {
		if err := t.Insert("host.hostname", jailparam.Text(c.Hostname)); err != nil {
			return nil, err
		}
	}
	if c.DomainName != "" {
		if err := t.Insert("host.domainname", jailparam.Text(c.DomainName)); err != nil {
			return nil, err
		}
	}
	if c.IP4.IsValid() {
		if !c.IP4.Unmap().Is4() {
			return nil, fmt.Errorf("gojail: %v is not an IPv4 address: %w", c.IP4, jailparam.ErrMalformed)
		}
		if err := t.Insert("ip4.addr", jailparam.Addr(c.IP4)); err != nil {
			return nil, err
		}
	}
	if c.IP6.IsValid() {
		if c.IP6.Unmap().Is4() {
			return nil, fmt.Errorf("gojail: %v is not an IPv6 address: %w", c.IP6, jailparam.ErrMalformed)
		}
		if err := t.Insert("ip6.addr", jailparam.Addr(c.IP6)); err != nil {
			return nil, err
		}
	}
	if c.Persist {
		if err := t.Insert("persist", jailparam.Bool(true)); err != nil {
			return nil, err
		}
	}
	if c.Securelevel > 0 {
		if err := t.Insert("securelevel", jailparam.Int32(c.Securelevel)); err != nil {
			return nil, err
		}
	}
	if c.Extra != nil {
		for _, e := range c.Extra.Entries() {
			if err := t.Insert(e.Name, e.Value); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}
