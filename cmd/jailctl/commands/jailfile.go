package commands

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	gojail "github.com/criyle/go-jail"
	"github.com/criyle/go-jail/pkg/jailparam"
)

// errNotValid marks jail definitions and parameter values that fail
// validation before any kernel call.
var errNotValid = errors.New("not valid")

// Definition is a jail described in a YAML file, the file based counterpart
// of the create command's flags.
type Definition struct {
	Name       string            `yaml:"name"`
	Path       string            `yaml:"path"`
	Hostname   string            `yaml:"hostname"`
	DomainName string            `yaml:"domainname"`
	IP4        string            `yaml:"ip4"`
	IP6        string            `yaml:"ip6"`
	Persist    bool              `yaml:"persist"`
	Params     map[string]string `yaml:"params"`
}

// LoadDefinition reads a jail definition from a YAML file.
func LoadDefinition(path string) (*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read jail file: %w", err)
	}
	var d Definition
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("could not parse jail file: %w", err)
	}
	return &d, nil
}

// Validate checks the definition holds everything a create needs.
func (d Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("name is required: %w", errNotValid)
	}
	if d.Path == "" {
		return fmt.Errorf("path is required: %w", errNotValid)
	}
	if !strings.HasPrefix(d.Path, "/") {
		return fmt.Errorf("path must be absolute: %w", errNotValid)
	}
	if d.IP4 != "" {
		if a, err := netip.ParseAddr(d.IP4); err != nil || !a.Unmap().Is4() {
			return fmt.Errorf("ip4 %q is not an IPv4 address: %w", d.IP4, errNotValid)
		}
	}
	if d.IP6 != "" {
		if a, err := netip.ParseAddr(d.IP6); err != nil || a.Unmap().Is4() {
			return fmt.Errorf("ip6 %q is not an IPv6 address: %w", d.IP6, errNotValid)
		}
	}
	return nil
}

// Config renders the definition into a jail config, typing the params map
// through the schema. Params submit in sorted name order so runs are
// deterministic.
func (d Definition) Config(schema *jailparam.Schema) (gojail.Config, error) {
	if err := d.Validate(); err != nil {
		return gojail.Config{}, err
	}
	c := gojail.Config{
		Name:       d.Name,
		Path:       d.Path,
		Hostname:   d.Hostname,
		DomainName: d.DomainName,
		Persist:    d.Persist,
	}
	if d.IP4 != "" {
		c.IP4, _ = netip.ParseAddr(d.IP4)
	}
	if d.IP6 != "" {
		c.IP6, _ = netip.ParseAddr(d.IP6)
	}
	if len(d.Params) > 0 {
		names := make([]string, 0, len(d.Params))
		for name := range d.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		extra := jailparam.NewTable()
		for _, name := range names {
			v, err := paramValue(schema, name, d.Params[name])
			if err != nil {
				return gojail.Config{}, err
			}
			if err := extra.Insert(name, v); err != nil {
				return gojail.Config{}, err
			}
		}
		c.Extra = extra
	}
	return c, nil
}

// paramValue parses a flag or file parameter value into the typed value the
// schema expects. Names the schema does not know are probed on the live
// kernel and fall back to plain text.
func paramValue(schema *jailparam.Schema, name, raw string) (jailparam.Value, error) {
	kind, ok := schema.Kind(name)
	if !ok {
		if k, err := jailparam.ProbeKind(name); err == nil {
			kind = k
		} else {
			kind = jailparam.KindText
		}
	}
	switch kind {
	case jailparam.KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return jailparam.Value{}, fmt.Errorf("%s: %q is not a boolean: %w", name, raw, errNotValid)
		}
		return jailparam.Bool(b), nil
	case jailparam.KindInt32:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return jailparam.Value{}, fmt.Errorf("%s: %q is not a 32 bit integer: %w", name, raw, errNotValid)
		}
		return jailparam.Int32(int32(n)), nil
	case jailparam.KindInt64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return jailparam.Value{}, fmt.Errorf("%s: %q is not a 64 bit integer: %w", name, raw, errNotValid)
		}
		return jailparam.Int64(n), nil
	case jailparam.KindIPv4:
		a, err := netip.ParseAddr(raw)
		if err != nil || !a.Unmap().Is4() {
			return jailparam.Value{}, fmt.Errorf("%s: %q is not an IPv4 address: %w", name, raw, errNotValid)
		}
		return jailparam.Addr(a), nil
	case jailparam.KindIPv6:
		a, err := netip.ParseAddr(raw)
		if err != nil || a.Unmap().Is4() {
			return jailparam.Value{}, fmt.Errorf("%s: %q is not an IPv6 address: %w", name, raw, errNotValid)
		}
		return jailparam.Addr(a), nil
	default:
		return jailparam.Text(raw), nil
	}
}

// parseParamSpecs turns repeated key=value flags into an extra parameter
// table, in flag order.
func parseParamSpecs(schema *jailparam.Schema, specs []string) (*jailparam.Table, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	t := jailparam.NewTable()
	for _, s := range specs {
		k, v, ok := strings.Cut(s, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("parameter %q is not key=value: %w", s, errNotValid)
		}
		val, err := paramValue(schema, k, v)
		if err != nil {
			return nil, err
		}
		if err := t.Insert(k, val); err != nil {
			return nil, err
		}
	}
	return t, nil
}
