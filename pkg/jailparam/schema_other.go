//go:build !freebsd

package jailparam

import (
	"errors"
	"fmt"
)

// ProbeKind needs the security.jail.param sysctl tree, which only a FreeBSD
// kernel provides. Static schemas still work on other systems.
func ProbeKind(name string) (Kind, error) {
	return 0, fmt.Errorf("jailparam: probe %s: %w", name, errors.ErrUnsupported)
}

// ProbeNames needs the security.jail.param sysctl tree.
func ProbeNames() ([]string, error) {
	return nil, fmt.Errorf("jailparam: probe parameter names: %w", errors.ErrUnsupported)
}

// ProbeSchema needs the security.jail.param sysctl tree.
func ProbeSchema() (*Schema, error) {
	return nil, fmt.Errorf("jailparam: probe parameter vocabulary: %w", errors.ErrUnsupported)
}
