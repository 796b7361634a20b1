package commands

import "golang.org/x/sys/unix"

// securityJailed reports whether the current process already runs inside a
// jail.
func securityJailed() (bool, error) {
	v, err := unix.SysctlUint32("security.jail.jailed")
	if err != nil {
		return false, err
	}
	return v != 0, nil
}
